package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-matchup/internal/api/respond"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
	"github.com/albapepper/scoracle-matchup/internal/rating"
	"github.com/albapepper/scoracle-matchup/internal/state"
)

// TeamProfileResponse wraps a single team's rating profile.
type TeamProfileResponse struct {
	Team     string             `json:"team"`
	Enhanced bool               `json:"enhanced"`
	Profile  rating.TeamProfile `json:"profile"`
}

// GetTeams lists the teams available for comparison.
// @Summary List teams
// @Description Returns team names from the merged analytics view, or from the current table when analytics are unavailable. Used for team pickers.
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /teams [get]
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()

	enhanced := len(st.Merged) > 0
	var names []string
	if enhanced {
		names = st.Merged.Names()
	} else {
		seen := make(map[string]bool, len(st.Data))
		for _, row := range st.Data {
			if name := row.TeamName(); name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	if names == nil {
		names = []string{}
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"teams":    names,
		"count":    len(names),
		"enhanced": enhanced,
	})
}

// GetTeamProfile rates one team.
// @Summary Get team profile
// @Description Returns the overall, offensive and defensive ratings with style, strengths and weaknesses. Teams without analytics get the basic table rating.
// @Tags teams
// @Produce json
// @Param name path string true "Team name"
// @Success 200 {object} TeamProfileResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /teams/{name}/profile [get]
func (h *Handler) GetTeamProfile(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM", "Invalid team name")
		return
	}
	name = strings.TrimSpace(name)

	snap, snapshotID := dataset.SnapshotOf(h.svc.Store().Get())
	key := fmt.Sprintf("profile:%s:%d:%s", snapshotID, len(snap.Table), name)

	if profile, ok := h.engine.Profile(snap, name); ok {
		h.serveCached(w, r, key, func() interface{} {
			return TeamProfileResponse{Team: name, Enhanced: true, Profile: profile}
		})
		return
	}
	if profile, ok := h.engine.TableProfile(snap, name); ok {
		h.serveCached(w, r, key, func() interface{} {
			return TeamProfileResponse{Team: name, Profile: profile}
		})
		return
	}
	respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Team not found: "+name)
}

// GetLeague returns the league-wide min/max per metric.
// @Summary Get league ranges
// @Description Returns min and max of each advanced metric across all teams, as used to normalize radar charts.
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /league [get]
func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	h.serveCached(w, r, "league:"+st.SnapshotID, func() interface{} {
		return map[string]interface{}{
			"teams":    len(st.Merged),
			"enhanced": len(st.Merged) > 0,
			"league":   st.League,
		}
	})
}

// matchupTeams reads teamA and teamB from the query, falling back to the
// session selection. A non-empty code is a validation failure.
func matchupTeams(r *http.Request, sel state.Selection) (a, b, code, msg string) {
	q := r.URL.Query()
	a = strings.TrimSpace(q.Get("teamA"))
	b = strings.TrimSpace(q.Get("teamB"))
	if a == "" && b == "" {
		a, b = sel.TeamA, sel.TeamB
	}
	if a == "" || b == "" {
		return "", "", "MISSING_TEAMS", "Please select two teams to compare"
	}
	if a == b {
		return "", "", "SAME_TEAM", "Please select two different teams"
	}
	return a, b, "", ""
}

// cacheKey scopes a comparison to the snapshot and table it was built from.
// The basic path reads the table, which changes on dataset toggle without a
// new snapshot id.
func cacheKey(kind string, st state.State, a, b string) string {
	return fmt.Sprintf("%s:%s:%s:%d:%s|%s", kind, st.SnapshotID, st.CurrentDataset, len(st.Data), a, b)
}

// Compare runs a head-to-head comparison.
// @Summary Compare two teams
// @Description Returns both rating profiles, advantages, insights, betting angles and a confidence level. Without teamA/teamB the session's selected teams are used.
// @Tags compare
// @Produce json
// @Param teamA query string false "First team"
// @Param teamB query string false "Second team"
// @Success 200 {object} compare.Result
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Router /compare [get]
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	a, b, code, msg := matchupTeams(r, st.SelectedTeams)
	if code != "" {
		respond.WriteError(w, http.StatusBadRequest, code, msg)
		return
	}

	snap, _ := dataset.SnapshotOf(st)
	h.serveCached(w, r, cacheKey("compare", st, a, b), func() interface{} {
		return h.engine.Compare(snap, a, b)
	})
}

// Matchup runs the full matchup view: comparison, stat edges, verdict,
// x-factors, momentum and radar.
// @Summary Matchup analysis
// @Description Returns the comparison plus per-stat edges, a verdict, x-factors, scoring momentum and radar axes.
// @Tags compare
// @Produce json
// @Param teamA query string false "First team"
// @Param teamB query string false "Second team"
// @Success 200 {object} compare.Matchup
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Router /matchup [get]
func (h *Handler) Matchup(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	a, b, code, msg := matchupTeams(r, st.SelectedTeams)
	if code != "" {
		respond.WriteError(w, http.StatusBadRequest, code, msg)
		return
	}

	snap, _ := dataset.SnapshotOf(st)
	h.serveCached(w, r, cacheKey("matchup", st, a, b), func() interface{} {
		return h.engine.Matchup(snap, a, b)
	})
}
