package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/api/respond"
	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

// StateView is the session summary returned by the state endpoints. Rows are
// served by the table endpoint.
type StateView struct {
	CurrentDataset string           `json:"currentDataset"`
	Datasets       []string         `json:"datasets"`
	Sort           table.SortConfig `json:"sortConfig"`
	SearchQuery    string           `json:"searchQuery"`
	SelectedTeams  state.Selection  `json:"selectedTeams"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
	SnapshotID     string           `json:"snapshotId,omitempty"`
	Rows           int              `json:"rows"`
	MergedTeams    int              `json:"mergedTeams"`
	Enhanced       bool             `json:"enhanced"`
	History        int              `json:"history"`
	Version        uint64           `json:"version"`
}

// StateRequest is a partial session update. Omitted fields are unchanged.
type StateRequest struct {
	CurrentDataset *string           `json:"currentDataset,omitempty"`
	ToggleDataset  bool              `json:"toggleDataset,omitempty"`
	Sort           *table.SortConfig `json:"sortConfig,omitempty"`
	SortColumn     *string           `json:"sortColumn,omitempty"` // header click: asc, then flip
	SearchQuery    *string           `json:"searchQuery,omitempty"`
	SelectedTeams  *state.Selection  `json:"selectedTeams,omitempty"`
}

func (h *Handler) stateView() StateView {
	store := h.svc.Store()
	st := store.Get()
	return StateView{
		CurrentDataset: st.CurrentDataset,
		Datasets:       h.svc.Loader().Datasets(),
		Sort:           st.Sort,
		SearchQuery:    st.SearchQuery,
		SelectedTeams:  st.SelectedTeams,
		Loading:        st.Loading,
		Error:          st.Err,
		SnapshotID:     st.SnapshotID,
		Rows:           len(st.Data),
		MergedTeams:    len(st.Merged),
		Enhanced:       len(st.Merged) > 0,
		History:        store.HistoryLen(),
		Version:        st.Version,
	}
}

// GetState returns the session summary.
// @Summary Get session state
// @Description Returns the current dataset, sort, search, selected teams and snapshot id.
// @Tags state
// @Produce json
// @Success 200 {object} StateView
// @Router /state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.stateView())
}

// PatchState applies a partial update. Switching the dataset reloads the
// table before the response is written.
// @Summary Update session state
// @Description Applies a partial update. Switching dataset reloads the table; a failed reload is reported in the error field.
// @Tags state
// @Accept json
// @Produce json
// @Param body body StateRequest true "Fields to change"
// @Success 200 {object} StateView
// @Failure 400 {object} respond.ErrorResponse
// @Router /state [patch]
func (h *Handler) PatchState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not a valid state update", err.Error())
		return
	}

	patch, code, msg := h.buildPatch(req)
	if code != "" {
		respond.WriteError(w, http.StatusBadRequest, code, msg)
		return
	}

	h.svc.Store().SetState(patch)
	respond.WriteJSONObject(w, http.StatusOK, h.stateView())
}

// buildPatch validates req against the current state. A non-empty code is a
// validation failure.
func (h *Handler) buildPatch(req StateRequest) (patch state.Patch, code, msg string) {
	st := h.svc.Store().Get()
	loader := h.svc.Loader()

	switch {
	case req.ToggleDataset && req.CurrentDataset != nil:
		return patch, "INVALID_DATASET", "Set currentDataset or toggleDataset, not both"
	case req.ToggleDataset:
		patch.CurrentDataset = state.Ptr(loader.Toggle(st.CurrentDataset))
	case req.CurrentDataset != nil:
		if !loader.ValidDataset(*req.CurrentDataset) {
			return patch, "INVALID_DATASET", "Unknown dataset: " + *req.CurrentDataset
		}
		patch.CurrentDataset = req.CurrentDataset
	}

	switch {
	case req.Sort != nil && req.SortColumn != nil:
		return patch, "INVALID_SORT", "Set sortConfig or sortColumn, not both"
	case req.SortColumn != nil:
		patch.Sort = state.Ptr(st.Sort.Toggle(*req.SortColumn))
	case req.Sort != nil:
		cfg := *req.Sort
		if cfg.Direction == "" {
			cfg.Direction = table.Asc
		}
		if cfg.Direction != table.Asc && cfg.Direction != table.Desc {
			return patch, "INVALID_SORT", "Sort direction must be asc or desc"
		}
		patch.Sort = &cfg
	}

	if req.SearchQuery != nil {
		q := table.SanitizeQuery(*req.SearchQuery)
		if !table.ValidQuery(q) {
			return patch, "INVALID_QUERY", "Search may only contain letters, numbers and spaces"
		}
		patch.SearchQuery = &q
	}

	if req.SelectedTeams != nil {
		sel := state.Selection{
			TeamA: strings.TrimSpace(req.SelectedTeams.TeamA),
			TeamB: strings.TrimSpace(req.SelectedTeams.TeamB),
		}
		if sel.TeamA != "" && sel.TeamA == sel.TeamB {
			return patch, "SAME_TEAM", "Please select two different teams"
		}
		patch.SelectedTeams = &sel
	}

	return patch, "", ""
}

// UndoState restores the previous session state.
// @Summary Undo last state change
// @Tags state
// @Produce json
// @Success 200 {object} StateView
// @Failure 409 {object} respond.ErrorResponse
// @Router /state/undo [post]
func (h *Handler) UndoState(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Store().Undo() {
		respond.WriteError(w, http.StatusConflict, "NOTHING_TO_UNDO", "No earlier state to restore")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, h.stateView())
}

// ReloadData refetches every dataset under a new snapshot id and clears
// cached responses.
// @Summary Reload datasets
// @Description Reloads the table and merged analytics from the data source.
// @Tags state
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /state/reload [post]
func (h *Handler) ReloadData(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Purge(r.Context()); err != nil {
		h.logger.Warn("Failed to purge response cache", "error", err)
	}
	res, err := h.svc.Reload(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "RELOAD_FAILED", "Failed to reload data", err.Error())
		return
	}

	body := map[string]interface{}{
		"snapshotId": h.svc.Store().Get().SnapshotID,
		"enhanced":   res.Enhanced(),
		"summary":    res.Summary(),
	}
	if res.Err != nil {
		body["enhancedError"] = res.Err.Error()
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}
