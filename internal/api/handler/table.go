package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-matchup/internal/api/respond"
	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/stats"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

// TableResponse is one rendered page of the team table.
type TableResponse struct {
	Dataset       string                      `json:"dataset"`
	Headers       []table.Header              `json:"headers"`
	Rows          []stats.BoxStats            `json:"rows"`
	Total         int                         `json:"total"`
	Count         int                         `json:"count"`
	Sort          table.SortConfig            `json:"sortConfig"`
	SearchQuery   string                      `json:"searchQuery"`
	LeagueAverage map[string]string           `json:"leagueAverage"`
	Heat          map[string][]table.HeatCell `json:"heat,omitempty"`
}

// tableRows applies search and sort to the current rows. Query parameters
// override the session's search and sort. A non-empty code is a validation
// failure.
func (h *Handler) tableRows(r *http.Request, st state.State) (rows []stats.BoxStats, query string, sortCfg table.SortConfig, code, msg string) {
	q := r.URL.Query()

	query = st.SearchQuery
	if q.Has("search") {
		query = table.SanitizeQuery(q.Get("search"))
	}
	if !table.ValidQuery(query) {
		return nil, "", sortCfg, "INVALID_QUERY", "Search may only contain letters, numbers and spaces"
	}

	sortCfg = st.Sort
	if col := q.Get("sort"); col != "" {
		dir := strings.ToLower(q.Get("direction"))
		if dir == "" {
			dir = table.Asc
		}
		if dir != table.Asc && dir != table.Desc {
			return nil, "", sortCfg, "INVALID_SORT", "Sort direction must be asc or desc"
		}
		sortCfg = table.SortConfig{Column: col, Direction: dir}
	}

	rows = table.Filter(st.Data, query)
	rows = table.Sort(rows, sortCfg)
	if query != "" {
		rows = table.Limit(rows, h.cfg.MaxSearchResults)
	}
	return rows, query, sortCfg, "", ""
}

// GetTable returns the current dataset filtered, sorted and shaded.
// @Summary Get team table
// @Description Returns the rows of the current dataset with header labels, a league-average row and heat-map shading for the scoring columns.
// @Tags table
// @Produce json
// @Param search query string false "Case-insensitive substring over all cells (defaults to the session search)"
// @Param sort query string false "Sort column (defaults to the session sort)"
// @Param direction query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} TableResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /table [get]
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	if len(st.Data) == 0 && st.Err != "" {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Failed to load data", st.Err)
		return
	}

	rows, query, sortCfg, code, msg := h.tableRows(r, st)
	if code != "" {
		respond.WriteError(w, http.StatusBadRequest, code, msg)
		return
	}

	headers := table.Headers(st.Data)
	heat := make(map[string][]table.HeatCell)
	for _, hd := range headers {
		if !table.IsHeatColumn(hd.Key) {
			continue
		}
		if cells := table.Heat(rows, hd.Key, h.cfg.GradientStops); cells != nil {
			heat[hd.Key] = cells
		}
	}

	if rows == nil {
		rows = []stats.BoxStats{}
	}
	respond.WriteJSONObject(w, http.StatusOK, TableResponse{
		Dataset:       st.CurrentDataset,
		Headers:       headers,
		Rows:          rows,
		Total:         len(st.Data),
		Count:         len(rows),
		Sort:          sortCfg,
		SearchQuery:   query,
		LeagueAverage: table.LeagueAverage(rows, headers),
		Heat:          heat,
	})
}

// ExportCSV downloads the rows currently shown in the table.
// @Summary Export table as CSV
// @Tags table
// @Produce text/csv
// @Param search query string false "Search filter"
// @Param sort query string false "Sort column"
// @Param direction query string false "Sort direction" Enums(asc, desc)
// @Success 200 {string} string "CSV document"
// @Failure 404 {object} respond.ErrorResponse
// @Router /table/export.csv [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	rows, _, _, code, msg := h.tableRows(r, st)
	if code != "" {
		respond.WriteError(w, http.StatusBadRequest, code, msg)
		return
	}
	if len(rows) == 0 {
		respond.WriteError(w, http.StatusNotFound, "NO_DATA", "No data to export")
		return
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, rows, st.CurrentDataset, h.now()); err != nil {
		h.logger.Error("CSV export failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export data")
		return
	}
	respond.WriteAttachment(w, "text/csv; charset=utf-8", table.ExportFilename, buf.Bytes())
}

// GetChart returns chart series for the current dataset.
// @Summary Get chart data
// @Description quarters: per-quarter scoring series per team. trends: win percentage vs points scatter.
// @Tags table
// @Produce json
// @Param kind path string true "Chart kind" Enums(quarters, trends)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /charts/{kind} [get]
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	kind := chi.URLParam(r, "kind")

	switch kind {
	case table.ChartQuarters:
		chart, ok := table.QuarterSeries(st.Data)
		if !ok {
			respond.WriteError(w, http.StatusNotFound, "NO_QUARTER_DATA", "Dataset has no quarter columns")
			return
		}
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"kind":    kind,
			"dataset": st.CurrentDataset,
			"chart":   chart,
		})
	case table.ChartTrends:
		points := table.TrendPoints(st.Data)
		if points == nil {
			points = []table.TrendPoint{}
		}
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"kind":    kind,
			"dataset": st.CurrentDataset,
			"points":  points,
		})
	default:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_CHART", "Unknown chart kind: "+kind)
	}
}
