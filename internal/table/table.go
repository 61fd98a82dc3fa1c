// Package table implements the sortable, searchable team table: header
// labels, filtering, sorting, the league-average row, heat-map shading,
// chart series and CSV export.
package table

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// MaxQueryLength bounds search input.
const MaxQueryLength = 100

// Header is a table column: the raw key and its display label.
type Header struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SortConfig selects the sort column and direction.
type SortConfig struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// Toggle returns the config for a click on column: ascending on a new column,
// flipping direction on the current one.
func (s *SortConfig) Toggle(column string) SortConfig {
	if s != nil && s.Column == column && s.Direction == Asc {
		return SortConfig{Column: column, Direction: Desc}
	}
	return SortConfig{Column: column, Direction: Asc}
}

// columnOrder is the display order of known columns. Unknown columns follow
// in lexical order.
var columnOrder = []string{
	"RANK", "TEAM NAME", "TEAM", "GAMES", "WIN", "WINS", "W", "LOSS", "LOSSES", "L",
	"WIN %", "WIN_PCT", "PTS", "POINTS", "TOTAL POINTS",
	"Q1", "Q1 POINTS", "Q2", "Q2 POINTS", "Q3", "Q3 POINTS", "Q4", "Q4 POINTS",
	"FG%", "FG_PCT", "3P%", "3PT%", "FT%", "FT_PCT",
	"REB", "REBOUNDS", "AST", "ASSISTS", "STL", "STEALS", "BLK", "BLOCKS", "TOV",
}

var columnRank = func() map[string]int {
	m := make(map[string]int, len(columnOrder))
	for i, c := range columnOrder {
		m[c] = i
	}
	return m
}()

// Headers derives the columns from the first row.
func Headers(rows []stats.BoxStats) []Header {
	if len(rows) == 0 {
		return nil
	}

	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := columnRank[strings.ToUpper(keys[i])]
		rj, jKnown := columnRank[strings.ToUpper(keys[j])]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})

	headers := make([]Header, len(keys))
	for i, k := range keys {
		headers[i] = Header{Key: k, Label: stats.ColumnLabel(k)}
	}
	return headers
}

// Filter keeps rows where any value contains query, case-insensitively.
func Filter(rows []stats.BoxStats, query string) []stats.BoxStats {
	if query == "" || len(rows) == 0 {
		return rows
	}

	q := strings.ToLower(query)
	out := make([]stats.BoxStats, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if strings.Contains(strings.ToLower(stats.String(v)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort returns a sorted copy of rows. Values compare numerically when both
// sides parse, otherwise as lower-cased strings. Equal rows keep their order.
func Sort(rows []stats.BoxStats, cfg SortConfig) []stats.BoxStats {
	out := make([]stats.BoxStats, len(rows))
	copy(out, rows)
	if cfg.Column == "" || len(out) == 0 {
		return out
	}

	desc := cfg.Direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := compareCells(out[i][cfg.Column], out[j][cfg.Column])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareCells(a, b any) int {
	na, okA := stats.ParseOptional(a)
	nb, okB := stats.ParseOptional(b)
	if okA && okB {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(stats.String(a)), strings.ToLower(stats.String(b)))
}

// LeagueAverage builds the league-average row. Each numeric column is the
// sum of parseable values divided by the row count; columns with no parseable
// value stay blank. Rank is blank and the team column reads "League Average".
func LeagueAverage(rows []stats.BoxStats, headers []Header) map[string]string {
	avg := make(map[string]string, len(headers))
	if len(rows) == 0 {
		return avg
	}

	for _, h := range headers {
		switch strings.ToUpper(h.Key) {
		case "RANK":
			avg[h.Key] = ""
			continue
		case "TEAM", "TEAM NAME":
			avg[h.Key] = "League Average"
			continue
		}

		var sum float64
		var seen bool
		for _, row := range rows {
			if v, ok := stats.ParseOptional(row[h.Key]); ok {
				sum += v
				seen = true
			}
		}
		if !seen {
			avg[h.Key] = ""
			continue
		}
		avg[h.Key] = FormatValue(sum / float64(len(rows)))
	}
	return avg
}

// FormatValue renders a cell: percentage strings verbatim, whole numbers
// without decimals, anything else numeric to one decimal place.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	s := stats.String(v)
	if s == "" || strings.Contains(s, "%") {
		return s
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

var validQuery = regexp.MustCompile(`^[a-zA-Z0-9\s]*$`)

// SanitizeQuery trims search input and bounds its length.
func SanitizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if r := []rune(q); len(r) > MaxQueryLength {
		q = string(r[:MaxQueryLength])
	}
	return q
}

// ValidQuery reports whether q holds only letters, digits and whitespace.
func ValidQuery(q string) bool {
	return validQuery.MatchString(q)
}

// Limit caps rows to max entries. Non-positive max returns rows unchanged.
func Limit(rows []stats.BoxStats, max int) []stats.BoxStats {
	if max <= 0 || len(rows) <= max {
		return rows
	}
	return rows[:max]
}
