package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Stop is one color stop of the heat-map gradient. Offset runs 0..1.
type Stop struct {
	Offset float64 `json:"offset"`
	Color  [3]int  `json:"color"`
}

// DefaultStops runs from dark green through gold to red.
var DefaultStops = []Stop{
	{Offset: 0.0, Color: [3]int{26, 60, 52}},
	{Offset: 0.25, Color: [3]int{76, 175, 80}},
	{Offset: 0.5, Color: [3]int{255, 215, 0}},
	{Offset: 0.75, Color: [3]int{255, 107, 53}},
	{Offset: 1.0, Color: [3]int{255, 23, 68}},
}

// HeatColumns are the columns shaded by the heat map.
var HeatColumns = []string{"PTS", "Q1", "Q2", "Q3", "Q4"}

// HeatCell is the shading for one cell of a heat-mapped column.
type HeatCell struct {
	Team       string  `json:"team"`
	Value      float64 `json:"value"`
	Ratio      float64 `json:"ratio"`
	Rank       int     `json:"rank"`
	Of         int     `json:"of"`
	Percentile int     `json:"percentile"`
	Color      string  `json:"color"`
	TextColor  string  `json:"textColor"`
	Title      string  `json:"title"`
}

// IsHeatColumn reports whether column is shaded.
func IsHeatColumn(column string) bool {
	up := strings.ToUpper(column)
	for _, c := range HeatColumns {
		if c == up {
			return true
		}
	}
	return false
}

// Heat shades one column. Missing values count as zero. It returns nil when
// the column is flat (every value equal).
func Heat(rows []stats.BoxStats, column string, stops []Stop) []HeatCell {
	if len(rows) == 0 {
		return nil
	}

	values := make([]float64, len(rows))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, row := range rows {
		values[i] = stats.ParseNumeric(row[column], 0)
		lo = math.Min(lo, values[i])
		hi = math.Max(hi, values[i])
	}
	if hi == lo {
		return nil
	}

	cells := make([]HeatCell, len(rows))
	for i, row := range rows {
		v := values[i]
		ratio := (v - lo) / (hi - lo)

		rank := 1
		for _, other := range values {
			if other > v {
				rank++
			}
		}

		rgb := GradientColor(ratio, stops)
		team := row.TeamName()
		pct := int(math.Floor(ratio*100 + 0.5))
		cells[i] = HeatCell{
			Team:       team,
			Value:      v,
			Ratio:      ratio,
			Rank:       rank,
			Of:         len(values),
			Percentile: pct,
			Color:      cssRGB(rgb),
			TextColor:  contrastText(rgb),
			Title: fmt.Sprintf("%s · %s: %.1f\nRank: %d/%d · Percentile: %d%%",
				team, column, v, rank, len(values), pct),
		}
	}
	return cells
}

// GradientColor interpolates the stop colors at ratio, clamped to [0,1].
func GradientColor(ratio float64, stops []Stop) [3]int {
	if len(stops) == 0 {
		return [3]int{}
	}
	t := math.Max(0, math.Min(1, ratio))

	for i := 0; i < len(stops)-1; i++ {
		cur, next := stops[i], stops[i+1]
		if t < cur.Offset || t > next.Offset {
			continue
		}
		local := 0.0
		if span := next.Offset - cur.Offset; span > 0 {
			local = (t - cur.Offset) / span
		}
		var out [3]int
		for c := 0; c < 3; c++ {
			out[c] = int(math.Floor(float64(cur.Color[c]) + local*float64(next.Color[c]-cur.Color[c]) + 0.5))
		}
		return out
	}
	return stops[len(stops)-1].Color
}

func cssRGB(c [3]int) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2])
}

// contrastText picks dark text on bright backgrounds.
func contrastText(c [3]int) string {
	brightness := 0.299*float64(c[0]) + 0.587*float64(c[1]) + 0.114*float64(c[2])
	if brightness > 160 {
		return "#111"
	}
	return "#fff"
}
