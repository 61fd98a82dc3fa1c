package table

import (
	"sort"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Chart kinds.
const (
	ChartQuarters = "quarters"
	ChartTrends   = "trends"
)

// Series is one bar-chart series.
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// QuarterChart is the per-quarter scoring breakdown.
type QuarterChart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// TrendPoint is one team on the win-percentage vs points scatter.
type TrendPoint struct {
	Team string  `json:"team"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// QuarterSeries builds one series per quarter column present in the first row.
// ok is false when the rows carry no quarter data.
func QuarterSeries(rows []stats.BoxStats) (QuarterChart, bool) {
	if len(rows) == 0 {
		return QuarterChart{}, false
	}

	var quarters []string
	for _, q := range []string{"Q1", "Q2", "Q3", "Q4"} {
		if _, ok := rows[0][q]; ok {
			quarters = append(quarters, q)
		}
	}
	if len(quarters) == 0 {
		return QuarterChart{}, false
	}

	chart := QuarterChart{Labels: teamLabels(rows)}
	for _, q := range quarters {
		s := Series{Label: q, Data: make([]float64, len(rows))}
		for i, row := range rows {
			s.Data[i] = stats.ParseNumeric(row[q], 0)
		}
		chart.Series = append(chart.Series, s)
	}
	return chart, true
}

// TrendPoints plots win percentage against points. Win percentages stored as
// fractions are scaled to 0..100.
func TrendPoints(rows []stats.BoxStats) []TrendPoint {
	if len(rows) == 0 {
		return nil
	}

	winKey := findKey(rows[0], "WIN %", func(k string) bool {
		return strings.Contains(k, "win") && strings.Contains(k, "%")
	})
	ptsKey := findKey(rows[0], "PTS", func(k string) bool {
		return k == "pts" || k == "points"
	})

	points := make([]TrendPoint, len(rows))
	maxWin := 0.0
	for i, row := range rows {
		points[i] = TrendPoint{
			Team: teamLabel(row),
			X:    stats.ParseNumeric(row[winKey], 0),
			Y:    stats.ParseNumeric(row[ptsKey], 0),
		}
		if i == 0 || points[i].X > maxWin {
			maxWin = points[i].X
		}
	}
	if maxWin > 0 && maxWin <= 1 {
		for i := range points {
			points[i].X *= 100
		}
	}
	return points
}

func findKey(row stats.BoxStats, fallback string, match func(lower string) bool) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if match(strings.ToLower(k)) {
			return k
		}
	}
	return fallback
}

func teamLabels(rows []stats.BoxStats) []string {
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = teamLabel(row)
	}
	return labels
}

func teamLabel(row stats.BoxStats) string {
	if name := row.TeamName(); name != "" {
		return name
	}
	return "Unknown"
}
