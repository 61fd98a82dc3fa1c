package table_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/stats"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

func sampleRows() []stats.BoxStats {
	return []stats.BoxStats{
		{"RANK": 2, "TEAM NAME": "Storm", "PTS": 80, "FG%": "44.1%", "Q1": 20, "WIN %": "55%"},
		{"RANK": 1, "TEAM NAME": "Aces", "PTS": 90, "FG%": "47.5%", "Q1": 24, "WIN %": "75%"},
		{"RANK": 3, "TEAM NAME": "Sky", "PTS": 70, "FG%": "41%", "Q1": 18, "WIN %": "30%"},
	}
}

func TestHeaders(t *testing.T) {
	got := table.Headers([]stats.BoxStats{{"custom_metric": 1, "PTS": 80, "TEAM NAME": "Aces", "RANK": 1}})
	want := []table.Header{
		{Key: "RANK", Label: "RANK"},
		{Key: "TEAM NAME", Label: "TEAM"},
		{Key: "PTS", Label: "TOTAL POINTS"},
		{Key: "custom_metric", Label: "CUSTOM METRIC"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Headers = %+v, want %+v", got, want)
	}
	if table.Headers(nil) != nil {
		t.Error("Headers(nil) should be nil")
	}
}

func TestFilter(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"aces", 1},
		{"S", 3}, // Storm, Aces, Sky
		{"47.5", 1},
		{"nobody", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := table.Filter(rows, tt.query); len(got) != tt.want {
				t.Errorf("Filter(%q) returned %d rows, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	rows := sampleRows()

	names := func(rs []stats.BoxStats) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.TeamName()
		}
		return out
	}

	tests := []struct {
		name string
		cfg  table.SortConfig
		want []string
	}{
		{"points asc", table.SortConfig{Column: "PTS", Direction: table.Asc}, []string{"Sky", "Storm", "Aces"}},
		{"points desc", table.SortConfig{Column: "PTS", Direction: table.Desc}, []string{"Aces", "Storm", "Sky"}},
		{"percent strings", table.SortConfig{Column: "FG%", Direction: table.Asc}, []string{"Sky", "Storm", "Aces"}},
		{"team names", table.SortConfig{Column: "TEAM NAME", Direction: table.Asc}, []string{"Aces", "Sky", "Storm"}},
		{"no column", table.SortConfig{}, []string{"Storm", "Aces", "Sky"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(table.Sort(rows, tt.cfg)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort = %v, want %v", got, tt.want)
			}
		})
	}

	if rows[0].TeamName() != "Storm" {
		t.Error("Sort must not reorder its input")
	}
}

func TestSortConfig_Toggle(t *testing.T) {
	var none *table.SortConfig
	if got := none.Toggle("PTS"); got.Direction != table.Asc {
		t.Errorf("first click = %+v", got)
	}
	asc := &table.SortConfig{Column: "PTS", Direction: table.Asc}
	if got := asc.Toggle("PTS"); got.Direction != table.Desc {
		t.Errorf("second click = %+v", got)
	}
	if got := asc.Toggle("REB"); got.Column != "REB" || got.Direction != table.Asc {
		t.Errorf("new column = %+v", got)
	}
}

func TestLeagueAverage(t *testing.T) {
	rows := sampleRows()
	rows[2]["PTS"] = "-"

	avg := table.LeagueAverage(rows, table.Headers(rows))

	want := map[string]string{
		"RANK":      "",
		"TEAM NAME": "League Average",
		"PTS":       "56.7", // (80+90)/3 rows
		"FG%":       "44.2",
		"Q1":        "20.7",
		"WIN %":     "53.3",
	}
	if !reflect.DeepEqual(avg, want) {
		t.Errorf("LeagueAverage = %v, want %v", avg, want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"", ""},
		{"45.3%", "45.3%"},
		{80.0, "80"},
		{80, "80"},
		{"81.26", "81.3"},
		{33.333, "33.3"},
		{"N/A", "N/A"},
	}
	for _, tt := range tests {
		if got := table.FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQueryValidation(t *testing.T) {
	if got := table.SanitizeQuery("  aces  "); got != "aces" {
		t.Errorf("SanitizeQuery = %q", got)
	}
	if got := table.SanitizeQuery(strings.Repeat("a", 150)); len(got) != table.MaxQueryLength {
		t.Errorf("SanitizeQuery length = %d", len(got))
	}

	for q, want := range map[string]bool{
		"":           true,
		"Las Vegas":  true,
		"team 42":    true,
		"<script>":   false,
		"aces; drop": false,
	} {
		if got := table.ValidQuery(q); got != want {
			t.Errorf("ValidQuery(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestHeat(t *testing.T) {
	cells := table.Heat(sampleRows(), "PTS", table.DefaultStops)
	if len(cells) != 3 {
		t.Fatalf("got %d cells", len(cells))
	}

	want := []struct {
		team       string
		rank       int
		percentile int
		color      string
	}{
		{"Storm", 2, 50, "rgb(255, 215, 0)"},
		{"Aces", 1, 100, "rgb(255, 23, 68)"},
		{"Sky", 3, 0, "rgb(26, 60, 52)"},
	}
	for i, w := range want {
		c := cells[i]
		if c.Team != w.team || c.Rank != w.rank || c.Percentile != w.percentile || c.Color != w.color {
			t.Errorf("cell %d = %+v, want %+v", i, c, w)
		}
		if c.Of != 3 {
			t.Errorf("cell %d Of = %d", i, c.Of)
		}
	}
	if cells[0].TextColor != "#111" || cells[2].TextColor != "#fff" {
		t.Errorf("text colors = %q/%q", cells[0].TextColor, cells[2].TextColor)
	}

	flat := []stats.BoxStats{{"PTS": 80}, {"PTS": 80}}
	if got := table.Heat(flat, "PTS", table.DefaultStops); got != nil {
		t.Errorf("flat column should not be shaded, got %v", got)
	}
}

func TestGradientColor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  [3]int
	}{
		{-1, [3]int{26, 60, 52}},
		{0, [3]int{26, 60, 52}},
		{0.125, [3]int{51, 118, 66}},
		{0.5, [3]int{255, 215, 0}},
		{2, [3]int{255, 23, 68}},
	}
	for _, tt := range tests {
		if got := table.GradientColor(tt.ratio, table.DefaultStops); got != tt.want {
			t.Errorf("GradientColor(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func TestIsHeatColumn(t *testing.T) {
	if !table.IsHeatColumn("q4") || !table.IsHeatColumn("PTS") || table.IsHeatColumn("REB") {
		t.Error("unexpected heat column classification")
	}
}

func TestQuarterSeries(t *testing.T) {
	chart, ok := table.QuarterSeries(sampleRows())
	if !ok {
		t.Fatal("expected quarter data")
	}
	if len(chart.Series) != 1 || chart.Series[0].Label != "Q1" {
		t.Fatalf("series = %+v", chart.Series)
	}
	if !reflect.DeepEqual(chart.Series[0].Data, []float64{20, 24, 18}) {
		t.Errorf("Q1 data = %v", chart.Series[0].Data)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"Storm", "Aces", "Sky"}) {
		t.Errorf("labels = %v", chart.Labels)
	}

	if _, ok := table.QuarterSeries([]stats.BoxStats{{"PTS": 1}}); ok {
		t.Error("rows without quarters should report no data")
	}
}

func TestTrendPoints(t *testing.T) {
	points := table.TrendPoints(sampleRows())
	if len(points) != 3 || points[1].Team != "Aces" || points[1].X != 75 || points[1].Y != 90 {
		t.Errorf("points = %+v", points)
	}

	fractional := []stats.BoxStats{
		{"TEAM": "Aces", "WIN %": 0.75, "PTS": 90},
		{"TEAM": "Sky", "WIN %": 0.25, "PTS": 70},
	}
	points = table.TrendPoints(fractional)
	if points[0].X != 75 || points[1].X != 25 {
		t.Errorf("fractional win pct not scaled: %+v", points)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []stats.BoxStats{
		{"TEAM NAME": "Aces, LV", "PTS": 80},
		{"TEAM NAME": "Sky", "PTS": 71.5},
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, rows, "fullseason.json", now); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "TEAM NAME,PTS\n" +
		"\"Aces, LV\",80\n" +
		"Sky,71.5\n" +
		"\n# Export Date: 2024-05-01T12:00:00.000Z\n" +
		"# Dataset: fullseason.json\n" +
		"# Records: 2"
	if got := buf.String(); got != want {
		t.Errorf("csv =\n%s\nwant\n%s", got, want)
	}
}
