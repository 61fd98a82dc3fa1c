package stats_test

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value any
		def   float64
		want  float64
	}{
		{name: "nil uses default", value: nil, def: 7, want: 7},
		{name: "float", value: 41.5, def: 0, want: 41.5},
		{name: "int", value: 12, def: 0, want: 12},
		{name: "numeric string", value: "88.2", def: 0, want: 88.2},
		{name: "percent string", value: "37.5%", def: 0, want: 37.5},
		{name: "padded percent", value: "  45.3 % ", def: 0, want: 45.3},
		{name: "dash placeholder", value: "-", def: 3, want: 3},
		{name: "garbage", value: "abc", def: 5, want: 5},
		{name: "empty string", value: "", def: 9, want: 9},
		{name: "leading number", value: "12.5 ppg", def: 0, want: 12.5},
		{name: "negative", value: "-4.2", def: 0, want: -4.2},
		{name: "json number", value: json.Number("101.3"), def: 0, want: 101.3},
		{name: "infinity rejected", value: "Infinity", def: 2, want: 2},
		{name: "NaN float rejected", value: math.NaN(), def: 1, want: 1},
		{name: "bool rejected", value: true, def: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.ParseNumeric(tt.value, tt.def)
			if got != tt.want {
				t.Errorf("ParseNumeric(%v, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseNumeric_RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.1, 45.3, 1e-9, 123456.789, -0.5, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, x := range values {
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if got := stats.ParseNumeric(s, 0); got != x {
			t.Errorf("ParseNumeric(%q) = %v, want %v", s, got, x)
		}
	}
}

func TestParseOptional(t *testing.T) {
	if _, ok := stats.ParseOptional(nil); ok {
		t.Error("expected nil to be absent")
	}
	if _, ok := stats.ParseOptional("n/a"); ok {
		t.Error("expected n/a to be absent")
	}
	v, ok := stats.ParseOptional("0")
	if !ok || v != 0 {
		t.Errorf("ParseOptional(\"0\") = %v, %v; want 0, true", v, ok)
	}
}

func TestBoxStats_Aliases(t *testing.T) {
	row := stats.BoxStats{
		"TEAM NAME":    " Aces ",
		"FG %":         "46.1%",
		"TOTAL POINTS": 88,
		"REBOUNDS":     "35.5",
		"Q4 POINTS":    21.0,
	}

	if got := row.TeamName(); got != "Aces" {
		t.Errorf("TeamName() = %q, want Aces", got)
	}
	checks := map[string]float64{
		"FG%": 46.1,
		"PTS": 88,
		"REB": 35.5,
		"Q4":  21,
	}
	for metric, want := range checks {
		if got := row.Value(metric, -1); got != want {
			t.Errorf("Value(%q) = %v, want %v", metric, got, want)
		}
	}
	if got := row.Value("AST", -1); got != -1 {
		t.Errorf("missing AST = %v, want default -1", got)
	}
}

func TestBoxStats_TeamNameFallback(t *testing.T) {
	row := stats.BoxStats{"TEAM": "Lynx"}
	if got := row.TeamName(); got != "Lynx" {
		t.Errorf("TeamName() = %q, want Lynx", got)
	}
	if got := (stats.BoxStats{}).TeamName(); got != "" {
		t.Errorf("empty row TeamName() = %q, want empty", got)
	}
}

func TestColumnLabel(t *testing.T) {
	tests := map[string]string{
		"TEAM NAME":  "TEAM",
		"pts":        "TOTAL POINTS",
		"fg_pct":     "FG %",
		"plus_minus": "PLUS MINUS",
	}
	for in, want := range tests {
		if got := stats.ColumnLabel(in); got != want {
			t.Errorf("ColumnLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
