package stats_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

func TestBuildMerged(t *testing.T) {
	fullSeason := []stats.BoxStats{
		{"TEAM NAME": "Aces ", "WIN %": "70%"},
		{"TEAM NAME": "Sky", "WIN %": "40%"},
	}
	lastFive := []stats.BoxStats{
		{"TEAM": "Aces", "WIN %": "80%"},
	}
	teams := []stats.TeamMeta{
		{Name: " Aces", Stats: stats.AdvancedStats{"off_rtg": 110.0}, Notes: &stats.Notes{Strengths: "Shooting."}},
		{Name: "Storm"},
		{Name: "   "},
	}

	merged := stats.BuildMerged(fullSeason, lastFive, teams)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged teams, got %d", len(merged))
	}

	aces, ok := merged.Lookup("Aces")
	if !ok {
		t.Fatal("expected Aces in merged data")
	}
	if got := aces.FullSeason.Value("WIN %", 0); got != 70 {
		t.Errorf("Aces season WIN %% = %v, want 70", got)
	}
	if got := aces.LastFive.Value("WIN %", 0); got != 80 {
		t.Errorf("Aces last-five WIN %% = %v, want 80", got)
	}
	if aces.Notes.Strengths != "Shooting." {
		t.Errorf("Aces notes = %q", aces.Notes.Strengths)
	}

	storm, ok := merged.Lookup("Storm")
	if !ok {
		t.Fatal("expected Storm (metadata only) in merged data")
	}
	if storm.FullSeason == nil || len(storm.FullSeason) != 0 {
		t.Errorf("Storm fullseason = %v, want empty map", storm.FullSeason)
	}
	if storm.LastFive == nil || len(storm.LastFive) != 0 {
		t.Errorf("Storm lastfive = %v, want empty map", storm.LastFive)
	}
	if storm.Notes != (stats.Notes{}) {
		t.Errorf("Storm notes = %+v, want empty", storm.Notes)
	}

	if _, ok := merged.Lookup("Sky"); ok {
		t.Error("Sky has no metadata and must be excluded")
	}
}

func TestCalculateLeagueStats(t *testing.T) {
	merged := stats.MergedData{
		"A": {
			FullSeason: stats.BoxStats{"PTS": "80", "FG%": "44%"},
			Advanced:   stats.AdvancedStats{"off_rtg": 101.5, "PTS": 999},
		},
		"B": {
			FullSeason: stats.BoxStats{"PTS": 90, "FG%": "-"},
			Advanced:   stats.AdvancedStats{"off_rtg": "109.0", "FG%": "41"},
		},
		"C": {
			FullSeason: stats.BoxStats{},
			Advanced:   stats.AdvancedStats{},
		},
	}

	ls := stats.CalculateLeagueStats(merged)

	tests := []struct {
		metric string
		min    float64
		max    float64
	}{
		{"PTS", 80, 90},
		{"FG%", 41, 44},
		{"off_rtg", 101.5, 109},
	}
	for _, tt := range tests {
		if ls.MinStats[tt.metric] != tt.min || ls.MaxStats[tt.metric] != tt.max {
			t.Errorf("%s range = [%v,%v], want [%v,%v]",
				tt.metric, ls.MinStats[tt.metric], ls.MaxStats[tt.metric], tt.min, tt.max)
		}
	}

	for _, m := range stats.LeagueMetrics {
		if ls.HasData(m) && ls.MinStats[m] > ls.MaxStats[m] {
			t.Errorf("%s: min %v > max %v", m, ls.MinStats[m], ls.MaxStats[m])
		}
	}

	if !math.IsInf(ls.MinStats["opp_pts"], 1) || !math.IsInf(ls.MaxStats["opp_pts"], -1) {
		t.Errorf("opp_pts sentinels = [%v,%v], want [+Inf,-Inf]", ls.MinStats["opp_pts"], ls.MaxStats["opp_pts"])
	}
}

func TestLeagueStats_Normalize(t *testing.T) {
	merged := stats.MergedData{
		"A": {FullSeason: stats.BoxStats{"PTS": 80, "TOV": 10}, Advanced: stats.AdvancedStats{"def_rtg": 100}},
		"B": {FullSeason: stats.BoxStats{"PTS": 90, "TOV": 20}, Advanced: stats.AdvancedStats{"def_rtg": 100}},
	}
	ls := stats.CalculateLeagueStats(merged)

	tests := []struct {
		name   string
		metric string
		value  float64
		invert bool
		want   int
	}{
		{"midpoint", "PTS", 85, false, 50},
		{"top", "PTS", 90, false, 100},
		{"clamped above", "PTS", 120, false, 100},
		{"clamped below", "PTS", 10, false, 0},
		{"inverted best", "TOV", 10, true, 100},
		{"no data", "opp_pts", 88, false, 50},
		{"zero width", "def_rtg", 100, false, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ls.Normalize(tt.metric, tt.value, tt.invert); got != tt.want {
				t.Errorf("Normalize(%s, %v) = %d, want %d", tt.metric, tt.value, got, tt.want)
			}
		})
	}
}

func TestLeagueStats_MarshalJSON(t *testing.T) {
	ls := stats.CalculateLeagueStats(stats.MergedData{
		"A": {FullSeason: stats.BoxStats{"PTS": 80}},
	})
	b, err := json.Marshal(ls)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(b)
	if !strings.Contains(body, `"PTS":{"min":80,"max":80}`) {
		t.Errorf("expected PTS range in %s", body)
	}
	if !strings.Contains(body, `"opp_pts":{"min":null,"max":null}`) {
		t.Errorf("expected null opp_pts range in %s", body)
	}
}
