package stats

import (
	"encoding/json"
	"math"
)

// LeagueMetrics is the fixed set of metrics whose league-wide range is
// tracked for normalization.
var LeagueMetrics = []string{
	"PTS", "FG%", "3P%", "REB", "AST", "STL", "TOV",
	"off_rtg", "def_rtg", "net_rtg", "ast_pct", "reb_pct",
	"tov_pct", "opp_pts", "efg_pct", "WIN %",
}

// LeagueStats holds per-metric minimum and maximum across all merged teams.
// A metric nobody reported keeps +Inf/-Inf and normalizes to the midpoint.
type LeagueStats struct {
	MinStats map[string]float64
	MaxStats map[string]float64
}

// CalculateLeagueStats scans every merged record, reading each metric from the
// full-season row first and the advanced stats second.
func CalculateLeagueStats(merged MergedData) LeagueStats {
	ls := LeagueStats{
		MinStats: make(map[string]float64, len(LeagueMetrics)),
		MaxStats: make(map[string]float64, len(LeagueMetrics)),
	}
	for _, m := range LeagueMetrics {
		ls.MinStats[m] = math.Inf(1)
		ls.MaxStats[m] = math.Inf(-1)
	}

	for _, team := range merged {
		for _, m := range LeagueMetrics {
			v, ok := team.FullSeason.Optional(m)
			if !ok {
				v, ok = team.Advanced.Optional(m)
			}
			if !ok {
				continue
			}
			if v < ls.MinStats[m] {
				ls.MinStats[m] = v
			}
			if v > ls.MaxStats[m] {
				ls.MaxStats[m] = v
			}
		}
	}
	return ls
}

// HasData reports whether at least one team reported the metric.
func (ls LeagueStats) HasData(metric string) bool {
	lo, okLo := ls.MinStats[metric]
	hi, okHi := ls.MaxStats[metric]
	return okLo && okHi && !math.IsInf(lo, 0) && !math.IsInf(hi, 0)
}

// Normalize rescales value into [0,100] against the league range, inverting
// for metrics where lower is better. Metrics without data or with a zero-width
// range map to 50.
func (ls LeagueStats) Normalize(metric string, value float64, invert bool) int {
	if !ls.HasData(metric) {
		return 50
	}
	return NormalizeRange(value, ls.MinStats[metric], ls.MaxStats[metric], invert)
}

// NormalizeRange is the shared 0–100 linear rescale.
func NormalizeRange(value, lo, hi float64, invert bool) int {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) || hi == lo {
		return 50
	}
	pct := (value - lo) / (hi - lo)
	pct = math.Max(0, math.Min(1, pct))
	if invert {
		pct = 1 - pct
	}
	return int(math.Floor(pct*100 + 0.5))
}

type leagueRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// MarshalJSON encodes unobserved metrics as null instead of failing on
// infinities.
func (ls LeagueStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]leagueRange, len(ls.MinStats))
	for m, lo := range ls.MinStats {
		r := leagueRange{}
		if !math.IsInf(lo, 0) {
			v := lo
			r.Min = &v
		}
		if hi, ok := ls.MaxStats[m]; ok && !math.IsInf(hi, 0) {
			v := hi
			r.Max = &v
		}
		out[m] = r
	}
	return json.Marshal(out)
}
