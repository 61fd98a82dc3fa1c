// Package rating turns a team's merged record into the power rating, the
// offensive and defensive sub-ratings, a style profile and scouting notes.
//
// Every input is optional. A missing metric resolves to the baseline constant
// of the formula that reads it, so the functions here never fail.
package rating

import (
	"math"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Baselines used when a metric is missing.
const (
	defaultNetRtg = 0
	defaultWinPct = 50
	defaultRank   = 7
	defaultOffRtg = 100
	defaultDefRtg = 105
	defaultEfgPct = 45
	defaultAstPct = 60
	defaultTovPct = 15
	defaultRebPct = 50
	defaultFgPct  = 42
	defaultOppPts = 85
	defaultSteals = 6
)

// Published bounds of each score.
const (
	MinOverall     = 60
	MaxOverall     = 95
	MinSubRating   = 30
	MaxSubRating   = 90
	MinVersatility = 25
	MaxVersatility = 85
)

var quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// Overall computes the 60–95 power rating. The weighted sum can exceed the
// band; it saturates at the bounds rather than being rescaled.
func Overall(rec stats.MergedRecord) int {
	adv, fs, lf := rec.Advanced, rec.FullSeason, rec.LastFive

	netRtg := adv.Value("net_rtg", defaultNetRtg)
	winPct := fs.Value("WIN %", defaultWinPct)
	rank := fs.Value("RANK", defaultRank)
	offRtg := adv.Value("off_rtg", defaultOffRtg)
	defRtg := adv.Value("def_rtg", defaultDefRtg)
	efgPct := adv.Value("efg_pct", defaultEfgPct)

	recentWin := lf.Value("WIN %", winPct)
	momentum := (recentWin - winPct) * 0.15

	netScore := 75 + netRtg*1.33
	winScore := 50 + winPct*0.5
	rankScore := 98 - rank*3
	offScore := 20 + offRtg*0.75
	defScore := 170 - defRtg*0.75
	efgScore := 25 + efgPct*1.33

	overall := netScore*0.30 +
		winScore*0.25 +
		rankScore*0.15 +
		offScore*0.12 +
		defScore*0.12 +
		efgScore*0.06 +
		momentum +
		ConsistencyBonus(fs)

	return clampInt(round(overall), MinOverall, MaxOverall)
}

// ConsistencyBonus rewards even scoring across quarters: 3 minus half the
// population standard deviation of Q1–Q4, clamped to [-2,3]. Missing quarters
// count as zero, so a row without quarter data earns the full bonus.
func ConsistencyBonus(fs stats.BoxStats) float64 {
	var values [4]float64
	var sum float64
	for i, q := range quarters {
		values[i] = fs.Value(q, 0)
		sum += values[i]
	}
	mean := sum / 4

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= 4

	return math.Max(-2, math.Min(3, 3-math.Sqrt(variance)*0.5))
}

// Offensive computes the 30–90 offensive sub-rating.
func Offensive(adv stats.AdvancedStats, fs stats.BoxStats) int {
	offRtg := adv.Value("off_rtg", defaultOffRtg)
	efgPct := adv.Value("efg_pct", defaultEfgPct)
	astPct := adv.Value("ast_pct", defaultAstPct)
	tovPct := adv.Value("tov_pct", defaultTovPct)
	fgPct := fs.Value("FG%", defaultFgPct)

	r := 50 +
		(offRtg-90)*0.8 +
		(efgPct-40)*1.2 +
		(astPct-50)*0.6 +
		(18-tovPct)*1.0 +
		(fgPct-38)*0.8

	return clampInt(round(r), MinSubRating, MaxSubRating)
}

// Defensive computes the 30–90 defensive sub-rating.
func Defensive(adv stats.AdvancedStats, fs stats.BoxStats) int {
	defRtg := adv.Value("def_rtg", defaultDefRtg)
	oppPts := adv.Value("opp_pts", defaultOppPts)
	stl := fs.Value("STL", defaultSteals)

	r := 50 +
		(115-defRtg)*0.9 +
		(90-oppPts)*0.7 +
		(stl-5)*2.0

	return clampInt(round(r), MinSubRating, MaxSubRating)
}

// Basic is the fallback rating computed from a raw box-score row when a team
// has no merged record. It is not clamped.
func Basic(row stats.BoxStats) int {
	pts := row.Value("PTS", 0)
	fg := row.Value("FG%", 0)
	threePt := row.Value("3P%", 0)
	reb := row.Value("REB", 0)
	ast := row.Value("AST", 0)
	stl := row.Value("STL", 0)
	tov := row.Value("TOV", 0)
	wins := row.Value("WIN %", 0)

	offRating := pts*0.3 + fg*0.4 + threePt*0.2 + ast*0.1
	defRating := stl*0.4 + reb*0.3 + (20-tov)*0.3
	winBonus := wins * 0.2

	return round((offRating+defRating)/2 + winBonus)
}

// round is half-up rounding, matching the dashboard's integer display.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
