package rating

import (
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Style labels.
const (
	PaceFast     = "fast"
	PaceModerate = "moderate"
	PaceSlow     = "slow"

	OffenseElite    = "elite"
	OffenseGood     = "good"
	OffenseBalanced = "balanced"
	OffensePoor     = "poor"

	DefenseElite   = "elite"
	DefenseGood    = "good"
	DefenseAverage = "average"
	DefensePoor    = "poor"
)

const maxTraits = 3

// StyleProfile summarizes how a team plays.
type StyleProfile struct {
	Pace        string `json:"pace"`
	Offense     string `json:"offense"`
	Defense     string `json:"defense"`
	Versatility int    `json:"versatility"`
}

// TeamProfile is the rating bundle for one team. It is rebuilt from the
// merged record on every request and never cached.
type TeamProfile struct {
	OverallRating   int           `json:"overallRating"`
	OffensiveRating int           `json:"offensiveRating,omitempty"`
	DefensiveRating int           `json:"defensiveRating,omitempty"`
	RecentForm      string        `json:"recentForm,omitempty"`
	Strengths       []string      `json:"strengths"`
	Weaknesses      []string      `json:"weaknesses"`
	StyleProfile    *StyleProfile `json:"styleProfile,omitempty"`
}

// BuildProfile computes every rating for a merged record.
func BuildProfile(rec stats.MergedRecord) TeamProfile {
	style := Style(rec.Advanced)
	return TeamProfile{
		OverallRating:   Overall(rec),
		OffensiveRating: Offensive(rec.Advanced, rec.FullSeason),
		DefensiveRating: Defensive(rec.Advanced, rec.FullSeason),
		RecentForm:      strconv.FormatFloat(rec.LastFive.Value("WIN %", 0), 'f', -1, 64) + "%",
		Strengths:       Strengths(rec.Notes, rec.Advanced),
		Weaknesses:      Weaknesses(rec.Notes, rec.Advanced),
		StyleProfile:    &style,
	}
}

// Style labels pace, offense and defense and scores versatility. Each label
// set covers the whole real line.
func Style(adv stats.AdvancedStats) StyleProfile {
	astPct := adv.Value("ast_pct", defaultAstPct)
	offRtg := adv.Value("off_rtg", defaultOffRtg)
	defRtg := adv.Value("def_rtg", defaultDefRtg)
	efgPct := adv.Value("efg_pct", defaultEfgPct)
	rebPct := adv.Value("reb_pct", defaultRebPct)
	tovPct := adv.Value("tov_pct", defaultTovPct)

	versatility := (astPct-45)*0.5 +
		(rebPct-45)*0.8 +
		(20-tovPct)*1.2 +
		(efgPct-40)*0.6 + 50

	return StyleProfile{
		Pace:        PaceLabel(astPct),
		Offense:     OffenseLabel(offRtg, efgPct),
		Defense:     DefenseLabel(defRtg),
		Versatility: clampInt(round(versatility), MinVersatility, MaxVersatility),
	}
}

// PaceLabel classifies assist percentage.
func PaceLabel(astPct float64) string {
	switch {
	case astPct > 70:
		return PaceFast
	case astPct < 55:
		return PaceSlow
	default:
		return PaceModerate
	}
}

// OffenseLabel classifies offensive rating and effective field goal percentage.
func OffenseLabel(offRtg, efgPct float64) string {
	switch {
	case offRtg > 108 && efgPct > 50:
		return OffenseElite
	case offRtg > 105:
		return OffenseGood
	case offRtg < 98:
		return OffensePoor
	default:
		return OffenseBalanced
	}
}

// DefenseLabel classifies defensive rating (lower is better).
func DefenseLabel(defRtg float64) string {
	switch {
	case defRtg < 98:
		return DefenseElite
	case defRtg < 102:
		return DefenseGood
	case defRtg > 110:
		return DefensePoor
	default:
		return DefenseAverage
	}
}

// Strengths lists up to three strengths: the first two sentences of the
// scouting notes, then rule-based findings.
func Strengths(notes stats.Notes, adv stats.AdvancedStats) []string {
	out := sentences(notes.Strengths, 2)

	if adv.Value("off_rtg", defaultOffRtg) > 108 {
		out = append(out, "Elite offensive efficiency")
	}
	if adv.Value("def_rtg", defaultDefRtg) < 100 {
		out = append(out, "Lockdown defense")
	}
	if adv.Value("efg_pct", defaultEfgPct) > 52 {
		out = append(out, "High-quality shot creation")
	}
	if adv.Value("reb_pct", defaultRebPct) > 53 {
		out = append(out, "Rebounding dominance")
	}
	if adv.Value("ast_pct", defaultAstPct) > 72 {
		out = append(out, "Exceptional ball movement")
	}
	return capTraits(out)
}

// Weaknesses lists up to three weaknesses, notes first.
func Weaknesses(notes stats.Notes, adv stats.AdvancedStats) []string {
	out := sentences(notes.Weaknesses, 2)

	if adv.Value("off_rtg", defaultOffRtg) < 95 {
		out = append(out, "Offensive struggles")
	}
	if adv.Value("def_rtg", defaultDefRtg) > 112 {
		out = append(out, "Defensive lapses")
	}
	if adv.Value("tov_pct", defaultTovPct) > 18 {
		out = append(out, "Ball security issues")
	}
	if adv.Value("reb_pct", defaultRebPct) < 47 {
		out = append(out, "Rebounding disadvantage")
	}
	return capTraits(out)
}

func sentences(text string, limit int) []string {
	out := make([]string, 0, maxTraits)
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func capTraits(traits []string) []string {
	if len(traits) > maxTraits {
		return traits[:maxTraits]
	}
	return traits
}
