package compare

import (
	"fmt"
	"math"

	"github.com/albapepper/scoracle-matchup/internal/rating"
	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Advantage thresholds.
const (
	efficiencyEdge = 4.0
	fgEdge         = 2.5
	threePtEdge    = 3.0
	reboundEdge    = 2.0
)

// FindAdvantages compares each offense against the opposing defense and the
// shooting and rebounding numbers. Each metric yields at most one note per
// side, attached to the side with the edge.
func FindAdvantages(a, b stats.MergedRecord) Advantages {
	adv := Advantages{TeamA: []string{}, TeamB: []string{}}

	aOff := a.Advanced.Value("off_rtg", 100)
	aDef := a.Advanced.Value("def_rtg", 105)
	bOff := b.Advanced.Value("off_rtg", 100)
	bDef := b.Advanced.Value("def_rtg", 105)

	if aOff-bDef > efficiencyEdge {
		adv.TeamA = append(adv.TeamA, fmt.Sprintf("Offensive efficiency edge (%.1f vs %.1f)", aOff, bDef))
	}
	if bOff-aDef > efficiencyEdge {
		adv.TeamB = append(adv.TeamB, fmt.Sprintf("Offensive efficiency edge (%.1f vs %.1f)", bOff, aDef))
	}

	edges := []struct {
		metric    string
		threshold float64
		format    string
	}{
		{"FG%", fgEdge, "Field goal efficiency (%.1f%% vs %.1f%%)"},
		{"3P%", threePtEdge, "Three-point shooting (%.1f%% vs %.1f%%)"},
		{"REB", reboundEdge, "Rebounding advantage (%.1f vs %.1f)"},
	}
	for _, e := range edges {
		va := a.FullSeason.Value(e.metric, 0)
		vb := b.FullSeason.Value(e.metric, 0)
		switch {
		case va-vb > e.threshold:
			adv.TeamA = append(adv.TeamA, fmt.Sprintf(e.format, va, vb))
		case vb-va > e.threshold:
			adv.TeamB = append(adv.TeamB, fmt.Sprintf(e.format, vb, va))
		}
	}
	return adv
}

// Insights classifies the rating gap and calls out a large net-rating gap.
func Insights(a, b stats.MergedRecord, nameA, nameB string, pa, pb rating.TeamProfile) []string {
	var insights []string

	diff := absInt(pa.OverallRating - pb.OverallRating)
	stronger := nameB
	if pa.OverallRating > pb.OverallRating {
		stronger = nameA
	}

	switch {
	case diff > 8:
		insights = append(insights, fmt.Sprintf("%s holds a decisive advantage (%d point rating gap).", stronger, diff))
	case diff > 4:
		insights = append(insights, fmt.Sprintf("%s has a slight edge in this competitive matchup.", stronger))
	default:
		insights = append(insights, EvenlyMatched)
	}

	aNet := a.Advanced.Value("net_rtg", 0)
	bNet := b.Advanced.Value("net_rtg", 0)
	if math.Abs(aNet-bNet) > 6 {
		better := nameB
		if aNet > bNet {
			better = nameA
		}
		insights = append(insights, fmt.Sprintf("%s shows superior net rating (%.1f vs %.1f).",
			better, math.Max(aNet, bNet), math.Min(aNet, bNet)))
	}
	return insights
}

// EvenlyMatched is the insight for rating gaps of 4 or less.
const EvenlyMatched = "Teams are evenly matched - expect a tight contest decided by execution."

// BettingInsights produces a spread note from the rating gap and a totals
// note from the averaged efficiency ratings.
func BettingInsights(a, b stats.MergedRecord, nameA, nameB string, pa, pb rating.TeamProfile) []string {
	var insights []string

	diff := pa.OverallRating - pb.OverallRating
	favorite, dog := nameA, nameB
	if diff <= 0 {
		favorite, dog = nameB, nameA
	}

	switch gap := absInt(diff); {
	case gap > 12:
		insights = append(insights, fmt.Sprintf("Spread: %s favored by 4-7 points. Value may exist on %s if line inflated.", favorite, dog))
	case gap > 6:
		insights = append(insights, fmt.Sprintf("Spread: %s slight favorite (2-4 point range). Competitive game expected.", favorite))
	default:
		insights = append(insights, "Spread: Pick'em game - bet situational factors over power ratings.")
	}

	avgDef := (a.Advanced.Value("def_rtg", 105) + b.Advanced.Value("def_rtg", 105)) / 2
	avgOff := (a.Advanced.Value("off_rtg", 100) + b.Advanced.Value("off_rtg", 100)) / 2

	switch {
	case avgDef < 98 && avgOff < 105:
		insights = append(insights, "Total: LEAN UNDER - Both teams feature strong defensive systems.")
	case avgDef > 108 && avgOff > 108:
		insights = append(insights, "Total: LEAN OVER - Offensive-minded teams with defensive vulnerabilities.")
	default:
		insights = append(insights, "Total: Standard range expected - look for derivative markets.")
	}
	return insights
}

// Confidence classifies the absolute rating differential.
func Confidence(ratingA, ratingB int) ConfidenceLevel {
	score := absInt(ratingA - ratingB)
	return ConfidenceLevel{
		Level: ConfidenceFor(score),
		Score: score,
		Factors: []string{
			fmt.Sprintf("Rating differential: %.1f", float64(score)),
			"Style matchup analyzed",
			"Recent form considered",
		},
	}
}

// ConfidenceFor maps a differential to its level: above 18 Very High, above 12
// High, below 5 Low, Medium otherwise.
func ConfidenceFor(score int) string {
	switch {
	case score > 18:
		return ConfidenceVeryHigh
	case score > 12:
		return ConfidenceHigh
	case score < 5:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
