// Package compare builds head-to-head comparisons between two teams: both
// rating profiles, quantified advantages, written insights, betting angles
// and a confidence classification.
//
// The engine is pure. Each call reads an immutable Snapshot and keeps no
// state between calls.
package compare

import (
	"github.com/albapepper/scoracle-matchup/internal/rating"
	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Confidence levels.
const (
	ConfidenceVeryHigh = "Very High"
	ConfidenceHigh     = "High"
	ConfidenceMedium   = "Medium"
	ConfidenceLow      = "Low"
)

// Snapshot is the fully loaded data a comparison reads from.
type Snapshot struct {
	Merged stats.MergedData
	League stats.LeagueStats
	Table  []stats.BoxStats
}

// Advantages holds per-side advantage notes.
type Advantages struct {
	TeamA []string `json:"teamA"`
	TeamB []string `json:"teamB"`
}

// ConfidenceLevel classifies how lopsided the matchup is.
type ConfidenceLevel struct {
	Level   string   `json:"level"`
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// Result is the comparison bundle consumed by the presentation layer.
type Result struct {
	Enhanced        bool               `json:"enhanced"`
	TeamA           rating.TeamProfile `json:"teamA"`
	TeamB           rating.TeamProfile `json:"teamB"`
	Advantages      Advantages         `json:"advantages"`
	Insights        []string           `json:"insights"`
	BettingInsights []string           `json:"bettingInsights"`
	ConfidenceLevel ConfidenceLevel    `json:"confidenceLevel"`
}

// Engine compares teams.
type Engine struct{}

// NewEngine creates a comparison engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compare picks the enhanced path when both teams have merged records and
// the basic path otherwise.
func (e *Engine) Compare(snap Snapshot, nameA, nameB string) Result {
	recA, okA := snap.Merged.Lookup(nameA)
	recB, okB := snap.Merged.Lookup(nameB)
	if okA && okB {
		return enhanced(recA, recB, nameA, nameB)
	}
	return basic(snap.Table, nameA, nameB)
}

// Profile rates a single team. ok is false when the team has no merged
// record.
func (e *Engine) Profile(snap Snapshot, name string) (rating.TeamProfile, bool) {
	rec, ok := snap.Merged.Lookup(name)
	if !ok {
		return rating.TeamProfile{}, false
	}
	return rating.BuildProfile(rec), true
}

// TableProfile rates a team from its table row alone, the way the basic
// comparison path does. ok is false when the table has no such team.
func (e *Engine) TableProfile(snap Snapshot, name string) (rating.TeamProfile, bool) {
	row, ok := stats.FindRow(snap.Table, name)
	if !ok {
		return rating.TeamProfile{}, false
	}
	return basicProfile(row), true
}

func enhanced(recA, recB stats.MergedRecord, nameA, nameB string) Result {
	profileA := rating.BuildProfile(recA)
	profileB := rating.BuildProfile(recB)

	return Result{
		Enhanced:        true,
		TeamA:           profileA,
		TeamB:           profileB,
		Advantages:      FindAdvantages(recA, recB),
		Insights:        Insights(recA, recB, nameA, nameB, profileA, profileB),
		BettingInsights: BettingInsights(recA, recB, nameA, nameB, profileA, profileB),
		ConfidenceLevel: Confidence(profileA.OverallRating, profileB.OverallRating),
	}
}

const enhancedRequired = "Enhanced analytics require full dataset"

func basic(table []stats.BoxStats, nameA, nameB string) Result {
	rowA, _ := stats.FindRow(table, nameA)
	rowB, _ := stats.FindRow(table, nameB)

	return Result{
		TeamA: basicProfile(rowA),
		TeamB: basicProfile(rowB),
		Advantages: Advantages{
			TeamA: []string{enhancedRequired},
			TeamB: []string{enhancedRequired},
		},
		Insights:        []string{"Limited data - upgrade for detailed insights"},
		BettingInsights: []string{"Betting analysis unavailable in basic mode"},
		ConfidenceLevel: ConfidenceLevel{Level: ConfidenceLow, Score: 0, Factors: []string{"Limited data"}},
	}
}

func basicProfile(row stats.BoxStats) rating.TeamProfile {
	return rating.TeamProfile{
		OverallRating: rating.Basic(row),
		Strengths:     []string{"Basic analysis"},
		Weaknesses:    []string{},
	}
}
