package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Edge sides.
const (
	EdgeTeamA = "teamA"
	EdgeTeamB = "teamB"
	EdgeEven  = "even"
)

// StatEdge is one row of the head-to-head stat grid.
type StatEdge struct {
	Label  string  `json:"label"`
	Metric string  `json:"metric"`
	TeamA  float64 `json:"teamA"`
	TeamB  float64 `json:"teamB"`
	Edge   string  `json:"edge"`
}

// Momentum compares a team's last five games with its season scoring.
type Momentum struct {
	Team      string  `json:"team"`
	RecentPPG float64 `json:"recentPpg"`
	SeasonPPG float64 `json:"seasonPpg"`
	Trend     float64 `json:"trend"`
	Summary   string  `json:"summary"`
}

// RadarAxis is one normalized spoke of the radar chart.
type RadarAxis struct {
	Metric string  `json:"metric"`
	Label  string  `json:"label"`
	TeamA  int     `json:"teamA"`
	TeamB  int     `json:"teamB"`
	RawA   float64 `json:"rawA"`
	RawB   float64 `json:"rawB"`
}

// Radar is the normalized radar chart for a matchup.
type Radar struct {
	Mode string      `json:"mode"`
	Axes []RadarAxis `json:"axes"`
}

// Matchup is the full comparison view: the engine result plus the stat grid,
// verdict, x-factors, momentum and radar.
type Matchup struct {
	TeamAName string     `json:"teamAName"`
	TeamBName string     `json:"teamBName"`
	Result    Result     `json:"analytics"`
	Edges     []StatEdge `json:"edges"`
	Verdict   string     `json:"verdict"`
	XFactors  []string   `json:"xFactors"`
	Momentum  []Momentum `json:"momentum,omitempty"`
	Radar     Radar      `json:"radar"`
}

// Matchup builds the full comparison view. Raw box rows come from the
// current table, as the stat grid shows whichever window is selected.
func (e *Engine) Matchup(snap Snapshot, nameA, nameB string) Matchup {
	rowA, _ := stats.FindRow(snap.Table, nameA)
	rowB, _ := stats.FindRow(snap.Table, nameB)

	m := Matchup{
		TeamAName: nameA,
		TeamBName: nameB,
		Result:    e.Compare(snap, nameA, nameB),
		Edges:     StatEdges(rowA, rowB),
		Verdict:   Verdict(nameA, nameB, rowA, rowB),
		XFactors:  XFactors(nameA, nameB, rowA, rowB),
	}

	recA, okA := snap.Merged.Lookup(nameA)
	recB, okB := snap.Merged.Lookup(nameB)
	if okA && okB {
		m.Momentum = []Momentum{TeamMomentum(nameA, recA), TeamMomentum(nameB, recB)}
		m.Radar = EnhancedRadar(recA, recB, snap.League)
	} else {
		m.Radar = BasicRadar(rowA, rowB, snap.Table)
	}
	return m
}

var statEdgeRows = []struct {
	label   string
	metric  string
	inverse bool
}{
	{"Shooting", "FG%", false},
	{"3-Pointers", "3P%", false},
	{"Turnovers", "TOV", true},
	{"Q4 Scoring", "Q4", false},
	{"Steals", "STL", false},
	{"Rebounds", "REB", false},
}

// StatEdges compares six box-score stats. Gaps under half a unit are even;
// turnovers favor the lower value.
func StatEdges(a, b stats.BoxStats) []StatEdge {
	edges := make([]StatEdge, 0, len(statEdgeRows))
	for _, row := range statEdgeRows {
		va := a.Value(row.metric, 0)
		vb := b.Value(row.metric, 0)
		diff := va - vb
		if row.inverse {
			diff = vb - va
		}

		edge := EdgeEven
		switch {
		case math.Abs(diff) < 0.5:
		case diff > 0:
			edge = EdgeTeamA
		default:
			edge = EdgeTeamB
		}
		edges = append(edges, StatEdge{Label: row.label, Metric: row.metric, TeamA: va, TeamB: vb, Edge: edge})
	}
	return edges
}

// Verdict summarizes ball security and fourth-quarter scoring.
func Verdict(nameA, nameB string, a, b stats.BoxStats) string {
	tovA, tovB := a.Value("TOV", 0), b.Value("TOV", 0)
	q4A, q4B := a.Value("Q4", 0), b.Value("Q4", 0)
	tovDiff := math.Abs(tovA - tovB)
	q4Diff := math.Abs(q4A - q4B)

	var parts []string
	if tovDiff > 1.0 {
		better := nameB
		if tovA < tovB {
			better = nameA
		}
		parts = append(parts, fmt.Sprintf("%s's ball security edge creates extra possessions.", better))
	}

	switch {
	case q4Diff > 1.5:
		stronger := nameB
		if q4A > q4B {
			stronger = nameA
		}
		parts = append(parts, fmt.Sprintf("%s's Q4 execution is a major advantage in close games.", stronger))
	case tovDiff < 1.0:
		parts = append(parts, "Teams are statistically balanced - execution decides the winner.")
	}

	return strings.Join(parts, " ")
}

// XFactors lists the game-deciding factors of a matchup. It always returns at
// least one entry.
func XFactors(nameA, nameB string, a, b stats.BoxStats) []string {
	var factors []string

	q4A, q4B := a.Value("Q4", 0), b.Value("Q4", 0)
	tovA, tovB := a.Value("TOV", 0), b.Value("TOV", 0)

	if math.Abs(q4A-q4B) > 1.5 {
		leader := nameB
		if q4A > q4B {
			leader = nameA
		}
		factors = append(factors, fmt.Sprintf("%s's 4th Quarter Dominance - proven closer in crunch time", leader))
	}
	if math.Abs(tovA-tovB) > 1.0 {
		better := nameB
		if tovA < tovB {
			better = nameA
		}
		factors = append(factors, fmt.Sprintf("%s's Ball Security - creates extra possessions", better))
	}
	if avgThree := (a.Value("3P%", 0) + b.Value("3P%", 0)) / 2; avgThree > 32 {
		factors = append(factors, "Three-Point Variance - hot shooting determines outcome")
	}
	if len(factors) == 0 {
		factors = append(factors, "Balanced Matchup - execution decides the winner")
	}
	return factors
}

// TeamMomentum compares last-five scoring with the season average.
func TeamMomentum(name string, rec stats.MergedRecord) Momentum {
	recent := rec.LastFive.Value("PTS", 0)
	season := rec.FullSeason.Value("PTS", 0)
	m := Momentum{Team: name, RecentPPG: recent, SeasonPPG: season, Trend: recent - season}

	if recent > 0 {
		sign := ""
		if m.Trend >= 0 {
			sign = "+"
		}
		m.Summary = fmt.Sprintf("Scoring: %.1f PPG (%s%.1f)", recent, sign, m.Trend)
	} else {
		m.Summary = "Limited data"
	}
	return m
}

var (
	basicRadarMetrics = []string{"PTS", "FG%", "3P%", "REB", "AST", "STL", "TOV"}
	basicRadarInvert  = map[string]bool{"TOV": true}

	enhancedRadarMetrics = []string{"off_rtg", "def_rtg", "net_rtg", "3P%", "reb_pct", "tov_pct", "ast_pct"}
	enhancedRadarLabels  = []string{"OFF RTG", "DEF RTG", "NET RTG", "3P%", "REB%", "TOV%", "AST%"}
	enhancedRadarInvert  = map[string]bool{"def_rtg": true, "tov_pct": true}
)

// BasicRadar normalizes seven box-score stats against the current table.
func BasicRadar(a, b stats.BoxStats, table []stats.BoxStats) Radar {
	radar := Radar{Mode: "basic", Axes: make([]RadarAxis, 0, len(basicRadarMetrics))}
	for _, m := range basicRadarMetrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range table {
			v := row.Value(m, 0)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}

		va, vb := a.Value(m, 0), b.Value(m, 0)
		radar.Axes = append(radar.Axes, RadarAxis{
			Metric: m,
			Label:  strings.ToUpper(strings.ReplaceAll(m, "%", " %")),
			TeamA:  stats.NormalizeRange(va, lo, hi, basicRadarInvert[m]),
			TeamB:  stats.NormalizeRange(vb, lo, hi, basicRadarInvert[m]),
			RawA:   va,
			RawB:   vb,
		})
	}
	return radar
}

// EnhancedRadar normalizes advanced metrics against league-wide ranges.
func EnhancedRadar(a, b stats.MergedRecord, league stats.LeagueStats) Radar {
	radar := Radar{Mode: "enhanced", Axes: make([]RadarAxis, 0, len(enhancedRadarMetrics))}
	for i, m := range enhancedRadarMetrics {
		va, vb := mergedValue(a, m), mergedValue(b, m)
		radar.Axes = append(radar.Axes, RadarAxis{
			Metric: m,
			Label:  enhancedRadarLabels[i],
			TeamA:  league.Normalize(m, va, enhancedRadarInvert[m]),
			TeamB:  league.Normalize(m, vb, enhancedRadarInvert[m]),
			RawA:   va,
			RawB:   vb,
		})
	}
	return radar
}

// mergedValue reads a metric from the full-season row, falling back to the
// advanced stats.
func mergedValue(rec stats.MergedRecord, metric string) float64 {
	if raw, ok := rec.FullSeason.Raw(metric); ok {
		return stats.ParseNumeric(raw, 0)
	}
	return rec.Advanced.Value(metric, 0)
}
