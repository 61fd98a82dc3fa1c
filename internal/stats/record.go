// Package stats holds the dataset record types, the numeric coercion used for
// every stat read, the merged per-team view and league-wide min/max ranges.
package stats

import (
	"strings"
)

// BoxStats is one team row from a box-score dataset (full season or last
// five games). Values are whatever the JSON document carried: numbers,
// numeric or percentage strings, or nothing at all.
type BoxStats map[string]any

// Raw returns the value for a metric, trying the exact key first and then
// every known alias of the column. ok is false when no column is present.
func (b BoxStats) Raw(metric string) (any, bool) {
	if b == nil {
		return nil, false
	}
	if v, ok := b[metric]; ok && v != nil {
		return v, true
	}
	for _, alias := range Aliases(metric) {
		if v, ok := b[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Value reads a metric through ParseNumeric.
func (b BoxStats) Value(metric string, def float64) float64 {
	v, _ := b.Raw(metric)
	return ParseNumeric(v, def)
}

// Optional reads a metric through ParseOptional.
func (b BoxStats) Optional(metric string) (float64, bool) {
	v, ok := b.Raw(metric)
	if !ok {
		return 0, false
	}
	return ParseOptional(v)
}

// TeamName returns the trimmed "TEAM NAME" column, falling back to "TEAM".
func (b BoxStats) TeamName() string {
	for _, key := range []string{"TEAM NAME", "TEAM"} {
		if v, ok := b[key]; ok && v != nil {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// AdvancedStats carries the efficiency metrics from team metadata: off_rtg,
// def_rtg, net_rtg, efg_pct, ast_pct, tov_pct, reb_pct, opp_pts and STL.
type AdvancedStats map[string]any

// Value reads an advanced metric through ParseNumeric.
func (a AdvancedStats) Value(metric string, def float64) float64 {
	if a == nil {
		return def
	}
	return ParseNumeric(a[metric], def)
}

// Optional reads an advanced metric through ParseOptional.
func (a AdvancedStats) Optional(metric string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	return ParseOptional(a[metric])
}

// Notes are free-text, period-delimited scouting sentences.
type Notes struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
}

// TeamMeta is one entry of the team metadata document.
type TeamMeta struct {
	Name  string        `json:"name"`
	Stats AdvancedStats `json:"stats"`
	Notes *Notes        `json:"notes"`
}

// MergedRecord is the per-team union of advanced stats, notes and both
// box-score windows.
type MergedRecord struct {
	Advanced   AdvancedStats `json:"advanced"`
	Notes      Notes         `json:"notes"`
	FullSeason BoxStats      `json:"fullseason"`
	LastFive   BoxStats      `json:"lastfive"`
}

// MergedData maps trimmed team name to its merged record.
type MergedData map[string]MergedRecord

// Lookup resolves a team by exact name.
func (m MergedData) Lookup(name string) (MergedRecord, bool) {
	if m == nil {
		return MergedRecord{}, false
	}
	rec, ok := m[name]
	return rec, ok
}

// Names returns the team names in the merged view, unsorted.
func (m MergedData) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// FindRow returns the first row whose team name equals name.
func FindRow(rows []BoxStats, name string) (BoxStats, bool) {
	for _, row := range rows {
		if row.TeamName() == name {
			return row, true
		}
	}
	return nil, false
}
