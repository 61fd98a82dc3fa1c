package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// decodeList accepts a bare array, an object wrapping an array under "data",
// or a plain object whose values are the items (in key order). Anything else
// yields no items.
func decodeList(raw []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			return data, nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]any, 0, len(keys))
		for _, k := range keys {
			items = append(items, v[k])
		}
		return items, nil
	default:
		return nil, nil
	}
}

// DecodeRows decodes a box-score document. Items that are not JSON objects
// are skipped.
func DecodeRows(raw []byte) ([]stats.BoxStats, error) {
	items, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	rows := make([]stats.BoxStats, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, stats.BoxStats(obj))
		}
	}
	return rows, nil
}

// DecodeTeams decodes the team metadata document. Entries without a name are
// kept here and dropped by stats.BuildMerged.
func DecodeTeams(raw []byte) ([]stats.TeamMeta, error) {
	items, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	teams := make([]stats.TeamMeta, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		team := stats.TeamMeta{Name: strings.TrimSpace(stats.String(obj["name"]))}
		if adv, ok := obj["stats"].(map[string]any); ok {
			team.Stats = stats.AdvancedStats(adv)
		}
		if notes, ok := obj["notes"].(map[string]any); ok {
			team.Notes = &stats.Notes{
				Strengths:  stats.String(notes["strengths"]),
				Weaknesses: stats.String(notes["weaknesses"]),
			}
		}
		teams = append(teams, team)
	}
	return teams, nil
}
