package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// columnMappings maps every raw column spelling seen in the datasets to its
// display label.
var columnMappings = map[string]string{
	"RANK":         "RANK",
	"TEAM NAME":    "TEAM",
	"TEAM":         "TEAM",
	"GAMES":        "GAMES",
	"WIN":          "WINS",
	"WINS":         "WINS",
	"W":            "WINS",
	"LOSS":         "LOSSES",
	"LOSSES":       "LOSSES",
	"L":            "LOSSES",
	"WIN %":        "WIN %",
	"WIN_PCT":      "WIN %",
	"FG%":          "FG %",
	"FG_PCT":       "FG %",
	"3P%":          "3P %",
	"3PT%":         "3P %",
	"FT%":          "FT %",
	"FT_PCT":       "FT %",
	"REBOUNDS":     "REBOUNDS",
	"REB":          "REBOUNDS",
	"ASSISTS":      "ASSISTS",
	"AST":          "ASSISTS",
	"TOV":          "TURNOVERS",
	"STEALS":       "STEALS",
	"STL":          "STEALS",
	"BLOCKS":       "BLOCKS",
	"BLK":          "BLOCKS",
	"TOTAL POINTS": "TOTAL POINTS",
	"PTS":          "TOTAL POINTS",
	"POINTS":       "TOTAL POINTS",
	"Q1 POINTS":    "Q1 POINTS",
	"Q1":           "Q1 POINTS",
	"Q2 POINTS":    "Q2 POINTS",
	"Q2":           "Q2 POINTS",
	"Q3 POINTS":    "Q3 POINTS",
	"Q3":           "Q3 POINTS",
	"Q4 POINTS":    "Q4 POINTS",
	"Q4":           "Q4 POINTS",
}

// aliasGroups is built once from columnMappings plus the spaced spellings
// of the canonical labels ("FG %" and "FG%" refer to the same column).
var aliasGroups = buildAliasGroups()

func buildAliasGroups() map[string][]string {
	byLabel := make(map[string][]string)
	for raw, label := range columnMappings {
		byLabel[label] = append(byLabel[label], raw)
	}
	extra := map[string][]string{
		"FG %":      {"FG %"},
		"3P %":      {"3P %"},
		"FT %":      {"FT %"},
		"TURNOVERS": {"TURNOVERS"},
	}
	for label, keys := range extra {
		byLabel[label] = append(byLabel[label], keys...)
	}

	groups := make(map[string][]string)
	for label, keys := range byLabel {
		sort.Strings(keys)
		// TEAM NAME/TEAM are looked up explicitly by TeamName.
		if label == "TEAM" {
			continue
		}
		for _, k := range keys {
			for _, other := range keys {
				if other != k {
					groups[k] = append(groups[k], other)
				}
			}
		}
	}
	return groups
}

// Aliases returns the other spellings of a column, e.g. "FG %" and "FG_PCT"
// for "FG%". The result is empty for unknown columns.
func Aliases(column string) []string {
	return aliasGroups[strings.ToUpper(column)]
}

// ColumnLabel returns the display label for a raw column name.
func ColumnLabel(column string) string {
	if label, ok := columnMappings[strings.ToUpper(column)]; ok {
		return label
	}
	return strings.ToUpper(strings.ReplaceAll(column, "_", " "))
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// String renders a raw stat value the way it would appear in the source
// document.
func String(v any) string {
	if v == nil {
		return ""
	}
	return toString(v)
}
