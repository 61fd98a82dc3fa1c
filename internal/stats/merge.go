package stats

import "strings"

// BuildMerged joins the three datasets by team name. Team metadata drives the
// join: every metadata entry with a non-empty name produces a record, box
// rows without metadata are dropped, and a team missing from a box dataset
// gets an empty map for that window.
func BuildMerged(fullSeason, lastFive []BoxStats, teams []TeamMeta) MergedData {
	fsByName := indexByName(fullSeason)
	lfByName := indexByName(lastFive)

	merged := make(MergedData, len(teams))
	for _, team := range teams {
		name := strings.TrimSpace(team.Name)
		if name == "" {
			continue
		}

		rec := MergedRecord{
			Advanced:   team.Stats,
			FullSeason: fsByName[name],
			LastFive:   lfByName[name],
		}
		if rec.Advanced == nil {
			rec.Advanced = AdvancedStats{}
		}
		if team.Notes != nil {
			rec.Notes = *team.Notes
		}
		if rec.FullSeason == nil {
			rec.FullSeason = BoxStats{}
		}
		if rec.LastFive == nil {
			rec.LastFive = BoxStats{}
		}
		merged[name] = rec
	}
	return merged
}

// indexByName keys rows by TeamName. A later duplicate overwrites an earlier
// one.
func indexByName(rows []BoxStats) map[string]BoxStats {
	byName := make(map[string]BoxStats, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		byName[row.TeamName()] = row
	}
	return byName
}
