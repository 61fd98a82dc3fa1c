package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// ExportFilename is the suggested download name for CSV exports.
const ExportFilename = "wnba_stats.csv"

// WriteCSV writes rows as CSV followed by a commented trailer with the export
// time, dataset name and record count.
func WriteCSV(w io.Writer, rows []stats.BoxStats, dataset string, now time.Time) error {
	if len(rows) == 0 {
		return nil
	}

	headers := Headers(rows)
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = h.Key
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(keys))
	for _, row := range rows {
		for i, k := range keys {
			record[i] = stats.String(row[k])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n# Export Date: %s\n# Dataset: %s\n# Records: %d",
		now.UTC().Format("2006-01-02T15:04:05.000Z07:00"), dataset, len(rows))
	return err
}
