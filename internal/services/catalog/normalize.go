package catalog

import "github.com/bobmcallan/catalog/internal/models"

// Normalize turns a header row and data rows into records keyed by column.
// Header cells are trimmed and alias-canonicalized. Short rows pad missing
// trailing cells with "", long rows drop the extras, and a column named twice
// keeps the value of its last occurrence.
func Normalize(header []string, rows [][]string) []models.Record {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = models.CanonicalColumn(h)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(models.Record, len(columns))
		for i, col := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec[col] = value
		}
		records = append(records, rec)
	}
	return records
}
