// Package report builds the table and chart views of the monthly records.
package report

import (
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// BuildTable builds the tabular view of the records.
// Columns follow the first record's key order, month column first. Values
// missing from a record render as 0. A trailing Total row sums each column.
func BuildTable(records []models.MonthlyRecord) models.Table {
	columns := dataColumns(records)

	header := make([]string, 0, len(columns)+1)
	header = append(header, models.MonthField)
	header = append(header, columns...)

	totals := make([]int, len(columns))
	rows := make([]models.TableRow, 0, len(records))
	for _, rec := range records {
		values := make([]int, len(columns))
		for i, col := range columns {
			values[i] = rec.Value(col)
			totals[i] += values[i]
		}
		rows = append(rows, models.TableRow{Label: rec.Month, Values: values})
	}

	return models.Table{
		Header: header,
		Rows:   rows,
		Total:  models.TableRow{Label: models.TotalLabel, Values: totals},
	}
}

// dataColumns returns the series keys of the first record.
func dataColumns(records []models.MonthlyRecord) []string {
	if len(records) == 0 {
		return nil
	}
	return append([]string(nil), records[0].Series...)
}

// ColumnTotal sums a single series across the records.
func ColumnTotal(records []models.MonthlyRecord, series string) int {
	total := 0
	for _, rec := range records {
		total += rec.Value(series)
	}
	return total
}
