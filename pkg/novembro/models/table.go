package models

import "strconv"

// TotalLabel is the label of the synthetic summary row.
const TotalLabel = "Total"

// TableRow represents one rendered row: a label followed by numeric cells.
type TableRow struct {
	// Label is the month label, or TotalLabel for the summary row.
	Label string `json:"label"`
	// Values holds one count per data column, in header order.
	Values []int `json:"values"`
}

// Table represents the tabular view of the monthly records.
type Table struct {
	// Header lists the column names, month column first.
	Header []string `json:"header"`
	// Rows contains one row per monthly record.
	Rows []TableRow `json:"rows"`
	// Total sums each data column across Rows.
	Total TableRow `json:"total"`
}

// DataColumns returns the header without the month column.
func (t Table) DataColumns() []string {
	if len(t.Header) <= 1 {
		return nil
	}
	return t.Header[1:]
}

// Cells returns the table as strings, including the Total row.
func (t Table) Cells() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	for _, row := range append(append([]TableRow{}, t.Rows...), t.Total) {
		cells := make([]string, 0, len(row.Values)+1)
		cells = append(cells, row.Label)
		for _, v := range row.Values {
			cells = append(cells, strconv.Itoa(v))
		}
		out = append(out, cells)
	}
	return out
}
