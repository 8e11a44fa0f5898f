package models

// ProcedureDataset bundles everything derived from one load of the procedures CSV.
type ProcedureDataset struct {
	// Source is the file name or URL the data was read from.
	Source string `json:"source"`
	// Records contains one entry per month column of the CSV header.
	Records []MonthlyRecord `json:"records"`
	// Table is the tabular view with the Total row.
	Table Table `json:"table"`
	// Chart is the chart configuration for the selected series.
	Chart ChartConfig `json:"chart"`
}

// Months returns the month labels in header order.
func (d ProcedureDataset) Months() []string {
	months := make([]string, len(d.Records))
	for i, r := range d.Records {
		months[i] = r.Month
	}
	return months
}
