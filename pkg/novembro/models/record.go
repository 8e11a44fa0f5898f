// Package models defines data structures for the Novembro Azul campaign data.
package models

// MonthField is the column label used for the month in tables and records.
const MonthField = "Mês"

// MonthlyRecord represents one calendar month of procedure counts.
type MonthlyRecord struct {
	// Month is the month label exactly as it appears in the CSV header.
	Month string `json:"month"`
	// Series lists the series names in the order they were first set.
	Series []string `json:"series"`
	// Values maps series name to the monthly count.
	Values map[string]int `json:"values"`
}

// NewMonthlyRecord creates an empty record for the given month label.
func NewMonthlyRecord(month string) MonthlyRecord {
	return MonthlyRecord{
		Month:  month,
		Values: make(map[string]int),
	}
}

// Set stores a count for a series, keeping first-seen key order.
func (r *MonthlyRecord) Set(series string, count int) {
	if r.Values == nil {
		r.Values = make(map[string]int)
	}
	if _, ok := r.Values[series]; !ok {
		r.Series = append(r.Series, series)
	}
	r.Values[series] = count
}

// Value returns the count for a series, or 0 when the series is absent.
func (r MonthlyRecord) Value(series string) int {
	return r.Values[series]
}

// Has reports whether the record carries a value for the series.
func (r MonthlyRecord) Has(series string) bool {
	_, ok := r.Values[series]
	return ok
}
