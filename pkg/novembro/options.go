// Package novembro loads the Novembro Azul procedures data and derives its views.
package novembro

import "github.com/ukaji3/novembroazul-go/pkg/novembro/report"

// Options configures how a dataset is loaded.
type Options struct {
	// Series lists the series to chart, in draw order.
	// If nil, the default selection is used.
	Series []string
	// RequireData makes an empty CSV an error instead of an empty dataset.
	RequireData bool
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{}
}

// SelectedSeries returns the series to chart.
func (o Options) SelectedSeries() []string {
	if o.Series != nil {
		return o.Series
	}
	return report.DefaultSelection()
}
