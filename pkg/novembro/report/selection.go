package report

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// ErrUnknownSeries indicates a series name with no color entry.
var ErrUnknownSeries = errors.New("unknown series")

func unknownSeries(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownSeries, name)
}

// DefaultSelection returns the series visible when the page first loads.
func DefaultSelection() []string {
	return append([]string(nil), AllSeries...)
}

// Selection is an ordered set of series names.
// Re-added series take back their position from AllSeries, so toggling a
// series twice leaves the selection unchanged.
type Selection struct {
	series []string
}

// NewSelection creates a selection from names. Repeats are dropped; unknown
// names are an error.
func NewSelection(names ...string) (*Selection, error) {
	s := &Selection{}
	for _, name := range names {
		if _, ok := Colors[name]; !ok {
			return nil, unknownSeries(name)
		}
		if !s.Contains(name) {
			s.series = append(s.series, name)
		}
	}
	return s, nil
}

// Contains reports whether the series is selected.
func (s *Selection) Contains(name string) bool {
	return indexOf(s.series, name) >= 0
}

// List returns a copy of the selected names in draw order.
func (s *Selection) List() []string {
	return append([]string(nil), s.series...)
}

// Toggle removes a selected series or inserts an unselected one.
// It returns whether the series is selected afterwards.
func (s *Selection) Toggle(name string) (bool, error) {
	if _, ok := Colors[name]; !ok {
		return false, unknownSeries(name)
	}

	if i := indexOf(s.series, name); i >= 0 {
		s.series = append(s.series[:i:i], s.series[i+1:]...)
		return false, nil
	}

	rank := indexOf(AllSeries, name)
	pos := len(s.series)
	for i, cur := range s.series {
		if r := indexOf(AllSeries, cur); r < 0 || r > rank {
			pos = i
			break
		}
	}
	s.series = append(s.series[:pos:pos], append([]string{name}, s.series[pos:]...)...)
	return true, nil
}

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}

// ChartState owns the in-memory records and the series selection of one page.
type ChartState struct {
	mu        sync.RWMutex
	records   []models.MonthlyRecord
	selection *Selection
}

// NewChartState creates a state with the default selection.
func NewChartState(records []models.MonthlyRecord) *ChartState {
	sel, _ := NewSelection(DefaultSelection()...)
	return &ChartState{records: records, selection: sel}
}

// Reload replaces the records, keeping the selection.
func (c *ChartState) Reload(records []models.MonthlyRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
}

// Records returns the current records.
func (c *ChartState) Records() []models.MonthlyRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

// Toggle flips a series and returns the rebuilt chart configuration.
func (c *ChartState) Toggle(name string) (models.ChartConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.selection.Toggle(name); err != nil {
		return models.ChartConfig{}, err
	}
	return BuildChartConfig(c.selection.List(), c.records), nil
}

// Selected returns the selected series in draw order.
func (c *ChartState) Selected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection.List()
}

// Config builds the chart configuration for the current selection.
func (c *ChartState) Config() models.ChartConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return BuildChartConfig(c.selection.List(), c.records)
}

// Table builds the table for the current records.
func (c *ChartState) Table() models.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return BuildTable(c.records)
}
