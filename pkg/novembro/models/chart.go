package models

// Dataset represents one chart series as a Chart.js dataset.
type Dataset struct {
	// Label is the series display name.
	Label string `json:"label"`
	// Data holds one value per month label.
	Data []int `json:"data"`
	// BackgroundColor is the fill color (translucent for line series).
	BackgroundColor string `json:"backgroundColor"`
	// BorderColor is the base series color.
	BorderColor string `json:"borderColor"`
	// Type is the rendering hint, "bar" or "line".
	Type string `json:"type"`
	// YAxisID is the axis the dataset is plotted against, "y" or "y1".
	YAxisID string `json:"yAxisID"`
	// Tension is the line curve tension.
	Tension float64 `json:"tension"`
	// BorderWidth is the stroke width in pixels.
	BorderWidth int `json:"borderWidth"`
	// PointRadius is the point marker radius in pixels.
	PointRadius int `json:"pointRadius"`
}

// IsLine reports whether the dataset is drawn as a line.
func (d Dataset) IsLine() bool {
	return d.Type == "line"
}

// ChartData holds the labels and datasets of a chart.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// AxisTitle represents an axis caption.
type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// AxisGrid controls grid line drawing for an axis.
type AxisGrid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

// Axis represents one chart scale.
type Axis struct {
	Type     string     `json:"type,omitempty"`
	Display  bool       `json:"display,omitempty"`
	Position string     `json:"position,omitempty"`
	Stacked  bool       `json:"stacked"`
	Title    *AxisTitle `json:"title,omitempty"`
	Grid     *AxisGrid  `json:"grid,omitempty"`
	Min      *int       `json:"min,omitempty"`
}

// Interaction configures hover and tooltip matching.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// ChartTitle is the chart caption.
type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// Plugins groups the tooltip and title plugin options.
type Plugins struct {
	Tooltip Interaction `json:"tooltip"`
	Title   ChartTitle  `json:"title"`
}

// ChartOptions holds the chart-wide options.
type ChartOptions struct {
	Responsive          bool            `json:"responsive"`
	MaintainAspectRatio bool            `json:"maintainAspectRatio"`
	Interaction         Interaction     `json:"interaction"`
	Plugins             Plugins         `json:"plugins"`
	Scales              map[string]Axis `json:"scales"`
}

// ChartConfig represents a complete dual-axis chart configuration.
type ChartConfig struct {
	// Type is the base chart type; datasets may override it.
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}
