package export

import (
	"errors"
	"io"
	"strings"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughPoints is returned when a chart has fewer than two months or no
// datasets; go-chart cannot render a zero-width range.
var ErrNotEnoughPoints = errors.New("chart needs at least two months and one series")

// Image size in pixels.
const (
	ImageWidth  = 960
	ImageHeight = 480
)

// RenderPNG renders the chart configuration as a PNG image.
// Bar datasets are drawn as filled series on the left axis and line datasets
// as stroked series with dots on the right axis.
func RenderPNG(w io.Writer, cfg models.ChartConfig) error {
	labels := cfg.Data.Labels
	if len(labels) < 2 || len(cfg.Data.Datasets) == 0 {
		return ErrNotEnoughPoints
	}

	xs := make([]float64, len(labels))
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	var primaryMax, secondaryMax float64
	series := make([]chart.Series, 0, len(cfg.Data.Datasets))
	for _, ds := range cfg.Data.Datasets {
		ys := make([]float64, len(ds.Data))
		for i, v := range ds.Data {
			ys[i] = float64(v)
		}

		color := drawing.ColorFromHex(strings.TrimPrefix(ds.BorderColor, "#"))
		s := chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
		}
		if ds.IsLine() {
			s.YAxis = chart.YAxisSecondary
			s.Style = chart.Style{
				StrokeColor: color,
				StrokeWidth: float64(ds.BorderWidth),
				DotColor:    color,
				DotWidth:    float64(ds.PointRadius),
			}
			secondaryMax = maxOf(secondaryMax, ys)
		} else {
			s.Style = chart.Style{
				StrokeColor: color,
				StrokeWidth: float64(ds.BorderWidth),
				FillColor:   color.WithAlpha(160),
			}
			primaryMax = maxOf(primaryMax, ys)
		}
		series = append(series, s)
	}

	graph := chart.Chart{
		Title:  cfg.Options.Plugins.Title.Text,
		Width:  ImageWidth,
		Height: ImageHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(labels) - 1)},
		},
		YAxis: chart.YAxis{
			Name:  axisTitle(cfg, "y"),
			Range: &chart.ContinuousRange{Min: 0, Max: nonZero(primaryMax)},
		},
		YAxisSecondary: chart.YAxis{
			Name:  axisTitle(cfg, "y1"),
			Range: &chart.ContinuousRange{Min: 0, Max: nonZero(secondaryMax)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

func axisTitle(cfg models.ChartConfig, id string) string {
	if axis, ok := cfg.Options.Scales[id]; ok && axis.Title != nil {
		return axis.Title.Text
	}
	return ""
}

func maxOf(cur float64, values []float64) float64 {
	for _, v := range values {
		if v > cur {
			cur = v
		}
	}
	return cur
}

// nonZero keeps an all-zero axis renderable.
func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
