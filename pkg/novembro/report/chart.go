package report

import (
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/parser"
)

// Chart captions.
const (
	ChartTitle         = "Volume Mensal de Procedimentos em Juiz de Fora (Simulado)"
	PrimaryAxisTitle   = "Volume (Consultas e PSA)"
	SecondaryAxisTitle = "Volume (Biópsias)"
)

// Axis identifiers.
const (
	PrimaryAxis   = "y"
	SecondaryAxis = "y1"
)

// LineSeries is the one series drawn as a line against the secondary axis.
const LineSeries = parser.SeriesBiopsies

// lineFillAlpha is appended to a hex color to get the translucent line fill.
const lineFillAlpha = "40"

// AllSeries lists every known series in selector order.
var AllSeries = []string{
	parser.SeriesConsultation,
	parser.SeriesPSA,
	parser.SeriesBiopsies,
}

// Colors maps series name to its base color.
var Colors = map[string]string{
	parser.SeriesConsultation: "#007bff",
	parser.SeriesPSA:          "#17a2b8",
	parser.SeriesBiopsies:     "#28a745",
}

// BuildChartConfig builds the dual-axis chart for the selected series.
// Datasets are always rebuilt from scratch in selection order.
func BuildChartConfig(selected []string, records []models.MonthlyRecord) models.ChartConfig {
	labels := make([]string, len(records))
	for i, rec := range records {
		labels[i] = rec.Month
	}

	datasets := make([]models.Dataset, 0, len(selected))
	for _, series := range selected {
		datasets = append(datasets, buildDataset(series, records))
	}

	return models.ChartConfig{
		Type: "bar",
		Data: models.ChartData{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: defaultChartOptions(),
	}
}

func buildDataset(series string, records []models.MonthlyRecord) models.Dataset {
	data := make([]int, len(records))
	for i, rec := range records {
		data[i] = rec.Value(series)
	}

	color := Colors[series]
	ds := models.Dataset{
		Label:           series,
		Data:            data,
		BackgroundColor: color,
		BorderColor:     color,
		Type:            "bar",
		YAxisID:         PrimaryAxis,
		Tension:         0.4,
		BorderWidth:     1,
		PointRadius:     0,
	}
	if series == LineSeries {
		ds.BackgroundColor = color + lineFillAlpha
		ds.Type = "line"
		ds.YAxisID = SecondaryAxis
		ds.BorderWidth = 3
		ds.PointRadius = 5
	}
	return ds
}

func defaultChartOptions() models.ChartOptions {
	zero := 0
	index := models.Interaction{Mode: "index", Intersect: false}

	return models.ChartOptions{
		Responsive:          true,
		MaintainAspectRatio: false,
		Interaction:         index,
		Plugins: models.Plugins{
			Tooltip: index,
			Title:   models.ChartTitle{Display: true, Text: ChartTitle},
		},
		Scales: map[string]models.Axis{
			"x": {Stacked: false},
			PrimaryAxis: {
				Type:     "linear",
				Display:  true,
				Position: "left",
				Title:    &models.AxisTitle{Display: true, Text: PrimaryAxisTitle},
				Min:      &zero,
			},
			SecondaryAxis: {
				Type:     "linear",
				Display:  true,
				Position: "right",
				Title:    &models.AxisTitle{Display: true, Text: SecondaryAxisTitle},
				// Only the primary axis draws grid lines.
				Grid: &models.AxisGrid{DrawOnChartArea: false},
				Min:  &zero,
			},
		},
	}
}
