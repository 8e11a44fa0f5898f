// Package export writes the procedures dataset as a workbook or an image.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the table.
const SheetName = "Dados"

// chartAnchorRow is the row of the top-left cell of the embedded chart, right of the table.
const chartAnchorRow = 2

// WriteXLSX writes the table (with its Total row) and a combo chart of the
// charted series to w.
func WriteXLSX(w io.Writer, ds *models.ProcedureDataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeTable(f, ds.Table); err != nil {
		return err
	}

	if len(ds.Records) > 0 && len(ds.Chart.Data.Datasets) > 0 {
		if err := addChart(f, ds); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}

	return f.Write(w)
}

func writeTable(f *excelize.File, table models.Table) error {
	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := append(append([]models.TableRow{}, table.Rows...), table.Total)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, 0, len(row.Values)+1)
		values = append(values, row.Label)
		for _, v := range row.Values {
			values = append(values, v)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}

// addChart draws bar datasets as columns and line datasets on a secondary axis.
// Data ranges exclude the Total row.
func addChart(f *excelize.File, ds *models.ProcedureDataset) error {
	lastRow := len(ds.Records) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetName, lastRow)

	columnOf := make(map[string]int, len(ds.Table.Header))
	for i, h := range ds.Table.Header {
		columnOf[h] = i + 1
	}

	bars := &excelize.Chart{
		Type:      excelize.Col,
		Title:     []excelize.RichTextRun{{Text: ds.Chart.Options.Plugins.Title.Text}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}
	line := &excelize.Chart{
		Type:  excelize.Line,
		YAxis: excelize.ChartAxis{Secondary: true},
	}

	for _, dataset := range ds.Chart.Data.Datasets {
		col, ok := columnOf[dataset.Label]
		if !ok {
			// Selected series absent from the CSV: nothing to reference.
			continue
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		series := excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetName, name),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetName, name, name, lastRow),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(dataset.BorderColor)}},
		}
		if dataset.IsLine() {
			series.Line = excelize.ChartLine{Smooth: true, Width: float64(dataset.BorderWidth)}
			series.Marker = excelize.ChartMarker{Symbol: "circle", Size: dataset.PointRadius}
			line.Series = append(line.Series, series)
		} else {
			bars.Series = append(bars.Series, series)
		}
	}

	anchor, err := excelize.CoordinatesToCellName(len(ds.Table.Header)+2, chartAnchorRow)
	if err != nil {
		return err
	}

	switch {
	case len(bars.Series) > 0 && len(line.Series) > 0:
		return f.AddChart(SheetName, anchor, bars, line)
	case len(bars.Series) > 0:
		return f.AddChart(SheetName, anchor, bars)
	case len(line.Series) > 0:
		line.Title = bars.Title
		line.Legend = bars.Legend
		line.Dimension = bars.Dimension
		line.YAxis = excelize.ChartAxis{}
		return f.AddChart(SheetName, anchor, line)
	}
	return nil
}

// hexColor strips the leading '#' excelize does not accept.
func hexColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(c, "#"))
}
