package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/export"
)

var (
	exportFormat string
	exportOutput string
	exportSeries []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the procedures data as an xlsx workbook or a png chart",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "Export format: xlsx or png")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: dados.xlsx or grafico.png)")
	exportCmd.Flags().StringSliceVar(&exportSeries, "series", nil, "Series to chart (default: all)")
}

func runExport(cmd *cobra.Command, args []string) error {
	var defaultName string
	switch exportFormat {
	case "xlsx":
		defaultName = "dados.xlsx"
	case "png":
		defaultName = "grafico.png"
	default:
		return fmt.Errorf("invalid format: %s (must be xlsx or png)", exportFormat)
	}
	if exportOutput == "" {
		exportOutput = defaultName
	}

	ds, err := loadDataset(cmd.Context(), seriesOptions(exportSeries))
	if err != nil {
		return err
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if exportFormat == "xlsx" {
		err = export.WriteXLSX(f, ds)
	} else {
		err = export.RenderPNG(f, ds.Chart)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(exportOutput)
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOutput)
	return nil
}
