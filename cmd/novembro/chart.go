package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/output"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/report"
)

var (
	chartSeries []string
	chartPretty bool
	chartOutput string
	chartToggle []string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the dual-axis chart configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(chartSeries) > 0 && len(chartToggle) > 0 {
			return fmt.Errorf("--series and --toggle cannot be combined")
		}
		ds, err := loadDataset(cmd.Context(), seriesOptions(chartSeries))
		if err != nil {
			return err
		}

		chartCfg := ds.Chart
		if len(chartToggle) > 0 {
			if chartCfg, err = toggledChart(ds.Records, chartToggle); err != nil {
				return err
			}
		}

		jsonData, err := output.ChartToJSON(&chartCfg, chartPretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}

		if chartOutput != "" {
			if err := os.WriteFile(chartOutput, jsonData, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	chartCmd.Flags().StringSliceVar(&chartSeries, "series", nil, "Series to chart, in draw order (default: all)")
	chartCmd.Flags().BoolVar(&chartPretty, "pretty", false, "Pretty-print JSON output")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output file path (default: stdout)")
	chartCmd.Flags().StringArrayVar(&chartToggle, "toggle", nil, "Toggle a series off or back on, starting from all series (repeatable)")
}

// toggledChart replays series toggles from the default selection.
func toggledChart(records []models.MonthlyRecord, toggles []string) (models.ChartConfig, error) {
	state := report.NewChartState(records)
	for _, name := range toggles {
		if _, err := state.Toggle(name); err != nil {
			return models.ChartConfig{}, err
		}
	}
	return state.Config(), nil
}

func seriesOptions(series []string) novembro.Options {
	opts := novembro.DefaultOptions()
	if len(series) > 0 {
		opts.Series = series
	}
	return opts
}
