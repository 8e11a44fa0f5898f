// Package output serializes datasets and chart configurations for the CLI.
package output

import (
	"encoding/json"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// ToJSON serializes v, indented when pretty is set.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ChartToJSON serializes a chart configuration in the Chart.js shape.
func ChartToJSON(cfg *models.ChartConfig, pretty bool) ([]byte, error) {
	return ToJSON(cfg, pretty)
}

// DatasetToJSON serializes a full dataset.
func DatasetToJSON(ds *models.ProcedureDataset, pretty bool) ([]byte, error) {
	return ToJSON(ds, pretty)
}
