// Package parser provides procedures CSV parsing utilities.
package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// Series names produced by the ingestor.
const (
	SeriesBiopsies     = "Biópsias de Próstata"
	SeriesPSA          = "Exames de PSA"
	SeriesConsultation = "Consultas Especializadas"
)

// ProcedureSeries maps the raw procedure code and name to a series name.
// Rows whose first column is not listed here are dropped.
var ProcedureSeries = map[string]string{
	"0201010410 BIOPSIA DE PROSTATA":                             SeriesBiopsies,
	"0202030105 DOSAGEM DE ANTIGENO PROSTATICO ESPECIFICO (PSA)": SeriesPSA,
	"0301010072 CONSULTA MEDICA EM ATENCAO ESPECIALIZADA":        SeriesConsultation,
}

const fieldSeparator = ';'

// ParseCSV converts the procedures CSV text into one record per month column.
// Malformed trailing input is ignored; use Parse to see read errors.
func ParseCSV(text string) []models.MonthlyRecord {
	records, _ := Parse(strings.NewReader(text))
	return records
}

// Parse reads the procedures CSV. The header row is `"";month1;month2;...`;
// each data row is a procedure code followed by one count per month. Fields
// may be quoted, and quoted fields may contain the separator.
func Parse(r io.Reader) ([]models.MonthlyRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = fieldSeparator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []models.MonthlyRecord{}, nil
	}
	if err != nil {
		return []models.MonthlyRecord{}, fmt.Errorf("read header: %w", err)
	}

	records := make([]models.MonthlyRecord, 0, len(header))
	for _, h := range header[1:] {
		records = append(records, models.NewMonthlyRecord(strings.TrimSpace(h)))
	}

	for {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read row: %w", err)
		}

		series, ok := ProcedureSeries[strings.TrimSpace(values[0])]
		if !ok {
			continue
		}
		for idx, value := range values[1:] {
			// Columns past the last header month have no record to land in.
			if idx >= len(records) {
				break
			}
			records[idx].Set(series, parseCount(value))
		}
	}

	return records, nil
}

// ParseFile reads and parses a procedures CSV file.
func ParseFile(path string) ([]models.MonthlyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Fetch downloads a procedures CSV resource and parses it.
func Fetch(ctx context.Context, client *http.Client, url string) ([]models.MonthlyRecord, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return Parse(resp.Body)
}

// parseCount parses a monthly count. Empty or unparseable input yields 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
