package novembro

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/parser"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/report"
)

// Load reads a procedures CSV file and builds its table and chart views.
func Load(path string, opts Options) (*models.ProcedureDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewLoadError(path, "read", ErrFileNotFound)
		}
		return nil, NewLoadError(path, "read", err)
	}
	defer f.Close()

	records, err := parser.Parse(f)
	if err != nil {
		return nil, NewLoadError(path, "parse", err)
	}
	return build(path, records, opts)
}

// LoadURL fetches a procedures CSV over HTTP and builds its views.
func LoadURL(ctx context.Context, client *http.Client, url string, opts Options) (*models.ProcedureDataset, error) {
	records, err := parser.Fetch(ctx, client, url)
	if err != nil {
		return nil, NewLoadError(url, "read", err)
	}
	return build(url, records, opts)
}

// Open loads from an http(s) URL or a file path, whichever location names.
func Open(ctx context.Context, client *http.Client, location string, opts Options) (*models.ProcedureDataset, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return LoadURL(ctx, client, location, opts)
	}
	return Load(location, opts)
}

// FromRecords builds the views of already parsed records.
func FromRecords(source string, records []models.MonthlyRecord, opts Options) (*models.ProcedureDataset, error) {
	return build(source, records, opts)
}

func build(source string, records []models.MonthlyRecord, opts Options) (*models.ProcedureDataset, error) {
	if opts.RequireData && len(records) == 0 {
		return nil, NewLoadError(source, "parse", ErrEmptyDataset)
	}

	sel, err := report.NewSelection(opts.SelectedSeries()...)
	if err != nil {
		return nil, NewLoadError(source, "select", err)
	}

	return &models.ProcedureDataset{
		Source:  source,
		Records: records,
		Table:   report.BuildTable(records),
		Chart:   report.BuildChartConfig(sel.List(), records),
	}, nil
}
