package export

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/parser"
	"github.com/xuri/excelize/v2"
)

func testDataset(t *testing.T) *models.ProcedureDataset {
	t.Helper()
	records := parser.ParseCSV(`"";"Jan";"Fev";"Mar"
"0301010072 CONSULTA MEDICA EM ATENCAO ESPECIALIZADA";"100";"120";"90"
"0202030105 DOSAGEM DE ANTIGENO PROSTATICO ESPECIFICO (PSA)";"40";"55";"61"
"0201010410 BIOPSIA DE PROSTATA";"2";"3";"1"
`)
	ds, err := novembro.FromRecords("test", records, novembro.DefaultOptions())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	return ds
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, testDataset(t)); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}

	// Header + 3 months + Total
	if len(rows) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != models.MonthField || rows[0][1] != parser.SeriesConsultation {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if rows[4][0] != models.TotalLabel || rows[4][1] != "310" {
		t.Errorf("Unexpected total row %v", rows[4])
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	ds, err := novembro.FromRecords("empty", nil, novembro.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, ds); err != nil {
		t.Fatalf("WriteXLSX failed on empty dataset: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	total, err := f.GetCellValue(SheetName, "A2")
	if err != nil || total != models.TotalLabel {
		t.Errorf("Expected Total in A2, got %q (%v)", total, err)
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#007bff", "007BFF"},
		{"28a745", "28A745"},
	}
	for _, tt := range tests {
		if got := hexColor(tt.input); got != tt.expected {
			t.Errorf("hexColor(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, testDataset(t).Chart); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != ImageWidth || img.Bounds().Dy() != ImageHeight {
		t.Errorf("Unexpected size %v", img.Bounds())
	}
}

func TestRenderPNGNotEnoughPoints(t *testing.T) {
	cfg := models.ChartConfig{Data: models.ChartData{Labels: []string{"Jan"}}}
	if err := RenderPNG(&bytes.Buffer{}, cfg); !errors.Is(err, ErrNotEnoughPoints) {
		t.Errorf("Expected ErrNotEnoughPoints, got %v", err)
	}
}
