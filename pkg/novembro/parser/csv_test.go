package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `"";"Jan/2024";"Fev/2024";"Mar/2024"
"0201010410 BIOPSIA DE PROSTATA";"12";"15";"9"
"0202030105 DOSAGEM DE ANTIGENO PROSTATICO ESPECIFICO (PSA)";"340";"";"410"
"9999999999 PROCEDIMENTO DESCONHECIDO";"1";"2";"3"
"0301010072 CONSULTA MEDICA EM ATENCAO ESPECIALIZADA";"1200";"1100";"abc"
`

func TestParseCSV(t *testing.T) {
	records := ParseCSV(sampleCSV)

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	months := []string{"Jan/2024", "Fev/2024", "Mar/2024"}
	for i, m := range months {
		if records[i].Month != m {
			t.Errorf("record %d: expected month %q, got %q", i, m, records[i].Month)
		}
	}

	// Key order follows the order rows appear in the file
	wantOrder := []string{SeriesBiopsies, SeriesPSA, SeriesConsultation}
	for i, s := range wantOrder {
		if records[0].Series[i] != s {
			t.Errorf("series[%d] = %q, expected %q", i, records[0].Series[i], s)
		}
	}
	if len(records[0].Series) != 3 {
		t.Errorf("Expected 3 series, got %d (unknown procedure must be dropped)", len(records[0].Series))
	}

	tests := []struct {
		month  int
		series string
		want   int
	}{
		{0, SeriesBiopsies, 12},
		{1, SeriesBiopsies, 15},
		{2, SeriesPSA, 410},
		{1, SeriesPSA, 0},          // empty value
		{2, SeriesConsultation, 0}, // unparseable value
		{0, SeriesConsultation, 1200},
	}
	for _, tt := range tests {
		got := records[tt.month].Value(tt.series)
		if got != tt.want {
			t.Errorf("records[%d].Value(%q) = %d, expected %d", tt.month, tt.series, got, tt.want)
		}
		if !records[tt.month].Has(tt.series) {
			t.Errorf("records[%d] missing series %q", tt.month, tt.series)
		}
	}
}

func TestParseCSVEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n  ", `""`} {
		records := ParseCSV(in)
		if records == nil || len(records) != 0 {
			t.Errorf("ParseCSV(%q) = %v, expected empty slice", in, records)
		}
	}
}

func TestParseCSVCRLFAndExtraColumns(t *testing.T) {
	in := "\"\";Jan;Fev\r\n\"0201010410 BIOPSIA DE PROSTATA\";3;4;99;100\r\n"
	records := ParseCSV(in)

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Month != "Fev" {
		t.Errorf("Expected month Fev, got %q", records[1].Month)
	}
	if records[1].Value(SeriesBiopsies) != 4 {
		t.Errorf("Expected 4, got %d", records[1].Value(SeriesBiopsies))
	}
}

func TestParseCSVMonthCountMatchesHeader(t *testing.T) {
	in := "\"\";A;B;C;D;E\n\"0202030105 DOSAGEM DE ANTIGENO PROSTATICO ESPECIFICO (PSA)\";1;2\n"
	records := ParseCSV(in)

	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	// Months past the row's last value carry no entry; readers default to 0
	if records[4].Has(SeriesPSA) {
		t.Errorf("Expected no PSA value for month E")
	}
	if records[4].Value(SeriesPSA) != 0 {
		t.Errorf("Expected default 0, got %d", records[4].Value(SeriesPSA))
	}
}

func TestParseCSVQuotedSeparator(t *testing.T) {
	in := `"";"Jan;2024";"Fev;2024"
"0201010410 BIOPSIA DE PROSTATA";"5";" 6"
"9999 OUTRO; COM SEPARADOR";"1";"2"
`
	records := ParseCSV(in)

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Month != "Jan;2024" || records[1].Month != "Fev;2024" {
		t.Errorf("Unexpected months %q, %q", records[0].Month, records[1].Month)
	}
	if records[0].Value(SeriesBiopsies) != 5 || records[1].Value(SeriesBiopsies) != 6 {
		t.Errorf("Unexpected values %d, %d", records[0].Value(SeriesBiopsies), records[1].Value(SeriesBiopsies))
	}
	if len(records[0].Series) != 1 {
		t.Errorf("Expected only the biopsy series, got %v", records[0].Series)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"123", 123},
		{" 7 ", 7},
		{"", 0},
		{"n/a", 0},
		{"-3", -3},
	}

	for _, tt := range tests {
		result := parseCount(tt.input)
		if result != tt.expected {
			t.Errorf("parseCount(%q) = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestParseFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "dados.csv")
	if err := os.WriteFile(tmpFile, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	records, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dados.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	records, err := Fetch(context.Background(), srv.Client(), srv.URL+"/dados.csv")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.csv"); err == nil {
		t.Error("Expected error for 404 response")
	}
}
