package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/export"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/report"
	"go.uber.org/zap"
)

// DataReply is the body of GET /api/dados.
type DataReply struct {
	Source   string                   `json:"source"`
	Months   []string                 `json:"months"`
	Selected []string                 `json:"selected"`
	Rows     []map[string]interface{} `json:"rows"`
	Table    models.Table             `json:"table"`
	Chart    models.ChartConfig       `json:"chart"`
}

// recordRows flattens records into {"Mês": month, series: count} objects.
func recordRows(records []models.MonthlyRecord) []map[string]interface{} {
	rows := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		row := map[string]interface{}{models.MonthField: rec.Month}
		for _, series := range rec.Series {
			row[series] = rec.Value(series)
		}
		rows[i] = row
	}
	return rows
}

// loadDataset loads the dataset with the ?series= selection of r. It writes the
// error reply and returns nil on failure.
func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) *models.ProcedureDataset {
	if s.deps.Data == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Dados indisponíveis.")
		return nil
	}

	opts := novembro.DefaultOptions()
	if series, ok := r.URL.Query()["series"]; ok {
		opts.Series = series
	}

	ds, err := s.deps.Data(r.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrUnknownSeries):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, novembro.ErrFileNotFound):
			respondWithError(w, http.StatusNotFound, "Arquivo de dados não encontrado.")
		default:
			s.logger.Error("load dataset", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Erro ao carregar dados.")
		}
		return nil
	}
	return ds
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ds := s.loadDataset(w, r)
	if ds == nil {
		return
	}

	selected := make([]string, len(ds.Chart.Data.Datasets))
	for i, d := range ds.Chart.Data.Datasets {
		selected[i] = d.Label
	}
	respondWithJSON(w, http.StatusOK, DataReply{
		Source:   ds.Source,
		Months:   ds.Months(),
		Selected: selected,
		Rows:     recordRows(ds.Records),
		Table:    ds.Table,
		Chart:    ds.Chart,
	})
}

func (s *Server) handleDataXLSX(w http.ResponseWriter, r *http.Request) {
	ds := s.loadDataset(w, r)
	if ds == nil {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, ds); err != nil {
		s.logger.Error("write xlsx", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Erro ao gerar planilha.")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dados.xlsx"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	ds := s.loadDataset(w, r)
	if ds == nil {
		return
	}

	var buf bytes.Buffer
	if err := export.RenderPNG(&buf, ds.Chart); err != nil {
		if errors.Is(err, export.ErrNotEnoughPoints) {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("render png", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Erro ao gerar gráfico.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
