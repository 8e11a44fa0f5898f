package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/parser"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const sampleCSV = `"";"Set/2024";"Out/2024";"Nov/2024"
"0201010410 BIOPSIA DE PROSTATA";"10";"11";"20"
"0202030105 DOSAGEM DE ANTIGENO PROSTATICO ESPECIFICO (PSA)";"300";"320";"610"
"0301010072 CONSULTA MEDICA EM ATENCAO ESPECIALIZADA";"900";"950";"1400"
`

type fakeCompleter struct {
	calls  int
	system string
	user   string
	reply  string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	return f.reply, f.err
}

type failingStore struct{}

func (failingStore) Save(ctx context.Context, rec models.Registration) error {
	return errors.New("disco cheio")
}
func (failingStore) List(ctx context.Context) ([]models.Registration, error) { return nil, nil }
func (failingStore) Close() error                                            { return nil }

func staticData(ctx context.Context, opts novembro.Options) (*models.ProcedureDataset, error) {
	return novembro.FromRecords("dados.csv", parser.ParseCSV(sampleCSV), opts)
}

func newTestServer(t *testing.T, deps Deps) (*httptest.Server, string) {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "Cadastros - Página1.csv")
	if deps.Registrations == nil {
		deps.Registrations = registration.NewService(registration.NewCSVStore(csvPath), nil)
	}
	if deps.Data == nil {
		deps.Data = staticData
	}
	srv := httptest.NewServer(New(Config{}, deps).Handler())
	t.Cleanup(srv.Close)
	return srv, csvPath
}

func post(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestChatProxy(t *testing.T) {
	fake := &fakeCompleter{reply: "Procure um urologista."}
	srv, _ := newTestServer(t, Deps{Completer: fake})

	resp, body := post(t, srv.URL+"/api/openai", `{"message":"  Quando fazer o PSA?  "}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Procure um urologista.", body["reply"])
	assert.Equal(t, llm.SystemPrompt, fake.system)
	assert.Equal(t, "Quando fazer o PSA?", fake.user)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestChatProxyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty message", `{"message":"   "}`, `Campo "message" é obrigatório.`},
		{"missing message", `{}`, `Campo "message" é obrigatório.`},
		{"malformed json", `{"message":`, `Requisição inválida. Forneça um campo "message" em JSON.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			srv, _ := newTestServer(t, Deps{Completer: fake})

			resp, body := post(t, srv.URL+"/api/openai", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, body["error"])
			assert.Zero(t, fake.calls, "no upstream call for rejected input")
		})
	}
}

func TestChatProxyMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, Deps{Completer: &fakeCompleter{}})

	resp, err := http.Get(srv.URL + "/api/openai")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Método não permitido. Use POST.", body["error"])
}

func TestChatProxyUpstreamFailures(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer sk-limited":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		default:
			w.Write([]byte(`{"choices":[]}`))
		}
	}))
	defer upstream.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		cfg    llm.Config
		status int
		error  string
		extra  string
	}{
		{"missing key", llm.Config{BaseURL: upstream.URL}, http.StatusInternalServerError, "OPENAI_API_KEY não configurada no servidor.", ""},
		{"upstream status relayed", llm.Config{APIKey: "sk-limited", BaseURL: upstream.URL}, http.StatusTooManyRequests, "Erro ao chamar OpenAI", "details"},
		{"malformed upstream", llm.Config{APIKey: "sk-ok", BaseURL: upstream.URL}, http.StatusInternalServerError, "Resposta inválida da OpenAI", "raw"},
		{"network failure", llm.Config{APIKey: "sk-ok", BaseURL: closedURL}, http.StatusBadGateway, "Erro ao conectar OpenAI: ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, Deps{Completer: llm.NewClient(tt.cfg)})

			resp, body := post(t, srv.URL+"/api/openai", `{"message":"oi"}`)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.True(t, strings.HasPrefix(body["error"].(string), tt.error), body["error"])
			if tt.extra != "" {
				assert.Contains(t, body, tt.extra)
			}
		})
	}
}

func TestRegistration(t *testing.T) {
	srv, csvPath := newTestServer(t, Deps{})

	payload := `{"nome":"João Silva","email":"joao@example.com","idade":45,"cpf":"12345678901","cartao_sus":"123","historico_familiar":"nao"}`
	for _, path := range []string{"/api/cadastro", "/save_cadastro.php"} {
		resp, body := post(t, srv.URL+path, payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, registration.SuccessMessage, body["message"])
	}

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Nome;E-mail;Idade;CPF"))
	assert.True(t, strings.HasPrefix(lines[1], "João Silva;joao@example.com;45;12345678901;123;nao;"))
}

func TestRegistrationRejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"malformed", `{"nome":`, http.StatusBadRequest, "Dados inválidos ou JSON malformado."},
		{"null", `null`, http.StatusBadRequest, "Dados inválidos ou JSON malformado."},
		{"missing fields", `{"nome":"Ana"}`, http.StatusBadRequest, "Por favor, preencha todos os campos obrigatórios."},
		{"short cpf", `{"nome":"Ana","email":"a@b.co","idade":"30","cpf":"123"}`, http.StatusBadRequest, "CPF deve conter 11 dígitos."},
		{"age out of range", `{"nome":"Ana","email":"a@b.co","idade":151,"cpf":"12345678901"}`, http.StatusBadRequest, "Idade deve estar entre 0 e 150 anos."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, csvPath := newTestServer(t, Deps{})

			resp, body := post(t, srv.URL+"/api/cadastro", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.want, body["error"])

			_, err := os.Stat(csvPath)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestRegistrationStoreFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv, _ := newTestServer(t, Deps{
		Registrations: registration.NewService(failingStore{}, nil),
		Logger:        zap.New(core),
	})

	resp, body := post(t, srv.URL+"/api/cadastro", `{"nome":"Ana","email":"a@b.co","idade":"30","cpf":"12345678901"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, StoreFailureMessage, body["error"])
	assert.NotContains(t, body["error"], "disco cheio")

	failures := logs.FilterMessage("registration store failed").All()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].ContextMap()["error"], "disco cheio")
}

func TestData(t *testing.T) {
	srv, _ := newTestServer(t, Deps{})

	resp, err := http.Get(srv.URL + "/api/dados")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply DataReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, []string{"Set/2024", "Out/2024", "Nov/2024"}, reply.Months)
	assert.Len(t, reply.Chart.Data.Datasets, 3)
	assert.Equal(t, float64(10), reply.Rows[0][parser.SeriesBiopsies])
	assert.Equal(t, []int{41, 1230, 3250}, reply.Table.Total.Values)
}

func TestDataSeriesSelection(t *testing.T) {
	srv, _ := newTestServer(t, Deps{})

	resp, err := http.Get(srv.URL + "/api/dados?series=" + url.QueryEscape(parser.SeriesBiopsies))
	require.NoError(t, err)
	defer resp.Body.Close()

	var reply DataReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, []string{parser.SeriesBiopsies}, reply.Selected)
	require.Len(t, reply.Chart.Data.Datasets, 1)
	assert.Equal(t, "line", reply.Chart.Data.Datasets[0].Type)

	resp2, err := http.Get(srv.URL + "/api/dados?series=Mamografias")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestDataMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "dados.csv")
	srv, _ := newTestServer(t, Deps{Data: func(ctx context.Context, opts novembro.Options) (*models.ProcedureDataset, error) {
		return novembro.Load(missing, opts)
	}})

	resp, err := http.Get(srv.URL + "/api/dados")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExports(t *testing.T) {
	srv, _ := newTestServer(t, Deps{})

	tests := []struct {
		path        string
		contentType string
		magic       string
	}{
		{"/api/dados.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
		{"/api/grafico.png", "image/png", "\x89PNG"},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		require.NoError(t, err)
		buf := make([]byte, 4)
		_, err = io.ReadFull(resp.Body, buf)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, tt.path)
		assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
		assert.True(t, strings.HasPrefix(string(buf), tt.magic), tt.path)
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv, _ := newTestServer(t, Deps{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestLogCoversUnmatchedRoutes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv, _ := newTestServer(t, Deps{Logger: zap.New(core)})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodPost, "/api/dados", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nao-existe", http.StatusNotFound},
	}
	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, tt.status, resp.StatusCode, "%s %s", tt.method, tt.path)
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader), "%s %s", tt.method, tt.path)
	}

	lines := logs.FilterMessage("request").All()
	require.Len(t, lines, len(tests))
	for i, tt := range tests {
		fields := lines[i].ContextMap()
		assert.Equal(t, tt.path, fields["path"])
		assert.EqualValues(t, tt.status, fields["status"])
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Novembro Azul</h1>"), 0644))

	srv := httptest.NewServer(New(Config{StaticDir: dir}, Deps{Data: staticData}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{Addr: "127.0.0.1:0"}, Deps{})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
