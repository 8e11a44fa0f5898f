// Package server exposes the campaign site over HTTP: the chat proxy, the
// registration endpoint, the procedures data and the static pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
	"go.uber.org/zap"
)

// Completer answers one chat message. *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DataSource loads the procedures dataset for the given options.
type DataSource func(ctx context.Context, opts novembro.Options) (*models.ProcedureDataset, error)

// Config configures the HTTP server.
type Config struct {
	Addr         string
	StaticDir    string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ShutdownTimeout bounds the graceful drain after the context ends.
	ShutdownTimeout time.Duration
}

// Deps are the collaborators behind the routes. Nil members disable their routes
// with a 503 reply.
type Deps struct {
	Completer     Completer
	SystemPrompt  string
	Registrations *registration.Service
	Data          DataSource
	Logger        *zap.Logger
}

// Server is the campaign HTTP server.
type Server struct {
	cfg    Config
	deps   Deps
	logger *zap.Logger
	router *mux.Router
}

// New creates a server and registers its routes.
func New(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{cfg: cfg, deps: deps, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido.")
	})

	r.Handle("/api/openai", postOnly(http.HandlerFunc(s.handleChat)))
	r.Handle("/api/cadastro", postOnly(http.HandlerFunc(s.handleRegistration)))
	r.Handle("/save_cadastro.php", postOnly(http.HandlerFunc(s.handleRegistration)))

	r.HandleFunc("/api/dados", s.handleData).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/api/dados.xlsx", s.handleDataXLSX).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/api/grafico.png", s.handleChartPNG).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	if s.cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}
}

// Handler returns the root handler with request logging, CORS and panic
// recovery applied. Logging wraps the router so unmatched requests are logged.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization", RequestIDHeader}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedOrigins(s.cfg.CORSOrigins),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.logger)),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(s.requestLogger(s.router)))
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
