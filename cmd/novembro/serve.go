package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/server"
	"go.uber.org/zap"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the campaign site and its API",
	Long: `Serves POST /api/openai (chat proxy), POST /api/cadastro (registration),
GET /api/dados, /api/dados.xlsx, /api/grafico.png and the static site files.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config or PORT)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory of static site files")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveStatic != "" {
		cfg.Server.StaticDir = serveStatic
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openRegistrationStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open registration store: %w", err)
	}
	defer store.Close()

	completer := newLLMClient()
	if !completer.HasKey() {
		logger.Warn("OPENAI_API_KEY not set; chat requests will fail")
	}
	logger.Info("starting",
		zap.String("data", cfg.Data.CSVPath),
		zap.String("registration_driver", cfg.Registration.Driver),
		zap.String("model", completer.Model()),
	)

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		StaticDir:    cfg.Server.StaticDir,
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}, server.Deps{
		Completer:     completer,
		SystemPrompt:  llm.SystemPrompt,
		Registrations: registration.NewService(store, logger),
		Data:          loadDataset,
		Logger:        logger,
	})
	return srv.Run(ctx)
}
