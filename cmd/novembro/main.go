// Package main provides the CLI entry point for novembro.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/config"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/logging"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
	"go.uber.org/zap"
)

const version = "1.0.0"

const dataFetchTimeout = 30 * time.Second

var (
	cfgFile   string
	verbose   bool
	logFormat string
	dataPath  string

	cfg    *config.Config
	logger *zap.Logger

	// dotenvErr is reported once the logger exists.
	dotenvErr error
)

var rootCmd = &cobra.Command{
	Use:   "novembro",
	Short: "Novembro Azul campaign site and data tools",
	Long: `novembro serves the Novembro Azul prostate-health campaign site (chat
assistant proxy, registration form endpoint, procedures data) and renders
the monthly procedures data as tables, charts and spreadsheets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dataPath != "" {
			cfg.Data.CSVPath = dataPath
		}
		if logFormat != "" {
			cfg.Logging.Format = logFormat
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		reportDotEnv(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log encoding: json or console")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Procedures CSV file or URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", defaultPrefsPath, "Terminal preferences file")

	rootCmd.AddCommand(serveCmd, tableCmd, chartCmd, exportCmd, chatCmd, mcpCmd, registrationsCmd)
}

func loadDotEnv() {
	dotenvErr = nil
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		dotenvErr = err
	}
}

func reportDotEnv(l *zap.Logger) {
	if dotenvErr != nil {
		l.Warn("failed to load .env file", zap.Error(dotenvErr))
	}
}

// loadDataset reads the configured procedures CSV.
func loadDataset(ctx context.Context, opts novembro.Options) (*models.ProcedureDataset, error) {
	client := &http.Client{Timeout: dataFetchTimeout}
	return novembro.Open(ctx, client, cfg.Data.CSVPath, opts)
}

func newLLMClient() *llm.Client {
	return llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.GetLLMTimeout(),
	})
}

func openRegistrationStore(ctx context.Context) (registration.Store, error) {
	return registration.OpenStore(ctx, cfg.Registration.Driver, cfg.StoreTarget())
}
