// Package config loads the novembro configuration file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "novembro.yaml"

// Config holds all novembro configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	LLM          LLMConfig          `yaml:"llm"`
	Data         DataConfig         `yaml:"data"`
	Registration RegistrationConfig `yaml:"registration"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	StaticDir    string   `yaml:"static_dir"`
	CORSOrigins  []string `yaml:"cors_origins"`
	ReadTimeout  string   `yaml:"read_timeout"`
	WriteTimeout string   `yaml:"write_timeout"`
}

// LLMConfig configures the completion API.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`
}

// DataConfig locates the procedures CSV. CSVPath may be a file or an http(s) URL.
type DataConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// RegistrationConfig selects the registration store.
type RegistrationConfig struct {
	CSVPath string `yaml:"csv_path"`
	Driver  string `yaml:"driver"` // csv, sqlite, mysql
	DSN     string `yaml:"dsn"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":3000",
			CORSOrigins:  []string{"*"},
			ReadTimeout:  "15s",
			WriteTimeout: "90s",
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.3,
			MaxTokens:   512,
			Timeout:     "60s",
		},
		Data: DataConfig{
			CSVPath: "dados.csv",
		},
		Registration: RegistrationConfig{
			CSVPath: "Cadastros - Página1.csv",
			Driver:  "csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.LLM.Model = model
	}

	// PORT follows the hosting convention of a bare port number.
	if port := os.Getenv("PORT"); port != "" {
		if strings.Contains(port, ":") {
			c.Server.Addr = port
		} else {
			c.Server.Addr = ":" + port
		}
	}

	if path := os.Getenv("NOVEMBRO_DATA_CSV"); path != "" {
		c.Data.CSVPath = path
	}
	if path := os.Getenv("NOVEMBRO_REGISTRATION_CSV"); path != "" {
		c.Registration.CSVPath = path
	}
	if driver := os.Getenv("NOVEMBRO_STORE_DRIVER"); driver != "" {
		c.Registration.Driver = driver
	}
	if dsn := os.Getenv("NOVEMBRO_STORE_DSN"); dsn != "" {
		c.Registration.DSN = dsn
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

// GetReadTimeout returns the server read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 90*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidDrivers lists the supported registration stores.
var ValidDrivers = []string{"csv", "sqlite", "mysql"}

// ValidFormats lists the supported log encodings.
var ValidFormats = []string{"json", "console"}

// Validate validates the configuration.
// A missing API key is not an error; the chat endpoint reports it per request.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address not configured")
	}
	if !contains(ValidDrivers, c.Registration.Driver) {
		return fmt.Errorf("invalid registration driver: %s (valid: %v)", c.Registration.Driver, ValidDrivers)
	}
	if c.Registration.Driver == "csv" && c.Registration.CSVPath == "" {
		return fmt.Errorf("registration csv_path not configured")
	}
	if c.Registration.Driver != "csv" && c.Registration.DSN == "" {
		return fmt.Errorf("registration dsn required for driver %s", c.Registration.Driver)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature out of range: %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive")
	}
	if c.Logging.Format != "" && !contains(ValidFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidFormats)
	}
	return nil
}

// StoreTarget returns the file path or DSN for the configured driver.
func (c *Config) StoreTarget() string {
	if c.Registration.Driver == "" || c.Registration.Driver == "csv" {
		return c.Registration.CSVPath
	}
	return c.Registration.DSN
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
