package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, "Cadastros - Página1.csv", cfg.Registration.CSVPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("NOVEMBRO_STORE_DRIVER", "")
	t.Setenv("NOVEMBRO_STORE_DSN", "")
	path := filepath.Join(t.TempDir(), "novembro.yaml")
	content := `
server:
  addr: ":8080"
  static_dir: public
llm:
  model: gpt-4o-mini
  timeout: 5s
registration:
  driver: sqlite
  dsn: cadastros.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 5*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, 0.3, cfg.LLM.Temperature, "unset keys keep defaults")
	assert.Equal(t, "cadastros.db", cfg.StoreTarget())
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novembro.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("PORT", "9090")
	t.Setenv("NOVEMBRO_DATA_CSV", "https://example.com/dados.csv")
	t.Setenv("NOVEMBRO_STORE_DRIVER", "mysql")
	t.Setenv("NOVEMBRO_STORE_DSN", "mysql://u:p@db:3306/novembro")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://example.com/dados.csv", cfg.Data.CSVPath)
	assert.Equal(t, "mysql://u:p@db:3306/novembro", cfg.StoreTarget())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults without api key", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Registration.Driver = "postgres" }, true},
		{"sql driver without dsn", func(c *Config) { c.Registration.Driver = "sqlite" }, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"bad temperature", func(c *Config) { c.LLM.Temperature = 3 }, true},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "novembro.yaml")
	cfg := DefaultConfig()
	cfg.Server.StaticDir = "site"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", loaded.Server.StaticDir)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ReadTimeout = "bogus"
	cfg.Server.WriteTimeout = "-1s"
	assert.Equal(t, 15*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 90*time.Second, cfg.GetWriteTimeout())
}
