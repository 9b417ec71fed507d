package application

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout.Std())
	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "llama-70b", cfg.Providers[0].Name)
	assert.Equal(t, "groq", cfg.Providers[0].Provider)
	assert.Equal(t, "google", cfg.Judge.Provider)
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
listen_addr: ":9090"
request_timeout: 5s
providers:
  - name: llama-70b
    provider: groq
    model: llama-3.3-70b-versatile
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.ListenAddr)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout.Std())
		require.Len(t, cfg.Providers, 1)
		// Absent sections keep their defaults.
		assert.Equal(t, "google", cfg.Judge.Provider)
	})

	t.Run("missing file rejected", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := writeConfigFile(t, "listen_addr: [unclosed")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("bad duration rejected", func(t *testing.T) {
		path := writeConfigFile(t, "request_timeout: soon")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "invalid duration")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "no providers",
			mutate:  func(c *Config) { c.Providers = nil },
			wantErr: "invalid configuration",
		},
		{
			name: "unknown provider type",
			mutate: func(c *Config) {
				c.Providers[0].Provider = "mystery"
			},
			wantErr: "invalid configuration",
		},
		{
			name: "duplicate model names",
			mutate: func(c *Config) {
				c.Providers[1].Name = c.Providers[0].Name
			},
			wantErr: "duplicate model name",
		},
		{
			name: "judge temperature out of range",
			mutate: func(c *Config) {
				c.Judge.Temperature = 1.5
			},
			wantErr: "invalid configuration",
		},
		{
			name: "bad base URL",
			mutate: func(c *Config) {
				c.Providers[0].BaseURL = "not a url"
			},
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("LLMETRICS_DATABASE_URL", "file:test.db")
	t.Setenv("OPENAI_API_KEY", "")

	secrets, err := LoadSecrets()
	require.NoError(t, err)

	assert.Equal(t, "gsk_test", secrets.GroqAPIKey)
	assert.Equal(t, "file:test.db", secrets.DatabaseURL)
	assert.Equal(t, "gsk_test", secrets.APIKeyFor("groq"))
	assert.Empty(t, secrets.APIKeyFor("openai"))
	assert.Empty(t, secrets.APIKeyFor("mystery"))
}
