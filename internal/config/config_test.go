package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 3, cfg.Competitors.Max)
	assert.Equal(t, 2*time.Second, cfg.PacingInterval())
	assert.Equal(t, 1, cfg.Competitors.PacingBurst)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "brand_contexts", cfg.Database.Table)
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
auth:
  enabled: true
  api_key: secret
http:
  timeout_seconds: 5
  user_agent: insights-test
competitors:
  max: 5
  pacing_seconds: 0.5
storage:
  backend: gcs
  bucket: brand-archive
  prefix: snapshots
database:
  dsn: postgres://localhost/insights
  max_conns: 8
  max_conn_lifetime_minutes: 5
llm:
  api_key: llm-key
logging:
  development: false
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "insights-test", cfg.HTTP.UserAgent)
	assert.Equal(t, 5, cfg.Competitors.Max)
	assert.Equal(t, 500*time.Millisecond, cfg.PacingInterval())
	assert.Equal(t, "brand-archive", cfg.Storage.Bucket)
	assert.Equal(t, "postgres://localhost/insights", cfg.Database.DSN)
	assert.Equal(t, int32(8), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnLifetime())
	assert.Equal(t, "llm-key", cfg.LLM.APIKey)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INSIGHTS_COMPETITORS_MAX", "7")
	t.Setenv("INSIGHTS_LLM_API_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Competitors.Max)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:      ServerConfig{Port: 8080},
		HTTP:        HTTPConfig{TimeoutSeconds: 10},
		Competitors: CompetitorConfig{Max: 3, PacingSeconds: 2, PacingBurst: 1},
		Storage:     StorageConfig{Backend: StorageMemory},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"invalid timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, "http.timeout_seconds"},
		{"negative max", func(c *Config) { c.Competitors.Max = -1 }, "competitors.max"},
		{"negative pacing", func(c *Config) { c.Competitors.PacingSeconds = -1 }, "competitors.pacing_seconds"},
		{"zero burst", func(c *Config) { c.Competitors.PacingBurst = 0 }, "competitors.pacing_burst"},
		{"auth missing api key", func(c *Config) { c.Auth.Enabled = true }, "auth.api_key"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"gcs without bucket", func(c *Config) { c.Storage.Backend = StorageGCS }, "storage.bucket"},
		{"local without dir", func(c *Config) { c.Storage.Backend = StorageLocal }, "storage.local.base_dir"},
		{"dsn without table", func(c *Config) { c.Database.DSN = "postgres://x" }, "database.table"},
		{"pubsub without topic", func(c *Config) { c.PubSub.ProjectID = "proj" }, "pubsub.topic_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
