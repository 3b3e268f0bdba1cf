package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7.5, cfg.Analytics.SleepHours)
	assert.Equal(t, 5.0, cfg.Analytics.StressLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, PredictorFile, cfg.Predictor.Kind)
	assert.Equal(t, 10*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, "planner.db", filepath.Base(cfg.Database.Path))
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `database:
  path: /tmp/tracker.db
analytics:
  sleep_hours: 6
  stress_level: 0
predictor:
  kind: remote
  url: http://localhost:9000/predict
  timeout: 3s
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tracker.db", cfg.Database.Path)
	assert.Equal(t, 6.0, cfg.Analytics.SleepHours)
	assert.Equal(t, 0.0, cfg.Analytics.StressLevel)
	assert.Equal(t, PredictorRemote, cfg.Predictor.Kind)
	assert.Equal(t, "http://localhost:9000/predict", cfg.Predictor.URL)
	assert.Equal(t, 3*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// untouched keys keep defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("PLANNER_SERVER_ADDR", ":7070")
	t.Setenv("PLANNER_ANALYTICS_SLEEP_HOURS", "5.5")
	t.Setenv("PLANNER_PREDICTOR_KIND", "none")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5.5, cfg.Analytics.SleepHours)
	assert.Equal(t, PredictorNone, cfg.Predictor.Kind)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [oops"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load config file")
	})

	t.Run("remote without url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "predictor:\n  kind: remote\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "predictor.url")
	})

	t.Run("unknown log format", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log:\n  format: xml\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown predictor", func(c *Config) { c.Predictor.Kind = "oracle" }, "unknown predictor kind"},
		{"negative sleep", func(c *Config) { c.Analytics.SleepHours = -1 }, "sleep_hours"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"file predictor needs path", func(c *Config) { c.Predictor.ModelPath = "" }, "model_path"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"json log format", func(c *Config) { c.Log.Format = "JSON" }, ""},
		{"none needs nothing", func(c *Config) { c.Predictor = PredictorConfig{Kind: PredictorNone} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.addr", envKey("PLANNER_SERVER_ADDR"))
	assert.Equal(t, "log.max_size_mb", envKey("PLANNER_LOG_MAX_SIZE_MB"))
	assert.Equal(t, "debug", envKey("PLANNER_DEBUG"))
}
