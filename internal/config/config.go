// Package config provides configuration loading for planner.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/pbaille/planner/internal/logging"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "PLANNER_"

// Predictor kinds.
const (
	PredictorFile   = "file"
	PredictorRemote = "remote"
	PredictorNone   = "none"
)

// Config is the full planner configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Predictor PredictorConfig `koanf:"predictor"`
	Log       logging.Config  `koanf:"log"`
}

// DatabaseConfig locates the sqlite file
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig holds the API listen address
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// AnalyticsConfig holds the wellness assumptions no task carries
type AnalyticsConfig struct {
	SleepHours  float64 `koanf:"sleep_hours"`
	StressLevel float64 `koanf:"stress_level"`
}

// PredictorConfig selects and configures the performance model
type PredictorConfig struct {
	Kind      string        `koanf:"kind"`
	ModelPath string        `koanf:"model_path"`
	URL       string        `koanf:"url"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".planner")

	return Config{
		Database: DatabaseConfig{Path: filepath.Join(base, "planner.db")},
		Server:   ServerConfig{Addr: ":8080"},
		Analytics: AnalyticsConfig{
			SleepHours:  7.5,
			StressLevel: 5,
		},
		Predictor: PredictorConfig{
			Kind:      PredictorFile,
			ModelPath: filepath.Join(base, "performance.yaml"),
			Timeout:   10 * time.Second,
		},
		Log: logging.Config{Level: "info", Format: "console"},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "planner", "config.yaml")
}

// Load reads configuration from a YAML file, then applies PLANNER_*
// environment overrides on top of it.
//
// Precedence (highest to lowest):
//  1. Environment variables (PLANNER_SERVER_ADDR -> server.addr)
//  2. YAML config file
//  3. Defaults
//
// An empty path means DefaultPath, which may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps PLANNER_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Analytics.SleepHours < 0 {
		return fmt.Errorf("analytics.sleep_hours must not be negative, got %v", c.Analytics.SleepHours)
	}

	switch c.Predictor.Kind {
	case PredictorFile:
		if c.Predictor.ModelPath == "" {
			return errors.New("predictor.model_path is required for file predictor")
		}
	case PredictorRemote:
		if c.Predictor.URL == "" {
			return errors.New("predictor.url is required for remote predictor")
		}
	case PredictorNone:
	default:
		return fmt.Errorf("unknown predictor kind %q", c.Predictor.Kind)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}
