package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbaille/planner/internal/config"
	"github.com/pbaille/planner/internal/logging"
	"github.com/pbaille/planner/internal/predictor"
	"github.com/pbaille/planner/internal/store"
	"github.com/pbaille/planner/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "planner",
		Short:        "Study and work planner with burnout detection",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/planner/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(completeCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func setup() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	cfg = c

	l, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.Database.Path)
}

func getTracker(s *store.Store) *tracker.Tracker {
	return tracker.New(s, loadPredictor(), logger)
}

// loadPredictor never fails: a model that cannot be loaded leaves analytics
// running without a prediction.
func loadPredictor() predictor.Availability {
	p := cfg.Predictor

	switch p.Kind {
	case config.PredictorFile:
		model, err := predictor.Load(p.ModelPath)
		if err != nil {
			logger.Warn("performance model not loaded", zap.String("path", p.ModelPath), zap.Error(err))
			return predictor.Unavailable(err.Error())
		}
		return model
	case config.PredictorRemote:
		model, err := predictor.NewRemoteModel(p.URL, p.Timeout)
		if err != nil {
			logger.Warn("remote predictor not configured", zap.Error(err))
			return predictor.Unavailable(err.Error())
		}
		return predictor.Available(model)
	default:
		return predictor.Unavailable("predictor disabled")
	}
}
