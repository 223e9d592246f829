package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mealroute/config"
	"mealroute/db"
	"mealroute/logger"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "mealroute",
	Short:         "Meal subscription delivery back office",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "optional YAML/JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.New("main").Errorf("%v", err)
		return err
	}
	return nil
}

// loadConfig reads configuration and applies it to the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// connect opens the PostgreSQL pool and, when enabled, applies migrations.
func connect(ctx context.Context, cfg *config.Config) error {
	if err := db.Init(ctx, cfg.DB); err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		log := logger.New("migrate")
		if err := db.ApplyMigrations(ctx, func(name string) { log.Debugf("applied %s", name) }); err != nil {
			db.Close()
			return err
		}
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
