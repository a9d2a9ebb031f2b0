package cmd

import (
	"fmt"
	"os"

	"schema-drift/core/config"
	"schema-drift/core/logger"
	"schema-drift/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "schema-drift",
	Short: "Schema snapshot and drift reconciliation",
	Long: `schema-drift captures the column-level schema of a warehouse, compares it
with the previous capture, infers renamed columns and lets an operator or a
policy decide how the remaining drift is healed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config reads best in a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and builds the application logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openStore builds the snapshot store selected by the configuration.
func openStore(cfg *config.Config, l *zap.Logger) (*snapshot.Store, error) {
	backend, err := snapshot.NewBackend(cfg.Snapshot, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return snapshot.NewStore(backend, l), nil
}
