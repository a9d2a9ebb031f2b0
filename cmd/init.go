package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"schema-drift/core/config"

	"github.com/spf13/cobra"
)

// initCmd creates the working directories.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data and log directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return bootstrap(cmd.OutOrStdout(), projectDirs(cfg))
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func projectDirs(cfg *config.Config) []string {
	dirs := []string{cfg.Pipeline.RawDir, cfg.Pipeline.ProcessedDir, cfg.Snapshot.Dir}
	if cfg.Log.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Log.File))
	}
	return dirs
}

// bootstrap creates each directory and reports whether it already existed.
func bootstrap(w io.Writer, dirs []string) error {
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			fmt.Fprintf(w, "Directory already exists: %s\n", dir)
			continue
		case err == nil:
			return fmt.Errorf("%s exists and is not a directory", dir)
		case !errors.Is(err, os.ErrNotExist):
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		fmt.Fprintf(w, "Created directory: %s\n", dir)
	}
	return nil
}
