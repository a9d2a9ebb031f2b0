package cmd

import (
	"fmt"

	"schema-drift/core/database"
	"schema-drift/feature/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// etlCmd is the parent command for the batch CSV pipeline.
var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Batch extract, transform and load of the sales table",
}

var etlRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract the sales table, transform it and write the processed CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := pipelineService()
		if err != nil {
			return err
		}
		defer l.Sync()

		res, err := svc.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s in %s\n", res.Rows, res.ProcessedPath, res.Duration)
		return nil
	},
}

var etlExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Dump the sales table to the raw CSV only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := pipelineService()
		if err != nil {
			return err
		}
		defer l.Sync()

		ds, path, err := svc.Extract(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", ds.Len(), path)
		return nil
	},
}

func init() {
	etlCmd.AddCommand(etlRunCmd)
	etlCmd.AddCommand(etlExtractCmd)
	RootCmd.AddCommand(etlCmd)
}

func pipelineService() (*pipeline.Service, *zap.Logger, error) {
	cfg, l, err := setup()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.Warehouse)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	return pipeline.NewService(db, cfg.Warehouse.Table, cfg.Pipeline, l), l, nil
}
