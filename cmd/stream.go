package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"schema-drift/feature/stream"

	"github.com/spf13/cobra"
)

var (
	streamCount int
	streamSeed  int64
)

// streamCmd is the parent command for the simulated record stream.
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Generate and ingest the simulated sales stream",
}

var streamGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Append synthetic records to the stream file until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		n, err := stream.NewGenerator(cfg.Stream, streamSeed, l).Run(ctx, streamCount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d records appended to %s\n", n, cfg.Stream.File)
		return nil
	},
}

var streamIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Tail the stream file and append valid records to the CSV sink",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		in := stream.NewIngester(cfg.Stream, l)
		if streamCount == 0 {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return in.Run(ctx)
		}

		// --count 1 performs a single pass, useful from cron.
		stats, err := in.IngestOnce(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "read %d, ingested %d, skipped %d\n", stats.Read, stats.Ingested, stats.Skipped)
		return nil
	},
}

func init() {
	streamGenerateCmd.Flags().IntVar(&streamCount, "count", 0, "Stop after this many records (0 runs until interrupted)")
	streamGenerateCmd.Flags().Int64Var(&streamSeed, "seed", 0, "Random seed (0 uses the clock)")
	streamIngestCmd.Flags().IntVar(&streamCount, "count", 0, "Number of passes; 0 tails until interrupted, anything else runs once")

	streamCmd.AddCommand(streamGenerateCmd)
	streamCmd.AddCommand(streamIngestCmd)
	RootCmd.AddCommand(streamCmd)
}
