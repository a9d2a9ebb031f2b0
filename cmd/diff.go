package cmd

import (
	"io"

	"schema-drift/core/drift"
	"schema-drift/feature/snapshots"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// diffCmd compares two stored snapshots without healing anything.
var diffCmd = &cobra.Command{
	Use:   "diff [from] [to]",
	Short: "Compare two stored snapshots",
	Long: `Compare two stored snapshots and suggest renamed columns. Nothing is saved.
Without arguments the two most recent snapshots are compared; with one argument
it is compared with the most recent snapshot.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(cfg, l)
		if err != nil {
			return err
		}

		var from, to string
		if len(args) > 0 {
			from = args[0]
		}
		if len(args) > 1 {
			to = args[1]
		}

		svc := snapshots.NewService(store, drift.NewMatcher(cfg.Drift), 0, l)
		report, err := svc.Drift(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		printDriftReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

func printDriftReport(w io.Writer, r *snapshots.DriftReport) {
	color.New(color.Bold).Fprintf(w, "%s -> %s\n", r.From, r.To)

	if !r.HasDrift && len(r.Diff.Modified) == 0 {
		color.New(color.FgGreen).Fprintln(w, "No drift detected.")
		return
	}

	for _, c := range r.Suggested {
		color.New(color.FgCyan).Fprintf(w, "~ %s -> %s (%.3f)\n", c.Removed, c.Added, c.Score)
	}
	for _, k := range r.Diff.UnmatchedAdded() {
		color.New(color.FgGreen).Fprintf(w, "+ %s\n", k)
	}
	for _, k := range r.Diff.UnmatchedRemoved() {
		color.New(color.FgRed).Fprintf(w, "- %s\n", k)
	}
	for _, a := range r.Ambiguities {
		color.New(color.FgYellow).Fprintf(w, "! ambiguous rename %s -> %s, %d close rival(s)\n",
			a.Chosen.Removed, a.Chosen.Added, len(a.Rivals))
	}
	for _, m := range r.Diff.Modified {
		severityColor(m.Severity).Fprintf(w, "[%s] %s\n", m.Severity, m.Message)
	}
}
