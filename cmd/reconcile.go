package cmd

import (
	"fmt"
	"io"
	"os"

	"schema-drift/core/database"
	"schema-drift/core/drift"
	"schema-drift/core/healing"
	"schema-drift/core/reconcile"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	yesConfirm      bool
	healPolicy      string
	answersFile     string
	dryRunReconcile bool
)

// reconcileCmd captures the warehouse schema and reconciles it with the latest snapshot.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Capture the schema, detect drift and heal it",
	Long: `Capture the column-level schema of the configured warehouse schemas, compare it
with the latest stored snapshot, infer renamed columns and heal the rest.

Unmatched columns are resolved interactively unless a policy or an answers
file is given.

Examples:
  # Ask about every unmatched column
  reconcile

  # Accept all drift without prompting
  reconcile --yes

  # Undo all drift without prompting
  reconcile --policy revert

  # Answer from a file, and do not save the healed snapshot
  reconcile --answers answers.yaml --dry-run`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Non-interactive: apply --policy (default accept) without prompting")
	reconcileCmd.Flags().StringVar(&healPolicy, "policy", "", "Healing policy: accept, revert or preserve")
	reconcileCmd.Flags().StringVar(&answersFile, "answers", "", "YAML file with per-column healing answers")
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Save the raw capture only, not the healed snapshot")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	decider, err := chooseDecider(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if c, ok := decider.(io.Closer); ok {
		defer c.Close()
	}

	store, err := openStore(cfg, l)
	if err != nil {
		return err
	}

	source, err := openSource(cfg.Warehouse)
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(
		store,
		source,
		drift.NewMatcher(cfg.Drift),
		decider,
		l,
		reconcile.Options{
			SourceID: cfg.Warehouse.User,
			Database: cfg.Warehouse.Name,
			Schemas:  cfg.Warehouse.Schemas,
			DryRun:   dryRunReconcile,
		},
	)

	report, err := engine.Run(cmd.Context())
	if report != nil {
		printReconcileReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	l.Info("Reconciliation finished",
		zap.String("run_id", report.RunID),
		zap.Bool("drift", report.Drift()),
	)
	return nil
}

// openSource connects to the warehouse. Connection failures are reported as
// an unavailable metadata source.
func openSource(cfg database.Config) (reconcile.Source, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to warehouse: %w", reconcile.ErrSourceUnavailable, err)
	}
	return database.NewInspector(db), nil
}

// chooseDecider picks the answers file, then a policy, then the terminal.
func chooseDecider(in io.Reader, out io.Writer) (healing.Decider, error) {
	if answersFile != "" {
		answers, err := healing.LoadAnswers(answersFile)
		if err != nil {
			return nil, err
		}
		return healing.NewScripted(answers), nil
	}
	if yesConfirm || healPolicy != "" {
		return healing.ParsePolicy(healPolicy)
	}
	if in == nil {
		in = os.Stdin
	}
	return healing.NewTerminal(in, out), nil
}

// printReconcileReport prints a formatted reconciliation report.
func printReconcileReport(w io.Writer, r *reconcile.Report) {
	bold := color.New(color.Bold)
	s := r.Summary

	bold.Fprintf(w, "\nReconciliation report (run %s)\n", r.RunID)
	fmt.Fprintf(w, "  captured at: %s\n", r.CapturedAt.Format("2006-01-02 15:04:05.000000 MST"))
	if r.PriorName == "" {
		fmt.Fprintln(w, "  prior:       none (first run)")
	} else {
		fmt.Fprintf(w, "  prior:       %s\n", r.PriorName)
	}
	fmt.Fprintf(w, "  tables: %d  columns: %d\n", s.Tables, s.Columns)

	if r.Diff != nil && r.Diff.FirstRun {
		color.New(color.FgGreen).Fprintln(w, "  Baseline snapshot recorded.")
	} else if !r.Drift() {
		color.New(color.FgGreen).Fprintln(w, "  No drift detected.")
	} else {
		fmt.Fprintf(w, "  added: %d  removed: %d  renamed: %d\n", s.Added, s.Removed, s.Renamed)
	}

	if r.Diff != nil {
		for _, from := range r.Diff.RenamedKeys() {
			color.New(color.FgCyan).Fprintf(w, "  ~ %s -> %s\n", from, r.Diff.Renamed[from])
		}
	}

	for _, a := range r.Ambiguities {
		color.New(color.FgYellow).Fprintf(w, "  ! ambiguous rename %s -> %s (%.3f), %d close rival(s)\n",
			a.Chosen.Removed, a.Chosen.Added, a.Chosen.Score, len(a.Rivals))
	}

	for _, d := range r.Decisions {
		fmt.Fprintf(w, "  %s %s: %s\n", decisionMark(d.Action), d.Key, d.Action)
	}

	for _, m := range r.Modified {
		severityColor(m.Severity).Fprintf(w, "  [%s] %s\n", m.Severity, m.Message)
	}

	fmt.Fprintf(w, "  raw snapshot:    %s\n", r.RawLocation)
	switch {
	case r.HealedLocation != "":
		fmt.Fprintf(w, "  healed snapshot: %s\n", r.HealedLocation)
	case r.DryRun && r.Drift():
		color.New(color.FgYellow).Fprintln(w, "  Dry-run mode: healed snapshot not saved.")
	}
}

func decisionMark(a healing.Action) string {
	switch a {
	case healing.ActionKeep:
		return "+"
	case healing.ActionRestore:
		return "<"
	default:
		return "-"
	}
}

func severityColor(severity string) *color.Color {
	switch severity {
	case drift.SeverityBlock:
		return color.New(color.FgRed)
	case drift.SeverityWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}
