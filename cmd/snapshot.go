package cmd

import (
	"encoding/json"
	"fmt"

	"schema-drift/core/schema"

	"github.com/spf13/cobra"
)

// snapshotCmd is the parent command for stored snapshots.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect stored schema snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots in capture order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(cfg, l)
		if err != nil {
			return err
		}

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No snapshots stored.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s\n", e.Name, e.CapturedAt.Format("2006-01-02 15:04:05.000000"))
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a snapshot as JSON (default the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(cfg, l)
		if err != nil {
			return err
		}

		var snap *schema.Snapshot
		if len(args) == 1 {
			snap, err = store.Load(cmd.Context(), args[0])
		} else {
			snap, _, err = store.LoadLatest(cmd.Context())
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	RootCmd.AddCommand(snapshotCmd)
}
