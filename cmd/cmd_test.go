package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schema-drift/core/database"
	"schema-drift/core/drift"
	"schema-drift/core/healing"
	"schema-drift/core/reconcile"
	"schema-drift/core/schema"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "data", "raw")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	fresh := filepath.Join(root, "data", "db_metadata")

	var out bytes.Buffer
	require.NoError(t, bootstrap(&out, []string{existing, fresh}))

	assert.Contains(t, out.String(), "Directory already exists: "+existing)
	assert.Contains(t, out.String(), "Created directory: "+fresh)
	assert.DirExists(t, fresh)

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.ErrorContains(t, bootstrap(&out, []string{file}), "is not a directory")
}

func TestChooseDecider(t *testing.T) {
	t.Cleanup(func() { yesConfirm, healPolicy, answersFile = false, "", "" })

	d, err := chooseDecider(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &healing.Terminal{}, d)

	yesConfirm = true
	d, err = chooseDecider(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, healing.Accept, d)

	healPolicy = "revert"
	d, err = chooseDecider(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, healing.Revert, d)

	healPolicy = "bogus"
	_, err = chooseDecider(nil, nil)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_added: discard\n"), 0o644))
	answersFile = path
	d, err = chooseDecider(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &healing.Scripted{}, d)
}

func TestPrintReconcileReport(t *testing.T) {
	color.NoColor = true

	res := &drift.Result{
		Added:   []schema.FlatKey{"PUBLIC.SALES.MSRP", "PUBLIC.SALES.NOTE"},
		Removed: []schema.FlatKey{"PUBLIC.SALES.REGION"},
		Renamed: map[schema.FlatKey]schema.FlatKey{},
	}
	report := &reconcile.Report{
		RunID:          "run-1",
		CapturedAt:     time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		PriorName:      "20261016_090000_000000_snapshot.json",
		RawLocation:    "data/db_metadata/20261017_090000_000000_snapshot.json",
		HealedLocation: "data/db_metadata/20261017_090000_000001_snapshot.json",
		Diff:           res,
		Decisions: []healing.Decision{
			{Key: "PUBLIC.SALES.MSRP", Action: healing.ActionKeep},
			{Key: "PUBLIC.SALES.REGION", Action: healing.ActionRestore},
		},
		Modified: []drift.Modification{
			{Key: "PUBLIC.SALES.ID", Severity: drift.SeverityBlock, Message: "ID became NOT NULL"},
		},
		Summary: reconcile.Summary{Tables: 1, Columns: 3, Added: 2, Removed: 1},
	}

	var out bytes.Buffer
	printReconcileReport(&out, report)
	s := out.String()

	assert.Contains(t, s, "run run-1")
	assert.Contains(t, s, "prior:       20261016_090000_000000_snapshot.json")
	assert.Contains(t, s, "added: 2  removed: 1  renamed: 0")
	assert.Contains(t, s, "+ PUBLIC.SALES.MSRP: keep")
	assert.Contains(t, s, "< PUBLIC.SALES.REGION: restore")
	assert.Contains(t, s, "[BLOCK] ID became NOT NULL")
	assert.Contains(t, s, "healed snapshot: data/db_metadata/20261017_090000_000001_snapshot.json")
}

func TestPrintReconcileReport_FirstRun(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printReconcileReport(&out, &reconcile.Report{
		RunID:       "run-0",
		RawLocation: "raw.json",
		Diff:        &drift.Result{FirstRun: true},
	})

	assert.Contains(t, out.String(), "none (first run)")
	assert.Contains(t, out.String(), "Baseline snapshot recorded.")
	assert.NotContains(t, out.String(), "healed snapshot")
}

func TestOpenSource(t *testing.T) {
	_, err := openSource(database.Config{Driver: "oracle"})
	assert.ErrorIs(t, err, reconcile.ErrSourceUnavailable)
	assert.ErrorContains(t, err, "unsupported database driver")

	source, err := openSource(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &database.Inspector{}, source)
}
