package reconcile

import (
	"context"
	"errors"
	"time"

	"schema-drift/core/drift"
	"schema-drift/core/healing"
	"schema-drift/core/schema"
)

// ErrSourceUnavailable is returned when the metadata source cannot be queried.
// Nothing is written when it occurs.
var ErrSourceUnavailable = errors.New("metadata source unavailable")

// Source returns the raw column metadata of one schema. The returned rows are
// fully materialized.
type Source interface {
	FetchColumns(ctx context.Context, database, schemaName string) ([]schema.ColumnRow, error)
}

// Store is the part of the snapshot store a run needs.
type Store interface {
	LoadLatest(ctx context.Context) (*schema.Snapshot, string, error)
	Save(ctx context.Context, snap *schema.Snapshot) (string, error)
}

// Options controls a reconciliation run.
type Options struct {
	// SourceID is recorded on every snapshot, usually the warehouse user.
	SourceID string

	// Database is the catalog whose schemas are captured.
	Database string

	// Schemas lists the schemas to capture.
	Schemas []string

	// DryRun collects healing decisions without saving the healed snapshot.
	// The raw capture is still saved.
	DryRun bool
}

// Report describes what a run did.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	CapturedAt time.Time `json:"captured_at"`

	// PriorName is the snapshot the capture was compared with, empty on a first run.
	PriorName string `json:"prior_name,omitempty"`

	// RawLocation is where the raw capture was saved.
	RawLocation string `json:"raw_location"`

	// HealedLocation is where the healed snapshot was saved, empty when none was.
	HealedLocation string `json:"healed_location,omitempty"`

	Diff        *drift.Result                     `json:"diff"`
	Renamed     map[schema.FlatKey]schema.FlatKey `json:"renamed"`
	Ambiguities []drift.Ambiguity                 `json:"ambiguities,omitempty"`
	Decisions   []healing.Decision                `json:"decisions,omitempty"`
	Modified    []drift.Modification              `json:"modified,omitempty"`

	DryRun  bool    `json:"dry_run"`
	Summary Summary `json:"summary"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	Tables  int `json:"tables"`
	Columns int `json:"columns"`

	Added   int `json:"added"`
	Removed int `json:"removed"`
	Renamed int `json:"renamed"`

	Kept        int `json:"kept"`
	Discarded   int `json:"discarded"`
	Restored    int `json:"restored"`
	LeftAbsent  int `json:"left_absent"`
	Ambiguities int `json:"ambiguities"`

	// Modified counts attribute changes; Blocking counts those with BLOCK severity.
	Modified int `json:"modified"`
	Blocking int `json:"blocking"`
}

// Drift reports whether the run detected added or removed columns.
func (r *Report) Drift() bool {
	return r.Diff != nil && r.Diff.HasDrift()
}
