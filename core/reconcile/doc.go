// Package reconcile runs the snapshot, diff and heal cycle.
//
// One call to Engine.Run:
//
//  1. loads the latest stored snapshot (none on the first run),
//  2. fetches column metadata for every configured schema from the Source,
//  3. saves the capture,
//  4. diffs it against the prior snapshot,
//  5. on drift, matches renames and heals the remaining keys through a
//     healing.Decider,
//  6. saves the healed snapshot as a new entry if healing changed anything.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, inspector, drift.NewMatcher(cfg.Drift), decider, logger, reconcile.Options{
//	    SourceID: cfg.Warehouse.User,
//	    Database: cfg.Warehouse.Name,
//	    Schemas:  cfg.Warehouse.Schemas,
//	})
//	report, err := engine.Run(ctx)
//
// Past snapshots are never rewritten, so a failed run leaves the store with
// either nothing new or the raw capture as its latest entry.
package reconcile
