package reconcile

import (
	"schema-drift/core/drift"
	"schema-drift/core/healing"
	"schema-drift/core/schema"
)

// buildSummary counts the findings and decisions of a run.
func buildSummary(current *schema.Snapshot, res *drift.Result, ambiguities []drift.Ambiguity, decisions []healing.Decision) Summary {
	s := Summary{
		Tables:      current.TableCount(),
		Columns:     current.ColumnCount(),
		Ambiguities: len(ambiguities),
	}
	if res.FirstRun {
		return s
	}

	s.Added = len(res.Added)
	s.Removed = len(res.Removed)
	s.Renamed = len(res.Renamed)
	s.Modified = len(res.Modified)
	for _, m := range res.Modified {
		if m.Severity == drift.SeverityBlock {
			s.Blocking++
		}
	}

	for _, d := range decisions {
		switch d.Action {
		case healing.ActionKeep:
			s.Kept++
		case healing.ActionDiscard:
			s.Discarded++
		case healing.ActionRestore:
			s.Restored++
		case healing.ActionLeaveAbsent:
			s.LeftAbsent++
		}
	}
	return s
}
