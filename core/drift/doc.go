// Package drift compares schema snapshots and infers column renames.
//
// Diff works on flat keys only: a key present in the current snapshot but not
// the prior one is added, the reverse is removed. Attribute changes on keys
// present in both are listed as Modifications with a severity, but only
// added or removed keys count as drift.
//
// Matcher pairs removed keys with added keys whose bare column names are
// similar (difflib ratio strictly above the threshold) and whose data types
// are identical. Assignment is greedy and one-to-one:
//
//	res, _ := drift.Diff(prior, current)
//	renamed, ambiguities := drift.NewMatcher(cfg.Drift).Match(res)
//	res = res.WithRenamed(renamed)
package drift
