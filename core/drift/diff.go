package drift

import (
	"sort"

	"schema-drift/core/schema"
)

// Modification is an attribute change on a column present in both snapshots.
// Modifications are reported only; they never count as drift.
type Modification struct {
	Key      schema.FlatKey `json:"key"`
	Kind     string         `json:"kind"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
}

// Result is the key-level comparison of two snapshots.
type Result struct {
	// Added, Removed and Common are sorted key sets.
	Added   []schema.FlatKey `json:"added"`
	Removed []schema.FlatKey `json:"removed"`
	Common  []schema.FlatKey `json:"common"`

	// Renamed pairs a removed key with the added key it was renamed to.
	Renamed map[schema.FlatKey]schema.FlatKey `json:"renamed"`

	Modified []Modification `json:"modified,omitempty"`

	// FirstRun is set when there was no prior snapshot.
	FirstRun bool `json:"first_run"`

	Prior   schema.FlatMap `json:"-"`
	Current schema.FlatMap `json:"-"`
}

// Diff compares two snapshots by flat key. A nil prior yields a first-run
// result where every current key is added.
func Diff(prior, current *schema.Snapshot) (*Result, error) {
	cur, err := schema.Flatten(current)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return DiffFlat(nil, cur), nil
	}
	prev, err := schema.Flatten(prior)
	if err != nil {
		return nil, err
	}
	return DiffFlat(prev, cur), nil
}

// DiffFlat compares two flat maps. A nil prior marks a first run.
func DiffFlat(prior, current schema.FlatMap) *Result {
	res := &Result{
		Added:    []schema.FlatKey{},
		Removed:  []schema.FlatKey{},
		Common:   []schema.FlatKey{},
		Renamed:  map[schema.FlatKey]schema.FlatKey{},
		FirstRun: prior == nil,
		Prior:    prior,
		Current:  current,
	}

	for _, key := range current.Keys() {
		if _, ok := prior[key]; ok {
			res.Common = append(res.Common, key)
		} else {
			res.Added = append(res.Added, key)
		}
	}
	for _, key := range prior.Keys() {
		if _, ok := current[key]; !ok {
			res.Removed = append(res.Removed, key)
		}
	}

	if !res.FirstRun {
		for _, key := range res.Common {
			res.Modified = append(res.Modified, compareColumns(key, prior[key], current[key])...)
		}
	}
	return res
}

// HasDrift reports whether keys were added or removed since a prior snapshot.
func (r *Result) HasDrift() bool {
	return !r.FirstRun && (len(r.Added) > 0 || len(r.Removed) > 0)
}

// WithRenamed returns a copy of the result carrying the given rename pairs.
func (r *Result) WithRenamed(renamed map[schema.FlatKey]schema.FlatKey) *Result {
	out := *r
	out.Renamed = make(map[schema.FlatKey]schema.FlatKey, len(renamed))
	for k, v := range renamed {
		out.Renamed[k] = v
	}
	return &out
}

// UnmatchedAdded returns the sorted added keys that are not a rename target.
func (r *Result) UnmatchedAdded() []schema.FlatKey {
	targets := make(map[schema.FlatKey]struct{}, len(r.Renamed))
	for _, a := range r.Renamed {
		targets[a] = struct{}{}
	}
	out := make([]schema.FlatKey, 0, len(r.Added))
	for _, k := range r.Added {
		if _, ok := targets[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// UnmatchedRemoved returns the sorted removed keys that are not a rename source.
func (r *Result) UnmatchedRemoved() []schema.FlatKey {
	out := make([]schema.FlatKey, 0, len(r.Removed))
	for _, k := range r.Removed {
		if _, ok := r.Renamed[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// RenamedKeys returns the rename sources in sorted order.
func (r *Result) RenamedKeys() []schema.FlatKey {
	keys := make([]schema.FlatKey, 0, len(r.Renamed))
	for k := range r.Renamed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func compareColumns(key schema.FlatKey, before, after schema.Column) []Modification {
	var mods []Modification
	add := func(kind, from, to string) {
		mods = append(mods, Modification{
			Key:      key,
			Kind:     kind,
			From:     from,
			To:       to,
			Severity: SeverityForChange(kind),
			Message:  MessageForChange(kind, from, to),
		})
	}

	if before.DataType != after.DataType {
		add(ChangeTypeChanged, before.DataType, after.DataType)
	}
	switch {
	case before.Nullable && !after.Nullable:
		add(ChangeNullableToNotNull, "NULL", "NOT NULL")
	case !before.Nullable && after.Nullable:
		add(ChangeNotNullToNullable, "NOT NULL", "NULL")
	}
	if from, to := defaultString(before.Default), defaultString(after.Default); from != to {
		add(ChangeDefaultChanged, from, to)
	}
	return mods
}

func defaultString(d *string) string {
	if d == nil {
		return "<none>"
	}
	return *d
}
