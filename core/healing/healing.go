package healing

import (
	"context"
	"fmt"

	"schema-drift/core/drift"
	"schema-drift/core/schema"
)

// Action is the resolution applied to one unmatched key.
type Action string

const (
	// ActionKeep accepts an added column.
	ActionKeep Action = "keep"
	// ActionDiscard drops an added column from the healed snapshot.
	ActionDiscard Action = "discard"
	// ActionRestore puts a removed column back from the prior snapshot.
	ActionRestore Action = "restore"
	// ActionLeaveAbsent accepts the removal of a column.
	ActionLeaveAbsent Action = "leave-absent"
)

// Decision records how one unmatched key was resolved.
type Decision struct {
	Key    schema.FlatKey `json:"key"`
	Action Action         `json:"action"`
}

// Decider answers the healing prompts. Each method receives the key and its
// descriptor (current for added keys, prior for removed keys). An error
// aborts healing.
type Decider interface {
	// DiscardAdded asks whether an unmatched added column should be discarded.
	DiscardAdded(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error)
	// ConfirmDiscard asks for confirmation after DiscardAdded said yes.
	ConfirmDiscard(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error)
	// RestoreRemoved asks whether an unmatched removed column should be restored.
	RestoreRemoved(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error)
}

// Outcome is the result of a healing pass.
type Outcome struct {
	// Healed is the corrected flat map.
	Healed schema.FlatMap
	// Decisions lists one entry per unmatched key, added keys first.
	Decisions []Decision
	// Changed is true when at least one column was discarded or restored.
	Changed bool
}

// Heal resolves unmatched added and removed keys of res through decider.
// Renamed pairs are accepted as they are. Neither input map is modified.
// Without a prior snapshot or without drift the current map is returned
// unchanged and decider is never called.
func Heal(ctx context.Context, res *drift.Result, prior, current schema.FlatMap, decider Decider) (*Outcome, error) {
	out := &Outcome{Healed: current.Clone()}
	if !res.HasDrift() {
		return out, nil
	}

	for _, key := range res.UnmatchedAdded() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col := current[key]

		discard, err := decider.DiscardAdded(ctx, key, col)
		if err != nil {
			return nil, fmt.Errorf("healing aborted at %s: %w", key, err)
		}
		if discard {
			discard, err = decider.ConfirmDiscard(ctx, key, col)
			if err != nil {
				return nil, fmt.Errorf("healing aborted at %s: %w", key, err)
			}
		}

		if discard {
			delete(out.Healed, key)
			out.Changed = true
			out.Decisions = append(out.Decisions, Decision{Key: key, Action: ActionDiscard})
		} else {
			out.Decisions = append(out.Decisions, Decision{Key: key, Action: ActionKeep})
		}
	}

	for _, key := range res.UnmatchedRemoved() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col, ok := prior[key]
		if !ok {
			return nil, fmt.Errorf("healing aborted: removed key %s missing from prior snapshot", key)
		}

		restore, err := decider.RestoreRemoved(ctx, key, col)
		if err != nil {
			return nil, fmt.Errorf("healing aborted at %s: %w", key, err)
		}

		if restore {
			out.Healed[key] = col
			out.Changed = true
			out.Decisions = append(out.Decisions, Decision{Key: key, Action: ActionRestore})
		} else {
			out.Decisions = append(out.Decisions, Decision{Key: key, Action: ActionLeaveAbsent})
		}
	}

	return out, nil
}
