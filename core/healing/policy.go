package healing

import (
	"context"
	"fmt"

	"schema-drift/core/schema"
)

// Policy answers every prompt the same way. It is used for unattended runs.
type Policy struct {
	Name    string
	Discard bool
	Restore bool
}

var (
	// Accept keeps additions and leaves removals absent.
	Accept = Policy{Name: "accept"}
	// Revert discards additions and restores removals.
	Revert = Policy{Name: "revert", Discard: true, Restore: true}
	// Preserve keeps additions and restores removals, so no column is lost.
	Preserve = Policy{Name: "preserve", Restore: true}
)

// ParsePolicy returns the named policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", Accept.Name:
		return Accept, nil
	case Revert.Name:
		return Revert, nil
	case Preserve.Name:
		return Preserve, nil
	default:
		return Policy{}, fmt.Errorf("unknown healing policy %q (want accept, revert or preserve)", name)
	}
}

func (p Policy) DiscardAdded(ctx context.Context, _ schema.FlatKey, _ schema.Column) (bool, error) {
	return p.Discard, ctx.Err()
}

func (p Policy) ConfirmDiscard(ctx context.Context, _ schema.FlatKey, _ schema.Column) (bool, error) {
	return p.Discard, ctx.Err()
}

func (p Policy) RestoreRemoved(ctx context.Context, _ schema.FlatKey, _ schema.Column) (bool, error) {
	return p.Restore, ctx.Err()
}
