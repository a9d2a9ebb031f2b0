package healing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"schema-drift/core/schema"

	"gopkg.in/yaml.v3"
)

// ErrNoAnswer is returned by a strict Scripted decider for keys it has no answer for.
var ErrNoAnswer = errors.New("no scripted answer")

// Answers is the pre-recorded decision set, usually loaded from YAML:
//
//	added:
//	  PUBLIC.SALES.MSRP: discard
//	removed:
//	  PUBLIC.SALES.REGION: restore
//	default_added: keep
//	default_removed: leave-absent
type Answers struct {
	Added          map[schema.FlatKey]Action `yaml:"added"`
	Removed        map[schema.FlatKey]Action `yaml:"removed"`
	DefaultAdded   Action                    `yaml:"default_added"`
	DefaultRemoved Action                    `yaml:"default_removed"`
	// Strict makes keys without an entry and without a default an error.
	Strict bool `yaml:"strict"`
}

// LoadAnswers reads and validates an answers file.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse answers file %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answers file %s: %w", path, err)
	}
	return &a, nil
}

// Validate checks that every action fits the side it is listed under.
func (a *Answers) Validate() error {
	for k, v := range a.Added {
		if v != ActionKeep && v != ActionDiscard {
			return fmt.Errorf("added %s: action %q must be keep or discard", k, v)
		}
	}
	for k, v := range a.Removed {
		if v != ActionRestore && v != ActionLeaveAbsent {
			return fmt.Errorf("removed %s: action %q must be restore or leave-absent", k, v)
		}
	}
	if a.DefaultAdded != "" && a.DefaultAdded != ActionKeep && a.DefaultAdded != ActionDiscard {
		return fmt.Errorf("default_added %q must be keep or discard", a.DefaultAdded)
	}
	if a.DefaultRemoved != "" && a.DefaultRemoved != ActionRestore && a.DefaultRemoved != ActionLeaveAbsent {
		return fmt.Errorf("default_removed %q must be restore or leave-absent", a.DefaultRemoved)
	}
	return nil
}

// Scripted answers prompts from a fixed Answers set.
type Scripted struct {
	answers *Answers
}

// NewScripted returns a decider over answers.
func NewScripted(answers *Answers) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) added(key schema.FlatKey) (Action, error) {
	if a, ok := s.answers.Added[key]; ok {
		return a, nil
	}
	if s.answers.DefaultAdded != "" {
		return s.answers.DefaultAdded, nil
	}
	if s.answers.Strict {
		return "", fmt.Errorf("%w for added %s", ErrNoAnswer, key)
	}
	return ActionKeep, nil
}

func (s *Scripted) DiscardAdded(ctx context.Context, key schema.FlatKey, _ schema.Column) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	a, err := s.added(key)
	return a == ActionDiscard, err
}

func (s *Scripted) ConfirmDiscard(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	return s.DiscardAdded(ctx, key, col)
}

func (s *Scripted) RestoreRemoved(ctx context.Context, key schema.FlatKey, _ schema.Column) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a, ok := s.answers.Removed[key]; ok {
		return a == ActionRestore, nil
	}
	if s.answers.DefaultRemoved != "" {
		return s.answers.DefaultRemoved == ActionRestore, nil
	}
	if s.answers.Strict {
		return false, fmt.Errorf("%w for removed %s", ErrNoAnswer, key)
	}
	return false, nil
}
