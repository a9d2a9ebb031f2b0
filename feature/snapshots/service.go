package snapshots

import (
	"context"
	"errors"
	"sync"
	"time"

	"schema-drift/core/drift"
	"schema-drift/core/schema"
	"schema-drift/core/snapshot"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotEnoughSnapshots is returned when a drift report needs two snapshots
// and fewer are stored.
var ErrNotEnoughSnapshots = errors.New("at least two snapshots are required")

// DriftReport compares two stored snapshots.
type DriftReport struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Diff        *drift.Result     `json:"diff"`
	Suggested   []drift.Candidate `json:"suggested_renames"`
	Ambiguities []drift.Ambiguity `json:"ambiguities"`
	HasDrift    bool              `json:"has_drift"`
}

type cacheEntry struct {
	value any
	built time.Time
}

// Service serves stored snapshots, caching reads for a short TTL.
type Service struct {
	store   *snapshot.Store
	matcher *drift.Matcher
	ttl     time.Duration
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
	sf    singleflight.Group
}

// NewService creates a new snapshots service. A zero ttl disables caching.
func NewService(store *snapshot.Store, matcher *drift.Matcher, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		matcher: matcher,
		ttl:     ttl,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

// List returns the stored snapshots in capture order.
func (s *Service) List(ctx context.Context) ([]snapshot.Entry, error) {
	v, err := s.cached("list", func() (any, error) {
		return s.store.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]snapshot.Entry), nil
}

// Get returns the snapshot stored under name.
func (s *Service) Get(ctx context.Context, name string) (*schema.Snapshot, error) {
	v, err := s.cached("snapshot:"+name, func() (any, error) {
		return s.store.Load(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Snapshot), nil
}

// Latest returns the most recent snapshot and its name.
func (s *Service) Latest(ctx context.Context) (*schema.Snapshot, string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", snapshot.ErrNoSnapshot
	}
	name := entries[len(entries)-1].Name
	snap, err := s.Get(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return snap, name, nil
}

// Drift diffs two stored snapshots and suggests renames without applying
// them. Empty names default to the second newest and newest snapshots.
func (s *Service) Drift(ctx context.Context, from, to string) (*DriftReport, error) {
	if from == "" || to == "" {
		entries, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(entries) < 2 {
			return nil, ErrNotEnoughSnapshots
		}
		if to == "" {
			to = entries[len(entries)-1].Name
		}
		if from == "" {
			from = entries[len(entries)-2].Name
		}
	}

	prior, err := s.Get(ctx, from)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, to)
	if err != nil {
		return nil, err
	}

	res, err := drift.Diff(prior, current)
	if err != nil {
		return nil, err
	}
	candidates := s.matcher.Candidates(res)
	renamed, ambiguities := s.matcher.Match(res)
	res = res.WithRenamed(renamed)

	suggested := make([]drift.Candidate, 0, len(renamed))
	for _, c := range candidates {
		if added, ok := renamed[c.Removed]; ok && added == c.Added {
			suggested = append(suggested, c)
		}
	}

	return &DriftReport{
		From:        from,
		To:          to,
		Diff:        res,
		Suggested:   suggested,
		Ambiguities: ambiguities,
		HasDrift:    res.HasDrift(),
	}, nil
}

// cached returns the value under key, building it at most once per TTL even
// under concurrent requests.
func (s *Service) cached(key string, build func() (any, error)) (any, error) {
	if s.ttl > 0 {
		s.mu.RLock()
		entry, ok := s.cache[key]
		s.mu.RUnlock()
		if ok && time.Since(entry.built) <= s.ttl {
			return entry.value, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		value, err := build()
		if err != nil {
			return nil, err
		}
		if s.ttl > 0 {
			s.mu.Lock()
			s.cache[key] = cacheEntry{value: value, built: time.Now()}
			s.mu.Unlock()
		}
		return value, nil
	})
	return v, err
}
