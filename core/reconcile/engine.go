package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"schema-drift/core/drift"
	"schema-drift/core/healing"
	"schema-drift/core/schema"
	"schema-drift/core/snapshot"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine runs one capture, compare and heal cycle per call to Run.
type Engine struct {
	store   Store
	source  Source
	matcher *drift.Matcher
	decider healing.Decider
	logger  *zap.Logger
	opts    Options

	// Now stamps the capture. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine wires an engine. A nil logger disables logging.
func NewEngine(store Store, source Source, matcher *drift.Matcher, decider healing.Decider, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		source:  source,
		matcher: matcher,
		decider: decider,
		logger:  logger,
		opts:    opts,
		Now:     time.Now,
	}
}

// Run loads the latest snapshot, captures the current schema, saves it,
// compares the two and, on drift, matches renames and heals the rest. A
// healed snapshot is saved as a second, later entry when healing changed
// anything.
//
// Source failures abort before anything is written. Failures after the raw
// save leave the raw capture as the latest snapshot.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if len(e.opts.Schemas) == 0 {
		return nil, errors.New("no schemas configured")
	}

	runID := uuid.New().String()
	log := e.logger.With(zap.String("run_id", runID), zap.String("database", e.opts.Database))

	prior, priorName, err := e.store.LoadLatest(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		prior = nil
		log.Info("No prior snapshot, this run is a bootstrap")
	case err != nil:
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	default:
		log.Debug("Loaded prior snapshot", zap.String("name", priorName))
	}

	capturedAt := e.Now().UTC()
	rows := make(map[string][]schema.ColumnRow, len(e.opts.Schemas))
	for _, name := range e.opts.Schemas {
		schemaRows, err := e.source.FetchColumns(ctx, e.opts.Database, name)
		if err != nil {
			return nil, fmt.Errorf("%w: schema %s: %w", ErrSourceUnavailable, name, err)
		}
		rows[name] = schemaRows
	}

	current, err := schema.FromRows(e.opts.SourceID, e.opts.Database, capturedAt, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	report := &Report{
		RunID:      runID,
		CapturedAt: capturedAt,
		PriorName:  priorName,
		DryRun:     e.opts.DryRun,
		Renamed:    map[schema.FlatKey]schema.FlatKey{},
	}

	report.RawLocation, err = e.store.Save(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	log.Info("Snapshot captured",
		zap.String("location", report.RawLocation),
		zap.Int("tables", current.TableCount()),
		zap.Int("columns", current.ColumnCount()))

	res, err := drift.Diff(prior, current)
	if err != nil {
		return nil, fmt.Errorf("failed to diff snapshots: %w", err)
	}
	report.Diff = res
	report.Modified = res.Modified
	for _, m := range res.Modified {
		log.Warn("Column attribute changed",
			zap.String("key", string(m.Key)),
			zap.String("kind", m.Kind),
			zap.String("severity", m.Severity),
			zap.String("message", m.Message))
	}

	if !res.HasDrift() {
		if !res.FirstRun {
			log.Info("No drift detected")
		}
		report.Summary = buildSummary(current, res, nil, nil)
		return report, nil
	}

	log.Warn("Schema drift detected", zap.Int("added", len(res.Added)), zap.Int("removed", len(res.Removed)))

	renamed, ambiguities := e.matcher.Match(res)
	res = res.WithRenamed(renamed)
	report.Diff = res
	report.Renamed = res.Renamed
	report.Ambiguities = ambiguities
	for _, from := range res.RenamedKeys() {
		log.Info("Rename detected", zap.String("from", string(from)), zap.String("to", string(res.Renamed[from])))
	}
	for _, a := range ambiguities {
		log.Warn("Ambiguous rename, picked by tie rule",
			zap.String("from", string(a.Chosen.Removed)),
			zap.String("to", string(a.Chosen.Added)),
			zap.Float64("score", a.Chosen.Score),
			zap.Int("rivals", len(a.Rivals)))
	}

	outcome, err := healing.Heal(ctx, res, res.Prior, res.Current, e.decider)
	if err != nil {
		return nil, err
	}
	report.Decisions = outcome.Decisions
	for _, d := range outcome.Decisions {
		log.Info("Healing decision", zap.String("key", string(d.Key)), zap.String("action", string(d.Action)))
	}
	report.Summary = buildSummary(current, res, ambiguities, outcome.Decisions)

	if !outcome.Changed {
		return report, nil
	}
	if e.opts.DryRun {
		log.Info("Dry run, healed snapshot not saved")
		return report, nil
	}

	healed, err := schema.Unflatten(outcome.Healed, e.opts.SourceID, e.opts.Database, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild healed snapshot: %w", err)
	}
	report.HealedLocation, err = e.store.Save(ctx, healed)
	if err != nil {
		return nil, fmt.Errorf("failed to save healed snapshot: %w", err)
	}
	log.Info("Healed snapshot saved", zap.String("location", report.HealedLocation))

	return report, nil
}
