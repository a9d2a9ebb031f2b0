package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"schema-drift/core/schema"

	"go.uber.org/zap"
)

var (
	// ErrNoSnapshot is returned when no snapshot has been persisted yet.
	ErrNoSnapshot = errors.New("no snapshot found")

	// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrInvalidName is returned for names that are not snapshot file names.
	ErrInvalidName = errors.New("invalid snapshot name")
)

const (
	nameLayout = "20060102_150405"
	nameSuffix = "_snapshot.json"
)

var namePattern = regexp.MustCompile(`^(\d{8}_\d{6})_(\d{6})_snapshot\.json$`)

// Entry describes one stored snapshot.
type Entry struct {
	Name       string    `json:"name"`
	CapturedAt time.Time `json:"captured_at"`
}

// Store persists snapshots as immutable, time ordered documents.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// NewStore returns a store over backend. A nil logger disables logging.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// FileName returns the snapshot name for a capture time. Names sort
// lexicographically in capture order down to the microsecond.
func FileName(ts time.Time) string {
	ts = ts.UTC()
	return ts.Format(nameLayout) + fmt.Sprintf("_%06d", ts.Nanosecond()/1000) + nameSuffix
}

// ParseName extracts the capture time encoded in a snapshot name.
func ParseName(name string) (time.Time, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	ts, err := time.ParseInLocation(nameLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	micros, _ := strconv.Atoi(m[2])
	return ts.Add(time.Duration(micros) * time.Microsecond), nil
}

// Save writes snap under a fresh name derived from its capture time and
// returns the backend location. If that name does not sort after the latest
// stored one, it is moved one microsecond past the latest.
func (s *Store) Save(ctx context.Context, snap *schema.Snapshot) (string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return "", err
	}

	ts := snap.CapturedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	name := FileName(ts)
	if n := len(entries); n > 0 && name <= entries[n-1].Name {
		name = FileName(entries[n-1].CapturedAt.Add(time.Microsecond))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	location, err := s.backend.Write(ctx, name, data)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Snapshot saved",
		zap.String("name", name),
		zap.String("location", location),
		zap.Int("tables", snap.TableCount()),
		zap.Int("columns", snap.ColumnCount()))
	return location, nil
}

// List returns stored snapshots in capture order. Unrelated files are ignored.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	names, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		ts, err := ParseName(name)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: name, CapturedAt: ts})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// LoadLatest returns the most recent snapshot, ErrNoSnapshot when none is
// stored, or ErrCorruptSnapshot when the most recent one cannot be decoded.
func (s *Store) LoadLatest(ctx context.Context) (*schema.Snapshot, string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrNoSnapshot
	}
	name := entries[len(entries)-1].Name
	snap, err := s.Load(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return snap, name, nil
}

// Load reads and decodes the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (*schema.Snapshot, error) {
	if _, err := ParseName(name); err != nil {
		return nil, err
	}

	data, err := s.backend.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	var snap schema.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, name, err)
	}
	if snap.Schemas == nil {
		return nil, fmt.Errorf("%w: %s: missing schemas", ErrCorruptSnapshot, name)
	}
	if _, err := schema.Flatten(&snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, name, err)
	}
	return &snap, nil
}
