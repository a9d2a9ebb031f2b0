package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrKeyCollision is returned when two columns map to the same flat key.
	ErrKeyCollision = errors.New("flat key collision")

	// ErrMalformedKey is returned when a key does not have exactly three non-empty segments.
	ErrMalformedKey = errors.New("malformed flat key")
)

// KeySeparator joins the schema, table and column segments of a FlatKey.
const KeySeparator = "."

// FlatKey identifies a column within a snapshot: "schema.table.column".
type FlatKey string

// FlatMap is the flat representation of a snapshot used for comparison.
type FlatMap map[FlatKey]Column

// NewFlatKey builds a key from its segments. Empty segments and segments
// containing the separator are rejected since they could not be split back.
func NewFlatKey(schemaName, table, column string) (FlatKey, error) {
	for _, seg := range []string{schemaName, table, column} {
		if seg == "" || strings.Contains(seg, KeySeparator) {
			return "", fmt.Errorf("%w: %q", ErrMalformedKey, schemaName+KeySeparator+table+KeySeparator+column)
		}
	}
	return FlatKey(schemaName + KeySeparator + table + KeySeparator + column), nil
}

// Split returns the schema, table and column segments of the key.
func (k FlatKey) Split() (schemaName, table, column string, err error) {
	parts := strings.Split(string(k), KeySeparator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q has %d segments", ErrMalformedKey, string(k), len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", fmt.Errorf("%w: %q has an empty segment", ErrMalformedKey, string(k))
		}
	}
	return parts[0], parts[1], parts[2], nil
}

// Column returns the bare column name, or the whole key if it is malformed.
func (k FlatKey) Column() string {
	if i := strings.LastIndex(string(k), KeySeparator); i >= 0 {
		return string(k)[i+1:]
	}
	return string(k)
}

// Table returns "schema.table" for the key.
func (k FlatKey) Table() string {
	if i := strings.LastIndex(string(k), KeySeparator); i >= 0 {
		return string(k)[:i]
	}
	return ""
}

// Keys returns the keys of the map in lexicographic order.
func (m FlatMap) Keys() []FlatKey {
	keys := make([]FlatKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a shallow copy of the map. Columns are values, so the copy
// can be edited without touching the original.
func (m FlatMap) Clone() FlatMap {
	out := make(FlatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Flatten walks schemas -> tables -> columns and emits one entry per column.
func Flatten(s *Snapshot) (FlatMap, error) {
	flat := make(FlatMap, s.ColumnCount())
	for schemaName, tables := range s.Schemas {
		for tableName, cols := range tables {
			for _, col := range cols {
				key, err := NewFlatKey(schemaName, tableName, col.Name)
				if err != nil {
					return nil, err
				}
				if _, dup := flat[key]; dup {
					return nil, collisionError(key)
				}
				flat[key] = col
			}
		}
	}
	return flat, nil
}

// Unflatten rebuilds a nested snapshot from a flat map. Column order inside
// each table is derived from the carried ordinal, then from the name.
func Unflatten(flat FlatMap, sourceID, database string, capturedAt time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		SourceID:   sourceID,
		CapturedAt: capturedAt,
		Database:   database,
		Schemas:    make(map[string]map[string]Table),
	}

	for key, col := range flat {
		schemaName, table, column, err := key.Split()
		if err != nil {
			return nil, err
		}
		if col.Name != column {
			return nil, fmt.Errorf("%w: %q holds column %q", ErrMalformedKey, string(key), col.Name)
		}
		tables, ok := snap.Schemas[schemaName]
		if !ok {
			tables = make(map[string]Table)
			snap.Schemas[schemaName] = tables
		}
		tables[table] = append(tables[table], col)
	}

	for _, tables := range snap.Schemas {
		for name, cols := range tables {
			sortColumns(cols)
			tables[name] = cols
		}
	}

	return snap, nil
}

func collisionError(key FlatKey) error {
	return fmt.Errorf("%w: %q (table %s)", ErrKeyCollision, string(key), key.Table())
}
