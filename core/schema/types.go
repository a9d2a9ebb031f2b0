package schema

import (
	"sort"
	"time"
)

// Column describes a single column as captured from the metadata source.
// A Column is a value: once captured it is never modified in place.
type Column struct {
	// Name is the bare column name (e.g. "CONTACTLASTNAME").
	Name string `json:"name"`

	// DataType is the declared type as reported by the source (e.g. "TEXT").
	DataType string `json:"data_type"`

	// Nullable reports whether the column accepts NULL.
	Nullable bool `json:"nullable"`

	// Default is the column default expression, nil when the column has none.
	Default *string `json:"default"`

	// Ordinal is the 1-based position of the column inside its table.
	// Nil when the source did not report a position.
	Ordinal *int `json:"ordinal,omitempty"`
}

// Table is the ordered column list of one table.
type Table []Column

// Snapshot is a point-in-time capture of every column of every table of the
// configured schemas of one database.
type Snapshot struct {
	// SourceID identifies who or what captured the snapshot (usually the warehouse user).
	SourceID string `json:"source_id"`

	// CapturedAt is the timestamp of the run that produced this snapshot.
	CapturedAt time.Time `json:"captured_at"`

	// Database is the database (catalog) name.
	Database string `json:"database"`

	// Schemas maps schema name -> table name -> ordered columns.
	Schemas map[string]map[string]Table `json:"schemas"`
}

// ColumnRow is one raw metadata row as returned by a metadata source.
type ColumnRow struct {
	Table    string
	Column   string
	DataType string
	Ordinal  *int
	Nullable bool
	Default  *string
}

// TableCount returns the number of tables across all schemas.
func (s *Snapshot) TableCount() int {
	n := 0
	for _, tables := range s.Schemas {
		n += len(tables)
	}
	return n
}

// ColumnCount returns the number of columns across all tables.
func (s *Snapshot) ColumnCount() int {
	n := 0
	for _, tables := range s.Schemas {
		for _, cols := range tables {
			n += len(cols)
		}
	}
	return n
}

// FromRows builds a snapshot from raw metadata rows grouped by schema name.
// Columns are ordered by ordinal position. A duplicated
// (schema, table, column) triple fails with ErrKeyCollision.
func FromRows(sourceID, database string, capturedAt time.Time, rows map[string][]ColumnRow) (*Snapshot, error) {
	snap := &Snapshot{
		SourceID:   sourceID,
		CapturedAt: capturedAt,
		Database:   database,
		Schemas:    make(map[string]map[string]Table, len(rows)),
	}

	seen := make(map[FlatKey]struct{})
	for schemaName, schemaRows := range rows {
		tables := make(map[string]Table)
		for _, row := range schemaRows {
			key, err := NewFlatKey(schemaName, row.Table, row.Column)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[key]; dup {
				return nil, collisionError(key)
			}
			seen[key] = struct{}{}

			tables[row.Table] = append(tables[row.Table], Column{
				Name:     row.Column,
				DataType: row.DataType,
				Nullable: row.Nullable,
				Default:  row.Default,
				Ordinal:  row.Ordinal,
			})
		}
		for name, cols := range tables {
			sortColumns(cols)
			tables[name] = cols
		}
		snap.Schemas[schemaName] = tables
	}

	return snap, nil
}

// sortColumns orders columns by ordinal; columns without an ordinal go last,
// ordered by name.
func sortColumns(cols Table) {
	sort.SliceStable(cols, func(i, j int) bool {
		a, b := cols[i].Ordinal, cols[j].Ordinal
		switch {
		case a != nil && b != nil:
			if *a != *b {
				return *a < *b
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return cols[i].Name < cols[j].Name
	})
}
