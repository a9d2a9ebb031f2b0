package database

import (
	"context"
	"fmt"
	"strings"

	"schema-drift/core/schema"

	"gorm.io/gorm"
)

// Inspector reads column metadata from the warehouse catalog.
type Inspector struct {
	db *gorm.DB
}

// NewInspector returns an inspector over db.
func NewInspector(db *gorm.DB) *Inspector {
	return &Inspector{db: db}
}

// infoSchemaColumn is one row of INFORMATION_SCHEMA.COLUMNS.
type infoSchemaColumn struct {
	TableName       string  `gorm:"column:table_name"`
	ColumnName      string  `gorm:"column:column_name"`
	DataType        string  `gorm:"column:data_type"`
	OrdinalPosition int     `gorm:"column:ordinal_position"`
	IsNullable      string  `gorm:"column:is_nullable"`
	ColumnDefault   *string `gorm:"column:column_default"`
}

// sqliteColumn is one row of PRAGMA table_info.
type sqliteColumn struct {
	Cid       int     `gorm:"column:cid"`
	Name      string  `gorm:"column:name"`
	Type      string  `gorm:"column:type"`
	NotNull   int     `gorm:"column:notnull"`
	DfltValue *string `gorm:"column:dflt_value"`
	Pk        int     `gorm:"column:pk"`
}

const infoSchemaQuery = `SELECT table_name AS table_name, column_name AS column_name, data_type AS data_type,
ordinal_position AS ordinal_position, is_nullable AS is_nullable, column_default AS column_default
FROM information_schema.columns
WHERE table_schema = ?`

// FetchColumns returns every column of every table in schemaName, ordered
// by table then ordinal position. For sqlite the schema name is ignored
// since a database file has a single schema.
func (i *Inspector) FetchColumns(ctx context.Context, database, schemaName string) ([]schema.ColumnRow, error) {
	db := i.db.WithContext(ctx)

	if db.Dialector.Name() == DriverSQLite {
		return fetchSQLite(db)
	}

	query := infoSchemaQuery
	args := []any{schemaName}
	if db.Dialector.Name() == DriverPostgres && database != "" {
		query += " AND table_catalog = ?"
		args = append(args, database)
	}
	query += " ORDER BY table_name, ordinal_position"

	var cols []infoSchemaColumn
	if err := db.Raw(query, args...).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("failed to read columns of schema %s: %w", schemaName, err)
	}

	rows := make([]schema.ColumnRow, 0, len(cols))
	for _, c := range cols {
		pos := c.OrdinalPosition
		rows = append(rows, schema.ColumnRow{
			Table:    c.TableName,
			Column:   c.ColumnName,
			DataType: strings.ToUpper(c.DataType),
			Ordinal:  &pos,
			Nullable: strings.EqualFold(c.IsNullable, "YES"),
			Default:  c.ColumnDefault,
		})
	}
	return rows, nil
}

func fetchSQLite(db *gorm.DB) ([]schema.ColumnRow, error) {
	var tables []string
	err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var rows []schema.ColumnRow
	for _, table := range tables {
		var cols []sqliteColumn
		quoted := strings.ReplaceAll(table, "'", "''")
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", quoted)).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
		}
		for _, c := range cols {
			pos := c.Cid + 1
			rows = append(rows, schema.ColumnRow{
				Table:    table,
				Column:   c.Name,
				DataType: strings.ToUpper(c.Type),
				Ordinal:  &pos,
				Nullable: c.NotNull == 0 && c.Pk == 0,
				Default:  c.DfltValue,
			})
		}
	}
	return rows, nil
}
