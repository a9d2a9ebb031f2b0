package pipeline

import (
	"context"
	"fmt"

	"schema-drift/core/utils"

	"gorm.io/gorm"
)

// Extract reads every row of table. NULL values become empty strings.
func Extract(ctx context.Context, db *gorm.DB, table string) (*Dataset, error) {
	rows, err := db.WithContext(ctx).Table(table).Select("*").Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	ds := &Dataset{Header: header}
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				record[i] = utils.ToString(v)
			}
		}
		ds.Records = append(ds.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return ds, nil
}
