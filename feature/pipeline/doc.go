// Package pipeline is the batch CSV ETL over the sales table.
//
// Extract dumps the source table to data/raw, Transform drops the address
// columns that are not used downstream, renames the rest to snake_case and
// normalizes order dates, and Load writes the result to data/processed.
package pipeline
