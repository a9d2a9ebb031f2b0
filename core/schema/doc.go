// Package schema holds the column-level schema model and the flattening codec.
//
// A Snapshot nests columns as schema -> table -> ordered columns. Comparison
// happens on the flat form instead, where every column is addressed by a
// FlatKey of the form "schema.table.column":
//
//	flat, err := schema.Flatten(snap)
//	back, err := schema.Unflatten(flat, snap.SourceID, snap.Database, snap.CapturedAt)
//
// Flatten fails with ErrKeyCollision on duplicate keys and with ErrMalformedKey
// on names that could not be split back into three segments. Unflatten fails
// with ErrMalformedKey on keys that do not split into exactly three non-empty
// segments.
package schema
