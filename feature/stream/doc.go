// Package stream simulates and consumes the sales record stream.
//
// The Generator appends one JSON object per line to a file, occasionally
// writing nulls and malformed values. The Ingester tails that file, checks
// each record with Validate and appends the valid ones to a CSV file.
package stream
