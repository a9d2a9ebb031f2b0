// Package snapshot persists schema snapshots.
//
// Each capture is one JSON document named
// "<YYYYMMDD_HHMMSS>_<microseconds>_snapshot.json", so lexicographic order
// and capture order agree. Documents are never rewritten; a healed snapshot
// is saved as a new, later entry.
//
// Two backends are available: LocalBackend (a flat directory, written via
// temp file and rename) and ObjectBackend (a MinIO/S3 bucket prefix).
package snapshot
