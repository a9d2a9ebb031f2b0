// Package storage wraps the MinIO Go client behind a small Client interface.
//
// It is used by the object snapshot backend to keep snapshots in an S3
// compatible bucket instead of a local directory. The interface exists so
// tests can substitute the testify mock in core/storage/mocks.
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
