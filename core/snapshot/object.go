package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"schema-drift/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectBackend keeps snapshots as objects under a bucket prefix.
type ObjectBackend struct {
	client  storage.Client
	bucket  string
	region  string
	prefix  string
	ensured bool
}

// NewObjectBackend returns a backend writing to bucket/prefix. The bucket is
// created on the first write if it is missing.
func NewObjectBackend(client storage.Client, bucket, region, prefix string) *ObjectBackend {
	return &ObjectBackend{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (b *ObjectBackend) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

// Write uploads the whole document in one PutObject; S3 never exposes a
// partial object.
func (b *ObjectBackend) Write(ctx context.Context, name string, data []byte) (string, error) {
	if !b.ensured {
		if err := storage.EnsureBucket(ctx, b.client, b.bucket, b.region); err != nil {
			return "", err
		}
		b.ensured = true
	}

	key := b.key(name)
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", b.bucket, key), nil
}

func (b *ObjectBackend) Read(ctx context.Context, name string) ([]byte, error) {
	key := b.key(name)
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.readError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.readError(key, err)
	}
	return data, nil
}

func (b *ObjectBackend) readError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, key)
	}
	return fmt.Errorf("failed to download %s: %w", key, err)
}

func (b *ObjectBackend) List(ctx context.Context) ([]string, error) {
	opts := minio.ListObjectsOptions{Recursive: false}
	if b.prefix != "" {
		opts.Prefix = b.prefix + "/"
	}

	var names []string
	for obj := range b.client.ListObjects(ctx, b.bucket, opts) {
		if obj.Err != nil {
			if minio.ToErrorResponse(obj.Err).Code == "NoSuchBucket" {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list %s/%s: %w", b.bucket, b.prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, opts.Prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
