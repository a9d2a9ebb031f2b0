package snapshot_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"schema-drift/core/snapshot"
	"schema-drift/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestObjectBackend_Save(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "snaps", minio.ListObjectsOptions{Prefix: "prod/"}).
		Return(listing("prod/20260101_000000_000000_snapshot.json", "prod/readme.md"))
	client.On("BucketExists", mock.Anything, "snaps").Return(true, nil)
	client.On("PutObject", mock.Anything, "snaps", "prod/20260102_000000_000000_snapshot.json",
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	store := snapshot.NewStore(snapshot.NewObjectBackend(client, "snaps", "", "/prod/"), nil)
	loc, err := store.Save(ctx, newSnap(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "ID"))
	require.NoError(t, err)
	assert.Equal(t, "s3://snaps/prod/20260102_000000_000000_snapshot.json", loc)
	client.AssertExpectations(t)
}

func TestObjectBackend_LoadLatest(t *testing.T) {
	ctx := context.Background()
	data, err := json.Marshal(newSnap(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "ID", "NAME"))
	require.NoError(t, err)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "snaps", mock.Anything).
		Return(listing(
			"prod/20260102_000000_000000_snapshot.json",
			"prod/20260101_000000_000000_snapshot.json",
		))
	client.On("GetObject", mock.Anything, "snaps", "prod/20260102_000000_000000_snapshot.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(data)), nil)

	store := snapshot.NewStore(snapshot.NewObjectBackend(client, "snaps", "", "prod"), nil)
	snap, name, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260102_000000_000000_snapshot.json", name)
	assert.Equal(t, 2, snap.ColumnCount())
}

func TestObjectBackend_Empty(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "snaps", mock.Anything).Return(listing())

	store := snapshot.NewStore(snapshot.NewObjectBackend(client, "snaps", "", ""), nil)
	_, _, err := store.LoadLatest(context.Background())
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
}
