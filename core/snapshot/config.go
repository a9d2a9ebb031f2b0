package snapshot

import (
	"fmt"

	"schema-drift/core/storage"
)

// Backend kinds accepted by Config.Backend.
const (
	BackendLocal  = "local"
	BackendObject = "object"
)

// Config selects where snapshots are kept.
type Config struct {
	// Backend is either "local" (a flat directory) or "object" (a bucket prefix).
	Backend string `mapstructure:"backend" default:"local"`
	// Dir is the snapshot directory for the local backend.
	Dir string `mapstructure:"dir" default:"data/db_metadata"`
	// Prefix is the object key prefix for the object backend.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
}

// NewBackend builds the backend named by cfg. The storage configuration is
// only read for the object backend.
func NewBackend(cfg Config, storageCfg storage.Config) (Backend, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalBackend(cfg.Dir), nil
	case BackendObject:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		return NewObjectBackend(client, storageCfg.Bucket, storageCfg.Region, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
