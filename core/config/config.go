package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"schema-drift/core/database"
	"schema-drift/core/drift"
	"schema-drift/core/logger"
	"schema-drift/core/server"
	"schema-drift/core/snapshot"
	"schema-drift/core/storage"
	"schema-drift/feature/pipeline"
	"schema-drift/feature/stream"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Warehouse holds the connection to the database whose schema is tracked.
	Warehouse database.Config `mapstructure:"warehouse"`
	// Snapshot selects where snapshots are persisted.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Drift tunes rename inference.
	Drift drift.Config `mapstructure:"drift"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Pipeline holds the CSV ETL paths.
	Pipeline pipeline.Config `mapstructure:"pipeline"`
	// Stream holds the stream generator and ingester settings.
	Stream stream.Config `mapstructure:"stream"`
}

// LoadConfig loads configuration from environment variables and the .env
// file found in path, if any. Values in .env override the environment.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. WAREHOUSE_HOST -> warehouse.host)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
