package storage

// Config holds the object storage connection used by the object snapshot backend.
type Config struct {
	// Endpoint is the host[:port] of the storage service, scheme optional.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the snapshot objects.
	Bucket string `mapstructure:"bucket" default:"schema-snapshots"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dial, TLS handshake and first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
