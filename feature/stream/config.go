package stream

import "time"

// Config holds the generator and ingester settings.
type Config struct {
	// File is the JSON-lines file the generator appends to and the ingester tails.
	File string `mapstructure:"file" default:"data/processed/sales_stream.txt"`
	// Output is the CSV sink for valid records.
	Output string `mapstructure:"output" default:"data/processed/sales_stream.csv"`
	// Interval between generated records.
	Interval time.Duration `mapstructure:"interval" default:"2s"`
	// PollInterval is how often the ingester checks the file for new lines.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"1s"`
	// NullRate is the probability that a generated field is null.
	NullRate float64 `mapstructure:"null_rate" default:"0.1"`
	// DirtyRate is the probability that a generated field carries a malformed value.
	DirtyRate float64 `mapstructure:"dirty_rate" default:"0.15"`
}
