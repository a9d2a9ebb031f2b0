package logger

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding: console or json.
	Format string `mapstructure:"format" default:"console"`
	// File is an extra output path. Empty disables file logging.
	File string `mapstructure:"file" default:"logs/pipeline.log"`
}
