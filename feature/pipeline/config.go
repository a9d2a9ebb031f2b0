package pipeline

// Config holds the ETL file locations.
type Config struct {
	// RawDir receives the extracted table.
	RawDir string `mapstructure:"raw_dir" default:"data/raw"`
	// ProcessedDir receives the transformed table.
	ProcessedDir string `mapstructure:"processed_dir" default:"data/processed"`
	// FileName is used in both directories.
	FileName string `mapstructure:"file_name" default:"sales_data.csv"`
}
