package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset is a header plus string records, the shape of a CSV file.
type Dataset struct {
	Header  []string
	Records [][]string
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// WriteCSV writes the dataset with its header to path, creating the directory.
func WriteCSV(path string, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(d.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(d.Records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return f.Close()
}

// ReadCSV reads a CSV file whose first row is the header.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return &Dataset{Header: all[0], Records: all[1:]}, nil
}
