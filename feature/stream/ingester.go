package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"schema-drift/core/utils"

	"go.uber.org/zap"
)

// Stats counts the lines handled by one ingest pass.
type Stats struct {
	Read     int
	Ingested int
	Skipped  int
}

// Ingester tails the JSON-lines file and appends valid records to the CSV sink.
type Ingester struct {
	cfg    Config
	offset int64
	logger *zap.Logger
}

// NewIngester creates an ingester starting at the beginning of the file.
func NewIngester(cfg Config, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{cfg: cfg, logger: logger}
}

// Offset returns the byte position after the last consumed line.
func (in *Ingester) Offset() int64 {
	return in.offset
}

// IngestOnce consumes every complete line written since the previous pass.
// A trailing line without a newline is left for the next pass. The offset
// only moves once the sink write succeeds. A missing input file is not an
// error.
func (in *Ingester) IngestOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	f, err := os.Open(in.cfg.File)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("failed to open %s: %w", in.cfg.File, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat %s: %w", in.cfg.File, err)
	}
	if info.Size() < in.offset {
		in.logger.Warn("Stream file shrank, restarting from the beginning", zap.String("file", in.cfg.File))
		in.offset = 0
	}
	if _, err := f.Seek(in.offset, io.SeekStart); err != nil {
		return stats, fmt.Errorf("failed to seek %s: %w", in.cfg.File, err)
	}

	offset := in.offset
	var rows [][]string
	reader := bufio.NewReader(f)
	for ctx.Err() == nil {
		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read %s: %w", in.cfg.File, err)
		}
		offset += int64(len(line))

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		stats.Read++

		rec, violations := decode(line)
		if len(violations) > 0 {
			stats.Skipped++
			in.logger.Warn("Record skipped", zap.Strings("violations", violations), zap.ByteString("record", line))
			continue
		}
		rows = append(rows, toRow(rec))
		stats.Ingested++
	}

	if len(rows) > 0 {
		if err := in.appendRows(rows); err != nil {
			return stats, err
		}
	}
	in.offset = offset
	return stats, nil
}

// Run ingests every poll interval until ctx is done.
func (in *Ingester) Run(ctx context.Context) error {
	poll := in.cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	in.logger.Info("Stream ingester started", zap.String("file", in.cfg.File), zap.String("output", in.cfg.Output))
	for {
		stats, err := in.IngestOnce(ctx)
		if err != nil {
			return err
		}
		if stats.Read > 0 {
			in.logger.Info("Stream batch ingested",
				zap.Int("read", stats.Read),
				zap.Int("ingested", stats.Ingested),
				zap.Int("skipped", stats.Skipped),
			)
		}

		select {
		case <-ctx.Done():
			in.logger.Info("Stream ingester stopped", zap.Int64("offset", in.offset))
			return nil
		case <-ticker.C:
		}
	}
}

func (in *Ingester) appendRows(rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(in.cfg.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(in.cfg.Output), err)
	}
	f, err := os.OpenFile(in.cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", in.cfg.Output, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", in.cfg.Output, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Fields); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", in.cfg.Output, err)
	}
	return f.Close()
}

func decode(line []byte) (Record, []string) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, []string{"invalid JSON: " + err.Error()}
	}
	if rec == nil {
		return nil, []string{"record is null"}
	}
	return rec, Validate(rec)
}

func toRow(r Record) []string {
	row := make([]string, len(Fields))
	for i, f := range Fields {
		row[i] = utils.ToString(r[f])
	}
	return row
}
