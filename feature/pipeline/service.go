package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result summarizes one ETL run.
type Result struct {
	RawPath       string
	ProcessedPath string
	Rows          int
	Duration      time.Duration
}

// Service runs the extract, transform and load steps.
type Service struct {
	db     *gorm.DB
	table  string
	cfg    Config
	logger *zap.Logger
}

// NewService creates a new ETL service reading table from db.
func NewService(db *gorm.DB, table string, cfg Config, logger *zap.Logger) *Service {
	return &Service{db: db, table: table, cfg: cfg, logger: logger}
}

// Extract queries the source table and writes it to the raw directory.
func (s *Service) Extract(ctx context.Context) (*Dataset, string, error) {
	if s.db == nil {
		return nil, "", errors.New("database not connected")
	}
	ds, err := Extract(ctx, s.db, s.table)
	if err != nil {
		s.logger.Error("Data extraction failed", zap.Error(err))
		return nil, "", err
	}
	path := filepath.Join(s.cfg.RawDir, s.cfg.FileName)
	if err := WriteCSV(path, ds); err != nil {
		s.logger.Error("Data extraction failed", zap.Error(err))
		return nil, "", err
	}
	s.logger.Info("Raw data extracted", zap.String("path", path), zap.Int("rows", ds.Len()))
	return ds, path, nil
}

// Load writes the transformed dataset to the processed directory.
func (s *Service) Load(ds *Dataset) (string, error) {
	path := filepath.Join(s.cfg.ProcessedDir, s.cfg.FileName)
	if err := WriteCSV(path, ds); err != nil {
		s.logger.Error("Data loading failed", zap.Error(err))
		return "", err
	}
	s.logger.Info("Data loaded", zap.String("path", path))
	return path, nil
}

// Run executes the whole pipeline and logs its duration.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	s.logger.Info("ETL process started")

	raw, rawPath, err := s.Extract(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transforming data")
	processed, err := Transform(raw)
	if err != nil {
		s.logger.Error("Data transformation failed", zap.Error(err))
		return nil, err
	}

	processedPath, err := s.Load(processed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RawPath:       rawPath,
		ProcessedPath: processedPath,
		Rows:          processed.Len(),
		Duration:      time.Since(start),
	}
	s.logger.Info("ETL process completed", zap.Duration("duration", res.Duration), zap.Int("rows", res.Rows))
	return res, nil
}
