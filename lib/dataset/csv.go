package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// CSVLoader reads a comma-separated file with a header row.
type CSVLoader struct {
	path   string
	logger *slog.Logger
}

func NewCSVLoader(path string, logger *slog.Logger) *CSVLoader {
	return &CSVLoader{path: path, logger: logger}
}

func (l *CSVLoader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat csv: %w", err)
	}
	if stat.Size() == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	records, err := decodeRows(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.path, err)
	}

	l.logger.Info("Loaded CSV dataset",
		slog.String("path", l.path),
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	return &Dataset{Records: records, Source: l.path, LoadedAt: time.Now()}, nil
}
