package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSXLoader reads one sheet of a workbook. An empty sheet name means the
// first sheet.
type XLSXLoader struct {
	path   string
	sheet  string
	logger *slog.Logger
}

func NewXLSXLoader(path, sheet string, logger *slog.Logger) *XLSXLoader {
	return &XLSXLoader{path: path, sheet: sheet, logger: logger}
}

func (l *XLSXLoader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warn("Failed to close workbook", slog.String("path", l.path), slog.Any("error", err))
		}
	}()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	records, err := decodeRows(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("decode %s[%s]: %w", l.path, sheet, err)
	}

	l.logger.Info("Loaded XLSX dataset",
		slog.String("path", l.path),
		slog.String("sheet", sheet),
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	return &Dataset{Records: records, Source: l.path, LoadedAt: time.Now()}, nil
}
