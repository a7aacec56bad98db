package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/icco/depressiondash/lib/db"
	"github.com/icco/depressiondash/models"
)

// DefaultTable is the survey table read when none is configured.
const DefaultTable = "students"

// SQLiteLoader reads the survey table from a SQLite file opened read-only.
// Column names match the CSV header.
type SQLiteLoader struct {
	path   string
	table  string
	logger *slog.Logger
}

func NewSQLiteLoader(path, table string, logger *slog.Logger) *SQLiteLoader {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteLoader{path: path, table: table, logger: logger}
}

func (l *SQLiteLoader) Load(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	conn, err := db.OpenReadOnly(ctx, l.path, l.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			l.logger.Warn("Failed to close database", slog.String("path", l.path), slog.Any("error", err))
		}
	}()

	if err := db.VerifySchema(conn, l.table, models.RequiredColumns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingColumn, err)
	}

	var results []map[string]interface{}
	if err := conn.WithContext(ctx).Table(l.table).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", l.table, err)
	}

	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, models.RequiredColumns)
	for _, res := range results {
		row := make([]string, len(models.RequiredColumns))
		for i, col := range models.RequiredColumns {
			row[i] = cellString(res[col])
		}
		rows = append(rows, row)
	}

	records, err := decodeRows(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", l.path, l.table, err)
	}

	l.logger.Info("Loaded SQLite dataset",
		slog.String("path", l.path),
		slog.String("table", l.table),
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	return &Dataset{Records: records, Source: l.path, LoadedAt: time.Now()}, nil
}

// cellString renders a scanned column value the way it would appear in a CSV
// cell. NULL becomes blank.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(t)
	}
}
