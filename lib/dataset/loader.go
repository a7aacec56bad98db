package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// NewLoader picks a loader from the file extension of path. table applies to
// SQLite sources and sheet to workbooks.
func NewLoader(path, table, sheet string, logger *slog.Logger) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVLoader(path, logger), nil
	case ".xlsx":
		return NewXLSXLoader(path, sheet, logger), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteLoader(path, table, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, path)
}
