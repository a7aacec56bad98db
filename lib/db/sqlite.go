package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrSchema is returned when the survey table is missing or lacks columns.
var ErrSchema = errors.New("survey table schema mismatch")

// readOnlyPragmas tune a connection that only ever reads the survey table.
var readOnlyPragmas = []string{
	"PRAGMA query_only=ON",
	"PRAGMA cache_size=1000",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA mmap_size=134217728",
}

// OpenReadOnly opens the SQLite file at path without write access and routes
// gorm's logging through logger.
func OpenReadOnly(ctx context.Context, path string, logger *slog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range readOnlyPragmas {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.Warn("Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.Debug("Executed pragma", slog.String("pragma", pragma))
		}
	}

	return db, nil
}

// VerifySchema checks that table exists and has every column in required.
func VerifySchema(db *gorm.DB, table string, required []string) error {
	if !db.Migrator().HasTable(table) {
		return fmt.Errorf("%w: table %q not found", ErrSchema, table)
	}

	columns, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return fmt.Errorf("failed to read columns of %q: %w", table, err)
	}
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c.Name()] = true
	}

	var missing []string
	for _, col := range required {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: table %q lacks %s", ErrSchema, table, strings.Join(missing, ", "))
	}
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
