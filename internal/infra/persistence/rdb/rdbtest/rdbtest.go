// Package rdbtest opens throwaway SQLite databases for tests.
package rdbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"library/config"
	"library/internal/infra/persistence/rdb"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewConfig returns a config pointing at a fresh SQLite file in t.TempDir().
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Database: &config.DatabaseConfig{
			Driver: config.DriverSQLite,
			DSN:    "file:" + filepath.Join(t.TempDir(), "library.db") + "?_busy_timeout=5000",
		},
	}
	cfg.ApplyDefaults()

	return cfg
}

// NewDB opens and migrates a SQLite database that is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := rdb.Open(NewConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, rdb.Migrate(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
