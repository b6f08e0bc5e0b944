// Package dbtest opens throwaway in-memory SQLite databases for package tests.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"racefinder/internal/database"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Open returns a fresh database named after the test with models migrated.
// A single connection keeps the shared-cache database alive and serialises writers.
func Open(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db, models...))
	return db
}
