// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/taskboard-api/internal/database"
	"github.com/arnold/taskboard-api/internal/logging"
	"github.com/arnold/taskboard-api/internal/models"
)

// Open returns a migrated in-memory SQLite database that lives as long as the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Discard))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Store wraps Open in a database.Store with a silent logger.
func Store(t testing.TB) *database.Store {
	t.Helper()
	return database.NewStore(Open(t), logging.Discard())
}

// User inserts a user row.
func User(t testing.TB, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Email: name + "-" + uuid.NewString()[:8] + "@example.com", Name: name}
	require.NoError(t, db.Create(&u).Error)
	return u
}
