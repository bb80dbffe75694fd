// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"inkwell/internal/database"
	"inkwell/internal/security"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns an empty in-memory sqlite database private to t.
// A single connection keeps every query on the same in-memory database.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewDB returns a migrated in-memory database and lowers the bcrypt cost.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	FastPasswords()
	db := OpenSQLite(t)
	require.NoError(t, database.Migrate(db))
	return db
}

// NewRedis starts a miniredis server and returns it with a connected client.
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// FastPasswords drops bcrypt to its minimum cost.
func FastPasswords() {
	security.PasswordCost = bcrypt.MinCost
}
