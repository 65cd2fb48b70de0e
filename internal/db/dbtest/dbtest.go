// Package dbtest provides database fixtures for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ikkim/storerating-backend/internal/db"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SetupTestDB creates an isolated in-memory SQLite database with the
// schema migrated. The connection is closed when the test ends.
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := db.Open(db.SQLiteDialector(dsn))
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get test database instance: %v", err)
	}
	// one connection keeps the in-memory database alive and serialized
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return conn
}

// SetupMockDB opens a gorm postgres connection over go-sqlmock so tests
// can script storage failures.
func SetupMockDB(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	conn, err := db.Open(postgres.New(postgres.Config{Conn: sqlDB}))
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return conn, mock
}
