// Package pgtest provides a disposable PostgreSQL connection for integration tests.
package pgtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/infrastructure/postgres"
)

// DatabaseURLEnv names the variable that points integration tests at a database.
const DatabaseURLEnv = "DATABASE_URL"

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB migrates the database named by DATABASE_URL and connects to it.
// The test is skipped when the variable is unset or -short is given.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s not set; skipping integration test", DatabaseURLEnv)
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath(), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    dbURL,
		MaxConns:       20,
		MinConns:       1,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, t: t}
	t.Cleanup(db.Cleanup)
	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes every ledger entry and audit log.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	if _, err := db.Pool.Exec(ctx, `TRUNCATE TABLE wallet_audit_logs, wallet_entries RESTART IDENTITY`); err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// migrationsPath resolves the migrations directory relative to this file so
// tests work from any package directory.
func migrationsPath() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "internal/infrastructure/postgres/migrations"
	}
	return filepath.Join(filepath.Dir(file), "..", "migrations")
}
