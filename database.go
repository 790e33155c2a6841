package scaffoldenv

import (
	"context"
	"testing"
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// Database is a database created for one test.
type Database = core.Database

// dropTimeout bounds the drop registered by CreateDatabase.
const dropTimeout = time.Minute

func databaseConfigFrom(opts []DatabaseOption) core.DatabaseConfig {
	cfg := defaultDatabaseConfig(loadEnv())
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.resolved()
}

// CreateDatabase creates database name for the duration of tb and drops it
// in tb.Cleanup, disconnecting its clients first. A database left behind
// by an interrupted run is dropped before creation. Failures abort the test.
//
// The control connection defaults to "dbname=postgres"; see WithDSN and
// SCAFFOLDENV_POSTGRES_DSN.
func CreateDatabase(tb testing.TB, name string, opts ...DatabaseOption) *Database {
	tb.Helper()
	cfg := databaseConfigFrom(opts)

	db, err := core.CreateDatabase(context.Background(), name, cfg)
	if err != nil {
		tb.Fatalf("create database %s: %v", name, err)
	}
	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), dropTimeout)
		defer cancel()
		if err := core.DropDatabase(ctx, name, cfg); err != nil {
			tb.Errorf("drop database %s: %v", name, err)
		}
	})
	return db
}

// CreateDatabaseContext is CreateDatabase for callers without a testing.TB.
// The caller drops the database with DropDatabaseContext.
func CreateDatabaseContext(ctx context.Context, name string, opts ...DatabaseOption) (*Database, error) {
	return core.CreateDatabase(ctx, name, databaseConfigFrom(opts))
}

// DropDatabaseContext disconnects every client of name and drops it if it
// exists.
func DropDatabaseContext(ctx context.Context, name string, opts ...DatabaseOption) error {
	return core.DropDatabase(ctx, name, databaseConfigFrom(opts))
}

// UniqueDatabaseName returns prefix_<8 hex digits>, lower-cased, so
// parallel test binaries never share a database.
func UniqueDatabaseName(prefix string) string {
	return core.UniqueDatabaseName(prefix)
}

// ParseDialect parses "postgres" (or "postgresql", "pg") and "sqlite"
// (or "sqlite3").
func ParseDialect(s string) (Dialect, error) {
	return core.ParseDialect(s)
}
