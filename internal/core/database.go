package core

import (
	"context"

	"github.com/websauna/scaffoldenv/internal/dbfixture"
)

// Database is a created database.
type Database = dbfixture.Database

// DatabaseConfig selects the dialect and control DSN.
type DatabaseConfig = dbfixture.Config

// Dialect re-exports dbfixture.Dialect.
type Dialect = dbfixture.Dialect

// Supported dialects.
const (
	DialectPostgres = dbfixture.DialectPostgres
	DialectSQLite   = dbfixture.DialectSQLite
)

// DefaultPostgresDSN is the control database used when no DSN is given.
const DefaultPostgresDSN = dbfixture.DefaultPostgresDSN

func lifecycle(cfg DatabaseConfig) (dbfixture.Lifecycle, error) {
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	return dbfixture.New(cfg)
}

// CreateDatabase drops a stale database called name, if any, and creates it.
func CreateDatabase(ctx context.Context, name string, cfg DatabaseConfig) (*Database, error) {
	lc, err := lifecycle(cfg)
	if err != nil {
		return nil, err
	}
	return lc.Create(ctx, name)
}

// DropDatabase disconnects every client of name and drops it if present.
func DropDatabase(ctx context.Context, name string, cfg DatabaseConfig) error {
	lc, err := lifecycle(cfg)
	if err != nil {
		return err
	}
	return lc.Drop(ctx, name)
}

// UniqueDatabaseName returns prefix_<8 hex digits>.
func UniqueDatabaseName(prefix string) string {
	return dbfixture.UniqueName(prefix)
}

// ParseDialect parses a dialect name such as "postgres" or "sqlite".
func ParseDialect(s string) (Dialect, error) {
	return dbfixture.ParseDialect(s)
}
