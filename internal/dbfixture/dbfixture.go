package dbfixture

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Dialect selects the database engine.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DefaultPostgresDSN is the control database used to create and drop others.
const DefaultPostgresDSN = "dbname=postgres"

// ParseDialect parses a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unknown dialect: %s", s)
	}
}

// Config describes where databases are created.
type Config struct {
	Dialect Dialect
	// DSN is the control connection string for Postgres, or the directory
	// holding database files for SQLite.
	DSN    string
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Database is a created database.
type Database struct {
	Name string
	// URL is an SQLAlchemy style connection URL for the database, e.g.
	// postgresql://user@localhost:5432/name or sqlite:////tmp/dir/name.sqlite.
	URL string
}

// Lifecycle creates and drops databases of one dialect.
type Lifecycle interface {
	// Create drops a stale database called name, if any, and creates it.
	Create(ctx context.Context, name string) (*Database, error)
	// Drop disconnects every client of name and drops it if it exists.
	Drop(ctx context.Context, name string) error
}

// New returns the Lifecycle for cfg.Dialect.
//
//nolint:ireturn // callers only need the two lifecycle operations.
func New(cfg Config) (Lifecycle, error) {
	switch cfg.Dialect {
	case DialectPostgres, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = DefaultPostgresDSN
		}
		return &postgres{dsn: dsn, log: cfg.logger()}, nil
	case DialectSQLite:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite: directory must not be empty")
		}
		return &sqlite{dir: cfg.DSN, log: cfg.logger()}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", cfg.Dialect)
	}
}

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName rejects names that are not plain identifiers. Both dialects
// use the name in paths or SQL, so anything fancier is refused up front.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid database name %q: want letters, digits and underscores", name)
	}
	return nil
}

// UniqueName returns prefix_<8 hex digits>, lower-cased.
func UniqueName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if prefix == "" {
		return "db_" + id
	}
	return strings.ToLower(prefix) + "_" + id
}
