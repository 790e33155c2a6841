package scaffoldenv_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websauna/scaffoldenv"
)

func TestCreateDatabase_SQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var path string

	t.Run("create", func(t *testing.T) {
		db := scaffoldenv.CreateDatabase(t, "myapp_test",
			scaffoldenv.WithDialect(scaffoldenv.DialectSQLite), scaffoldenv.WithDSN(dir))

		path = filepath.Join(dir, "myapp_test.sqlite")
		assert.Equal(t, "myapp_test", db.Name)
		assert.Equal(t, "sqlite:///"+path, db.URL)
		assert.FileExists(t, path)
	})

	// The subtest's cleanup dropped the database.
	assert.NoFileExists(t, path)
}

func TestCreateDatabaseContext_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := []scaffoldenv.DatabaseOption{
		scaffoldenv.WithDialect(scaffoldenv.DialectSQLite),
		scaffoldenv.WithDSN(t.TempDir()),
	}

	first, err := scaffoldenv.CreateDatabaseContext(ctx, "stale", opts...)
	require.NoError(t, err)
	second, err := scaffoldenv.CreateDatabaseContext(ctx, "stale", opts...)
	require.NoError(t, err, "a leftover database is dropped first")
	assert.Equal(t, first.URL, second.URL)

	require.NoError(t, scaffoldenv.DropDatabaseContext(ctx, "stale", opts...))
	require.NoError(t, scaffoldenv.DropDatabaseContext(ctx, "stale", opts...), "dropping a missing database succeeds")
}

// TestCreateDatabase_Postgres needs a server reachable through
// SCAFFOLDENV_POSTGRES_DSN.
func TestCreateDatabase_Postgres(t *testing.T) {
	dsn := os.Getenv("SCAFFOLDENV_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCAFFOLDENV_POSTGRES_DSN not set")
	}
	t.Parallel()

	name := scaffoldenv.UniqueDatabaseName("scaffoldenv_test")
	ctx := context.Background()

	// Simulate an interrupted run.
	_, err := scaffoldenv.CreateDatabaseContext(ctx, name, scaffoldenv.WithDSN(dsn))
	require.NoError(t, err)

	var client *pgx.Conn
	t.Run("create", func(t *testing.T) {
		db := scaffoldenv.CreateDatabase(t, name, scaffoldenv.WithDSN(dsn))
		assert.Equal(t, name, db.Name)
		assert.Regexp(t, `^postgresql://.*/`+regexp.QuoteMeta(name)+`(\?.*)?$`, db.URL)

		cfg, err := pgx.ParseConfig(dsn)
		require.NoError(t, err)
		cfg.Database = name
		client, err = pgx.ConnectConfig(ctx, cfg)
		require.NoError(t, err)
	})
	require.NotNil(t, client)
	defer client.Close(ctx)

	// The subtest's cleanup terminated the client and dropped the database.
	assert.Error(t, client.Ping(ctx))

	control, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer control.Close(ctx)
	var n int
	require.NoError(t, control.QueryRow(ctx, "SELECT COUNT(*) FROM pg_database WHERE datname=$1", name).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestUniqueDatabaseName(t *testing.T) {
	t.Parallel()

	a := scaffoldenv.UniqueDatabaseName("myapp")
	b := scaffoldenv.UniqueDatabaseName("myapp")
	assert.Regexp(t, `^myapp_[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	d, err := scaffoldenv.ParseDialect("postgresql")
	require.NoError(t, err)
	assert.Equal(t, scaffoldenv.DialectPostgres, d)

	d, err = scaffoldenv.ParseDialect("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, scaffoldenv.DialectSQLite, d)

	_, err = scaffoldenv.ParseDialect("oracle")
	require.Error(t, err)
}
