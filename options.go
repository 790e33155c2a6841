package scaffoldenv

import (
	"fmt"
	"maps"
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("scaffoldenv: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("scaffoldenv: %s must not be empty", name))
	}
}

// ScaffoldOption configures the Scaffold during construction via NewScaffold.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations). Option values are typically constants, so an invalid value
// indicates a programmer error; the pattern mirrors [regexp.MustCompile].
type ScaffoldOption func(*scaffoldConfig)

// WithPython sets the interpreter that creates the virtualenv.
// Default: python3. Panics if python is empty.
func WithPython(python string) ScaffoldOption {
	requireNonEmpty("python interpreter", python)
	return func(c *scaffoldConfig) {
		c.Python = python
	}
}

// WithFrameworkDir sets the framework checkout installed with
// `pip install -e`. Its wheelhouse/pythonX.Y directory, when present,
// preloads packages. Default: the working directory at Initialize.
// Panics if dir is empty.
func WithFrameworkDir(dir string) ScaffoldOption {
	requireNonEmpty("framework directory", dir)
	return func(c *scaffoldConfig) {
		c.FrameworkDir = dir
	}
}

// WithFrameworkExtras sets the extras installed with the framework.
// An empty string installs none. Default: "notebook,utils".
func WithFrameworkExtras(extras string) ScaffoldOption {
	return func(c *scaffoldConfig) {
		c.FrameworkExtras = extras
	}
}

// WithTemplate sets the cookiecutter template: a URL, a zip, a git
// repository or a local directory. Panics if template is empty.
func WithTemplate(template string) ScaffoldOption {
	requireNonEmpty("template", template)
	return func(c *scaffoldConfig) {
		c.Template = template
	}
}

// WithCookiecutterBinary sets the cookiecutter executable.
// Panics if binPath is empty.
func WithCookiecutterBinary(binPath string) ScaffoldOption {
	requireNonEmpty("cookiecutter binary path", binPath)
	return func(c *scaffoldConfig) {
		c.CookiecutterBinary = binPath
	}
}

// WithExtraContext overrides template answers on top of
// DefaultExtraContext. Changing repo_name moves the project directory.
func WithExtraContext(ctx map[string]string) ScaffoldOption {
	return func(c *scaffoldConfig) {
		merged := maps.Clone(c.ExtraContext)
		if merged == nil {
			merged = map[string]string{}
		}
		maps.Copy(merged, ctx)
		c.ExtraContext = merged
	}
}

// WithTempDir sets the parent directory of the scaffold folder.
// Default: os.TempDir(). Panics if dir is empty.
func WithTempDir(dir string) ScaffoldOption {
	requireNonEmpty("temp directory", dir)
	return func(c *scaffoldConfig) {
		c.TempDir = dir
	}
}

// WithKeepFolder leaves the scaffold folder on disk after Shutdown, for
// inspecting a failed run.
func WithKeepFolder() ScaffoldOption {
	return func(c *scaffoldConfig) {
		c.KeepFolder = true
	}
}

// WithVenvTimeout bounds `python -m venv`. Default: 30 seconds.
// Panics if d <= 0.
func WithVenvTimeout(d time.Duration) ScaffoldOption {
	requirePositive("venv timeout", d)
	return func(c *scaffoldConfig) {
		c.VenvTimeout = d
	}
}

// WithPipTimeout bounds each pip install. Default: 5 minutes.
// Panics if d <= 0.
func WithPipTimeout(d time.Duration) ScaffoldOption {
	requirePositive("pip timeout", d)
	return func(c *scaffoldConfig) {
		c.PipTimeout = d
	}
}

// WithWheelhouseTimeout bounds installing the wheelhouse cache.
// Default: 3 minutes. Panics if d <= 0.
func WithWheelhouseTimeout(d time.Duration) ScaffoldOption {
	requirePositive("wheelhouse timeout", d)
	return func(c *scaffoldConfig) {
		c.WheelhouseTimeout = d
	}
}

// WithCookiecutterTimeout bounds the template render. Default: 3 minutes.
// Panics if d <= 0.
func WithCookiecutterTimeout(d time.Duration) ScaffoldOption {
	requirePositive("cookiecutter timeout", d)
	return func(c *scaffoldConfig) {
		c.CookiecutterTimeout = d
	}
}

// WithShutdownTimeout bounds killing leftover processes during Shutdown.
// Default: 30 seconds. Panics if d <= 0.
func WithShutdownTimeout(d time.Duration) ScaffoldOption {
	requirePositive("shutdown timeout", d)
	return func(c *scaffoldConfig) {
		c.ShutdownTimeout = d
	}
}

// WithServerDefaults sets the ServerOptions Scaffold.StartServer starts from.
func WithServerDefaults(opts ...ServerOption) ScaffoldOption {
	return func(c *scaffoldConfig) {
		s := serverConfig{c.Server}
		for _, opt := range opts {
			opt(&s)
		}
		c.Server = s.ServerConfig
	}
}

// ServerOption configures StartServer.
type ServerOption func(*serverConfig)

// WithPort sets the port cleared before the server starts. Default: 6543.
// Panics unless 0 < port <= 65535.
func WithPort(port int) ServerOption {
	requirePositive("port", port)
	if port > 65535 {
		panic(fmt.Sprintf("scaffoldenv: port must be at most 65535, got %d", port))
	}
	return func(c *serverConfig) {
		c.Port = port
	}
}

// WithServerWaitAndSee sets how long the server must survive after start.
// Default: 5 seconds. Panics if d <= 0.
func WithServerWaitAndSee(d time.Duration) ServerOption {
	requirePositive("wait and see", d)
	return func(c *serverConfig) {
		c.WaitAndSee = d
	}
}

// WithPortReleaseTimeout bounds waiting for killed port holders to let go.
// Default: 10 seconds. Panics if d <= 0.
func WithPortReleaseTimeout(d time.Duration) ServerOption {
	requirePositive("port release timeout", d)
	return func(c *serverConfig) {
		c.PortReleaseTimeout = d
	}
}

// WithStopTimeout sets the SIGTERM-to-SIGKILL budget of Server.Stop.
// Default: 10 seconds. Panics if d <= 0.
func WithStopTimeout(d time.Duration) ServerOption {
	requirePositive("stop timeout", d)
	return func(c *serverConfig) {
		c.StopTimeout = d
	}
}

// WithLogName sets the base name of the server log files.
// Default: ws-pserve. Panics if name is empty.
func WithLogName(name string) ServerOption {
	requireNonEmpty("log name", name)
	return func(c *serverConfig) {
		c.LogName = name
	}
}

// VenvOption configures ExecuteVenvCommand and Scaffold.Exec.
type VenvOption func(*venvConfig)

// WithTimeout bounds the command. Default: 15 seconds. Panics if d <= 0.
func WithTimeout(d time.Duration) VenvOption {
	requirePositive("timeout", d)
	return func(c *venvConfig) {
		c.Timeout = d
	}
}

// WithExpectExit sets the exit code treated as success. Default: 0.
func WithExpectExit(code int) VenvOption {
	return func(c *venvConfig) {
		c.ExpectExit = code
	}
}

// WithWaitAndSee switches to server-like mode: the command must still be
// running after d, and is then killed. Panics if d <= 0.
func WithWaitAndSee(d time.Duration) VenvOption {
	requirePositive("wait and see", d)
	return func(c *venvConfig) {
		c.WaitAndSee = d
	}
}

// WithCdFolder changes into dir, relative to the venv folder, before
// running the command. Panics if dir is empty.
func WithCdFolder(dir string) VenvOption {
	requireNonEmpty("cd folder", dir)
	return func(c *venvConfig) {
		c.CdFolder = dir
	}
}

// DatabaseOption configures CreateDatabase and friends.
type DatabaseOption func(*databaseConfig)

// Dialect selects the database engine.
type Dialect = core.Dialect

// Supported dialects.
const (
	DialectPostgres = core.DialectPostgres
	DialectSQLite   = core.DialectSQLite
)

// WithDSN sets the control connection string. For DialectSQLite it is the
// directory holding database files. Default: "dbname=postgres" or
// SCAFFOLDENV_POSTGRES_DSN. Panics if dsn is empty.
func WithDSN(dsn string) DatabaseOption {
	requireNonEmpty("DSN", dsn)
	return func(c *databaseConfig) {
		c.DSN = dsn
		c.dsnSet = true
	}
}

// WithDialect selects the database engine. Default: DialectPostgres.
// DialectSQLite without WithDSN keeps files under
// os.TempDir()/DefaultSQLiteDirName.
func WithDialect(d Dialect) DatabaseOption {
	return func(c *databaseConfig) {
		c.Dialect = d
	}
}
