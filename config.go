package scaffoldenv

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/websauna/scaffoldenv/internal/core"
)

// scaffoldConfig wraps core.SessionConfig via embedding, keeping
// internal/core types out of the public API signature.
type scaffoldConfig struct {
	core.SessionConfig
}

func (c scaffoldConfig) toCoreConfig() core.SessionConfig {
	return c.SessionConfig
}

// serverConfig wraps core.ServerConfig.
type serverConfig struct {
	core.ServerConfig
}

// venvConfig wraps core.VenvOptions.
type venvConfig struct {
	core.VenvOptions
}

// databaseConfig wraps core.DatabaseConfig.
type databaseConfig struct {
	core.DatabaseConfig
	dsnSet bool // WithDSN was applied
}

// DefaultSQLiteDirName is the directory under os.TempDir() holding SQLite
// databases when WithDialect(DialectSQLite) is used without WithDSN.
const DefaultSQLiteDirName = "scaffoldenv-sqlite"

// resolved fills in the dialect-specific default DSN.
func (c databaseConfig) resolved() core.DatabaseConfig {
	cfg := c.DatabaseConfig
	if cfg.Dialect == core.DialectSQLite && !c.dsnSet {
		cfg.DSN = filepath.Join(os.TempDir(), DefaultSQLiteDirName)
	}
	return cfg
}

// loadEnv reads SCAFFOLDENV_* overrides. A malformed value is logged and
// the whole environment ignored, so defaults stay predictable.
func loadEnv() core.Env {
	env, err := core.LoadEnv(afero.NewOsFs(), DefaultEnvFile)
	if err != nil {
		core.Logger().Warn("ignoring SCAFFOLDENV environment", "error", err)
		return core.Env{}
	}
	return env
}

func defaultServerConfig(env core.Env) serverConfig {
	cfg := serverConfig{core.ServerConfig{
		Port:               DefaultServerPort,
		WaitAndSee:         DefaultWaitAndSee,
		PortReleaseTimeout: DefaultPortReleaseTimeout,
		StopTimeout:        DefaultServerStopTimeout,
		LogName:            DefaultServerLogName,
	}}
	if env.ServerPort != 0 {
		cfg.Port = env.ServerPort
	}
	return cfg
}

// defaultScaffoldConfig returns a scaffoldConfig populated with all default
// values and the environment overrides applied.
func defaultScaffoldConfig(env core.Env) scaffoldConfig {
	cfg := scaffoldConfig{core.SessionConfig{
		Python:              DefaultPython,
		FrameworkExtras:     DefaultFrameworkExtras,
		CookiecutterBinary:  DefaultCookiecutterBinary,
		Template:            DefaultTemplate,
		ExtraContext:        DefaultExtraContext(),
		VenvTimeout:         DefaultVenvTimeout,
		PipTimeout:          DefaultPipTimeout,
		WheelhouseTimeout:   DefaultWheelhouseTimeout,
		CookiecutterTimeout: DefaultCookiecutterTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
		Server:              defaultServerConfig(env).ServerConfig,
	}}
	env.ApplySession(&cfg.SessionConfig)
	return cfg
}

func defaultVenvConfig() venvConfig {
	return venvConfig{core.VenvOptions{Timeout: DefaultVenvCommandTimeout}}
}

func defaultDatabaseConfig(env core.Env) databaseConfig {
	cfg := databaseConfig{DatabaseConfig: core.DatabaseConfig{
		Dialect: core.DialectPostgres,
		DSN:     DefaultPostgresDSN,
	}}
	if env.PostgresDSN != "" {
		cfg.DSN = env.PostgresDSN
	}
	return cfg
}
