package scaffoldenv

import (
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// ResetForTesting resets the singleton scaffold so that the next call to
// NewScaffold creates a fresh instance. Exported only for package
// scaffoldenv_test.
func ResetForTesting() { resetForTesting() }

// ConfigSnapshot holds a copy of scaffoldConfig fields for test assertions.
type ConfigSnapshot struct {
	Python              string
	FrameworkDir        string
	FrameworkExtras     string
	CookiecutterBinary  string
	Template            string
	ExtraContext        map[string]string
	TempDir             string
	KeepFolder          bool
	VenvTimeout         time.Duration
	PipTimeout          time.Duration
	WheelhouseTimeout   time.Duration
	CookiecutterTimeout time.Duration
	ShutdownTimeout     time.Duration
	Server              ServerSnapshot
}

// ServerSnapshot holds a copy of serverConfig fields.
type ServerSnapshot struct {
	Port               int
	WaitAndSee         time.Duration
	PortReleaseTimeout time.Duration
	StopTimeout        time.Duration
	LogName            string
}

func serverSnapshot(c core.ServerConfig) ServerSnapshot {
	return ServerSnapshot{
		Port:               c.Port,
		WaitAndSee:         c.WaitAndSee,
		PortReleaseTimeout: c.PortReleaseTimeout,
		StopTimeout:        c.StopTimeout,
		LogName:            c.LogName,
	}
}

// ApplyOptionsForTesting applies opts to the defaults, ignoring the
// environment, and returns a snapshot of the result.
func ApplyOptionsForTesting(opts ...ScaffoldOption) ConfigSnapshot {
	cfg := defaultScaffoldConfig(core.Env{})
	for _, opt := range opts {
		opt(&cfg)
	}
	return ConfigSnapshot{
		Python:              cfg.Python,
		FrameworkDir:        cfg.FrameworkDir,
		FrameworkExtras:     cfg.FrameworkExtras,
		CookiecutterBinary:  cfg.CookiecutterBinary,
		Template:            cfg.Template,
		ExtraContext:        cfg.ExtraContext,
		TempDir:             cfg.TempDir,
		KeepFolder:          cfg.KeepFolder,
		VenvTimeout:         cfg.VenvTimeout,
		PipTimeout:          cfg.PipTimeout,
		WheelhouseTimeout:   cfg.WheelhouseTimeout,
		CookiecutterTimeout: cfg.CookiecutterTimeout,
		ShutdownTimeout:     cfg.ShutdownTimeout,
		Server:              serverSnapshot(cfg.Server),
	}
}

// ApplyServerOptionsForTesting applies opts to the server defaults.
func ApplyServerOptionsForTesting(opts ...ServerOption) ServerSnapshot {
	cfg := defaultServerConfig(core.Env{})
	for _, opt := range opts {
		opt(&cfg)
	}
	return serverSnapshot(cfg.ServerConfig)
}

// VenvSnapshot holds a copy of venvConfig fields.
type VenvSnapshot struct {
	Timeout    time.Duration
	ExpectExit int
	WaitAndSee time.Duration
	CdFolder   string
}

// ApplyVenvOptionsForTesting applies opts to the venv command defaults.
func ApplyVenvOptionsForTesting(opts ...VenvOption) VenvSnapshot {
	cfg := defaultVenvConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return VenvSnapshot{
		Timeout:    cfg.Timeout,
		ExpectExit: cfg.ExpectExit,
		WaitAndSee: cfg.WaitAndSee,
		CdFolder:   cfg.CdFolder,
	}
}

// DatabaseSnapshot holds the resolved database config.
type DatabaseSnapshot struct {
	Dialect Dialect
	DSN     string
}

// ApplyDatabaseOptionsForTesting applies opts to the database defaults with
// envDSN standing in for SCAFFOLDENV_POSTGRES_DSN.
func ApplyDatabaseOptionsForTesting(envDSN string, opts ...DatabaseOption) DatabaseSnapshot {
	cfg := defaultDatabaseConfig(core.Env{PostgresDSN: envDSN})
	for _, opt := range opts {
		opt(&cfg)
	}
	r := cfg.resolved()
	return DatabaseSnapshot{Dialect: r.Dialect, DSN: r.DSN}
}
