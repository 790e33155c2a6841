package scaffoldenv

import (
	"context"
	"sync"
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// Singleton state for NewScaffold. The first call creates the scaffold;
// subsequent calls return the same instance and log a warning.
var (
	singletonMu       sync.Mutex
	singletonScaffold Scaffold
	singletonOnce     sync.Once
)

// Compile-time interface satisfaction checks.
var (
	_ Scaffold = (*scaffoldWrapper)(nil)
	_ Server   = (*serverWrapper)(nil)
)

// scaffoldWrapper wraps core.Session to implement the Scaffold interface.
// The session is a named field rather than embedded so callers cannot type
// assert their way to internal methods.
type scaffoldWrapper struct {
	session *core.Session
}

func (w *scaffoldWrapper) Initialize(ctx context.Context) error {
	return w.session.Initialize(ctx)
}

func (w *scaffoldWrapper) Folder() string {
	return w.session.Folder()
}

func (w *scaffoldWrapper) ProjectDir() string {
	return w.session.ProjectDir()
}

func (w *scaffoldWrapper) Exec(ctx context.Context, cmdline string, opts ...VenvOption) (*Result, error) {
	cfg := defaultVenvConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	res, err := w.session.Exec(ctx, cmdline, cfg.VenvOptions)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

//nolint:ireturn // Returns Server interface by design for testability (mockable).
func (w *scaffoldWrapper) StartServer(ctx context.Context, cmdline string, opts ...ServerOption) (Server, error) {
	cfg := serverConfig{w.session.ServerConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := w.session.StartServer(ctx, cmdline, cfg.ServerConfig)
	if err != nil {
		return nil, err
	}
	return &serverWrapper{srv: srv, stopTimeout: cfg.StopTimeout}, nil
}

func (w *scaffoldWrapper) Shutdown() error {
	return w.session.Shutdown()
}

// serverWrapper wraps core.Server to implement the Server interface.
type serverWrapper struct {
	srv         *core.Server
	stopTimeout time.Duration
}

func (w *serverWrapper) Pid() int                { return w.srv.Pid() }
func (w *serverWrapper) Port() int               { return w.srv.Port() }
func (w *serverWrapper) Exited() <-chan struct{} { return w.srv.Exited() }

func (w *serverWrapper) Output() (string, string) {
	return w.srv.Output()
}

func (w *serverWrapper) LogPaths() (string, string) {
	return w.srv.LogPaths()
}

// Stop stops the server and closes its log files.
func (w *serverWrapper) Stop() error {
	err := w.srv.Stop(w.stopTimeout)
	w.srv.Close()
	return err
}

// resetForTesting resets the singleton state so that the next call to
// NewScaffold creates a fresh scaffold. It must only be called from tests.
func resetForTesting() {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	singletonScaffold = nil
	singletonOnce = sync.Once{}
}

// NewScaffold returns the process-level singleton Scaffold.
//
// The first call creates the scaffold from the defaults, the SCAFFOLDENV_*
// environment and the given options, in that order of precedence from
// lowest to highest. Subsequent calls return the same instance; options are
// ignored and a warning is logged. This performs no I/O besides reading
// the environment; call Initialize to build the folder.
//
// Panics if any option receives an invalid value.
//
//nolint:ireturn // Returns Scaffold interface by design for testability (mockable).
func NewScaffold(opts ...ScaffoldOption) Scaffold {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	created := false
	singletonOnce.Do(func() {
		cfg := defaultScaffoldConfig(loadEnv())
		for _, opt := range opts {
			opt(&cfg)
		}
		singletonScaffold = &scaffoldWrapper{session: core.NewSession(cfg.toCoreConfig())}
		created = true
	})
	if !created {
		core.Logger().Warn("NewScaffold called more than once; returning existing singleton (options ignored)")
	}
	return singletonScaffold
}
