package scaffoldenv

import (
	"context"

	"github.com/websauna/scaffoldenv/internal/core"
)

// StartServer starts a development server the way a developer would from
// a shell inside the virtualenv at <cwd>/venv:
//
//  1. every process with a socket on the port (DefaultServerPort unless
//     WithPort) is SIGKILLed and the port polled until free;
//  2. `. <cwd>/venv/bin/activate && <cmdline>` starts in cwd in its own
//     process group, logging to <cwd>/ws-pserve-{stdout,stderr}.log;
//  3. the server must survive DefaultWaitAndSee, or StartServer fails with
//     ErrExitedEarly ("could not ws-pserve: ...") and the logged output.
//
// A lock file per port serializes servers across test binaries until Stop.
//
//nolint:ireturn // Returns Server interface by design for testability (mockable).
func StartServer(ctx context.Context, cmdline, cwd string, opts ...ServerOption) (Server, error) {
	cfg := defaultServerConfig(loadEnv())
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := core.StartServer(ctx, cmdline, cwd, cfg.ServerConfig)
	if err != nil {
		return nil, err
	}
	return &serverWrapper{srv: srv, stopTimeout: cfg.StopTimeout}, nil
}
