package scaffoldenv

import (
	"context"
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// ExecuteCommand runs args (argv, no shell) in dir and waits up to timeout
// for it to exit 0. A zero timeout means DefaultCommandTimeout.
//
// A timeout returns a *CommandError wrapping ErrCommandTimeout with the
// message "execute command did not properly exit"; a non-zero exit returns
// one wrapping ErrUnexpectedExit with "scaffold command did not properly
// exit: <argv>". Both carry the captured output.
func ExecuteCommand(ctx context.Context, dir string, timeout time.Duration, args ...string) (int, error) {
	if timeout == 0 {
		timeout = DefaultCommandTimeout
	}
	return core.ExecuteCommand(ctx, dir, timeout, args)
}

// ExecuteVenvCommand runs cmdline, a shell command line, inside the
// virtualenv at <folder>/venv with folder as working directory:
//
//	. <folder>/venv/bin/activate ; [cd <cdFolder> && ] <cmdline>
//
// By default it waits up to DefaultVenvCommandTimeout and requires exit
// code 0; see WithTimeout, WithExpectExit and WithCdFolder. With
// WithWaitAndSee the command must still be running after the window, is
// then killed, and a zero Result is returned; exiting early fails with
// ErrExitedEarly ("could not start server like app: ...").
//
// Returns ErrNoVirtualenv when folder has no virtualenv.
func ExecuteVenvCommand(ctx context.Context, folder, cmdline string, opts ...VenvOption) (*Result, error) {
	cfg := defaultVenvConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	res, err := core.ExecuteVenvCommand(ctx, folder, cmdline, cfg.VenvOptions)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ShellJoin quotes args for a POSIX shell and joins them with spaces, for
// building ExecuteVenvCommand command lines from argv.
func ShellJoin(args ...string) string {
	return core.ShellJoin(args...)
}
