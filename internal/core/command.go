package core

import (
	"context"
	"time"

	"github.com/websauna/scaffoldenv/internal/execrun"
	"github.com/websauna/scaffoldenv/internal/venv"
)

// ExecuteCommand runs argv in dir and requires it to exit 0 within timeout.
func ExecuteCommand(ctx context.Context, dir string, timeout time.Duration, args []string) (int, error) {
	c := execrun.Command{Args: args, Dir: dir, Timeout: timeout}
	res, err := execrun.Run(ctx, c, Logger())
	if err != nil {
		return res.ExitCode, err
	}
	if err := execrun.Expect(res, 0, "scaffold command did not properly exit: "+c.Cmdline(), c.Cmdline(), dir); err != nil {
		return res.ExitCode, err
	}
	return res.ExitCode, nil
}

// ExecuteVenvCommand runs cmdline inside the virtualenv of folder.
func ExecuteVenvCommand(ctx context.Context, folder, cmdline string, opts VenvOptions) (Result, error) {
	return venv.Run(ctx, folder, cmdline, opts, Logger())
}

// ShellJoin quotes args for a POSIX shell and joins them with spaces.
func ShellJoin(args ...string) string {
	return venv.Join(args...)
}
