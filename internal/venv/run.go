package venv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/websauna/scaffoldenv/internal/execrun"
	"github.com/websauna/scaffoldenv/internal/process"
)

// Options tunes Run.
type Options struct {
	Timeout    time.Duration // wait limit in normal mode
	ExpectExit int           // exit code treated as success
	WaitAndSee time.Duration // if positive, only check the command survives this long
	CdFolder   string        // cd here (relative to folder) before running
}

// Run executes cmdline through the shell inside folder's virtualenv.
//
// With Options.WaitAndSee set, the command is expected to keep running: it
// fails with process.ErrExitedEarly if it exits within the window and is
// killed afterwards, yielding a zero Result. Otherwise Run waits up to
// Options.Timeout and compares the exit code with Options.ExpectExit.
func Run(ctx context.Context, folder, cmdline string, opts Options, logger *slog.Logger) (execrun.Result, error) {
	if err := Exists(folder); err != nil {
		return execrun.Result{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	line := CommandLine(folder, opts.CdFolder, cmdline, ";")
	logger.Debug("executing venv command", "cmdline", line, "dir", folder)

	bp := process.NewBaseProcess("venv-command", logger, 0)
	if err := bp.SetupAndStart(process.ShellCommand(line, folder), process.NewBuffers()); err != nil {
		return execrun.Result{}, err
	}
	p := &bp
	defer func() {
		_ = process.StopCloseAndNil(&p, process.DefaultStopTimeout)
	}()

	if opts.WaitAndSee > 0 {
		return waitAndSee(ctx, p, line, folder, opts.WaitAndSee)
	}

	if opts.Timeout <= 0 {
		return execrun.Result{}, fmt.Errorf("venv command: timeout must be positive, got %v", opts.Timeout)
	}
	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	code, err := p.Wait(waitCtx)
	res := result(p, code)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return res, execrun.NewCommandError(execrun.ErrTimeout,
				fmt.Sprintf("venv command timed out after %v: %s in %s", opts.Timeout, line, folder), line, folder, res)
		}
		return res, err
	}

	msg := fmt.Sprintf("venv command did not properly exit: %s in %s. Got exit code %d, assumed %d",
		line, folder, code, opts.ExpectExit)
	if err := execrun.Expect(res, opts.ExpectExit, msg, line, folder); err != nil {
		return res, err
	}
	return res, nil
}

func waitAndSee(ctx context.Context, p *process.BaseProcess, line, folder string, d time.Duration) (execrun.Result, error) {
	if err := p.WaitAlive(ctx, d); err != nil {
		if errors.Is(err, process.ErrExitedEarly) {
			code, _ := p.ExitCode()
			res := result(p, code)
			return res, execrun.NewCommandError(process.ErrExitedEarly,
				"could not start server like app: "+line, line, folder, res)
		}
		return execrun.Result{}, err
	}
	if err := p.Kill(); err != nil {
		return execrun.Result{}, err
	}
	return execrun.Result{}, nil
}

func result(p *process.BaseProcess, code int) execrun.Result {
	stdout, stderr := p.Output()
	return execrun.Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
}
