package execrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	execute "github.com/alexellis/go-execute/v2"

	"github.com/websauna/scaffoldenv/internal/process"
)

// Command is a command to run to completion.
type Command struct {
	Args    []string      // argv; Args[0] is looked up in PATH
	Dir     string        // working directory; empty means the current one
	Timeout time.Duration // hard limit; must be positive
}

// Cmdline renders the command the way it is reported in errors.
func (c Command) Cmdline() string {
	return strings.Join(c.Args, " ")
}

func (c Command) validate() error {
	if len(c.Args) == 0 || c.Args[0] == "" {
		return ErrEmptyCommand
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("run %s: timeout must be positive, got %v", c.Args[0], c.Timeout)
	}
	return nil
}

// Run executes c in its own process group and waits for it to exit. A
// non-zero exit code is not an error here; callers compare Result.ExitCode
// with what they expect, see Expect. A timeout kills the whole group, so
// children left behind by pip or cookiecutter cannot hold it open, and
// returns a *CommandError wrapping ErrTimeout together with whatever output
// was captured before the kill.
func Run(ctx context.Context, c Command, logger *slog.Logger) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir

	bp := process.NewBaseProcess(filepath.Base(c.Args[0]), logger, 0)
	logger.Debug("executing command", "process", bp.Name(), "cmdline", c.Cmdline(), "dir", c.Dir, "timeout", c.Timeout)
	start := time.Now()
	if err := bp.SetupAndStart(cmd, process.NewBuffers()); err != nil {
		return Result{}, fmt.Errorf("run %s: %w", c.Cmdline(), err)
	}
	p := &bp
	defer func() {
		_ = process.StopCloseAndNil(&p, process.DefaultStopTimeout)
	}()

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	code, err := p.Wait(runCtx)
	stdout, stderr := p.Output()
	out := Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return out, NewCommandError(ErrTimeout, "execute command did not properly exit", c.Cmdline(), c.Dir, out)
		}
		return out, fmt.Errorf("run %s: %w", c.Cmdline(), err)
	}

	logger.Debug("command finished", "process", p.Name(), "exit_code", out.ExitCode, "elapsed", time.Since(start))
	return out, nil
}

// Query runs a short command that starts no children of its own, such as
// `python --version`, and returns its output. Anything that may spawn
// subprocesses goes through Run.
func Query(ctx context.Context, c Command, logger *slog.Logger) (Result, error) {
	if err := c.validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	task := execute.ExecTask{
		Command: c.Args[0],
		Args:    c.Args[1:],
		Cwd:     c.Dir,
	}
	logger.Debug("querying command", "cmdline", c.Cmdline())
	res, err := task.Execute(runCtx)
	out := Result{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return out, NewCommandError(ErrTimeout, "execute command did not properly exit", c.Cmdline(), c.Dir, out)
		}
		return out, fmt.Errorf("run %s: %w", c.Cmdline(), err)
	}
	return out, nil
}

// Expect returns a *CommandError wrapping ErrUnexpectedExit when res did not
// exit with want. msg becomes the headline of the error.
func Expect(res Result, want int, msg, cmdline, dir string) error {
	if res.ExitCode == want {
		return nil
	}
	return NewCommandError(ErrUnexpectedExit, msg, cmdline, dir, res)
}
