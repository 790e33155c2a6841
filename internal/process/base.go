package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
	"time"

	"github.com/websauna/scaffoldenv/internal/sentinel"
)

// ErrAlreadyStarted is returned when SetupAndStart is called on a running process.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNotStarted is returned by Wait and WaitAlive before SetupAndStart.
const ErrNotStarted = sentinel.Error("process not started")

// ErrNilCmd is returned when SetupAndStart is called with a nil *exec.Cmd.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrNilCapture is returned when SetupAndStart is called without a Capture.
const ErrNilCapture = sentinel.Error("capture must not be nil")

// ErrExitedEarly is returned by WaitAlive when the process exits before the
// observation window closes.
const ErrExitedEarly = sentinel.Error("process exited early")

// waitDelay bounds how long Wait keeps copying output after the shell exits
// while a grandchild still holds the pipe open.
const waitDelay = 2 * time.Second

// ShellCommand returns a command running line through /bin/sh in dir.
func ShellCommand(line, dir string) *exec.Cmd {
	cmd := exec.Command("/bin/sh", "-c", line)
	cmd.Dir = dir
	return cmd
}

// BaseProcess owns one started command and its output.
//
// BaseProcess is not safe for concurrent use, except Exited which may be
// selected on from any goroutine.
type BaseProcess struct {
	cmd         *exec.Cmd
	exited      chan struct{} // closed after cmd.Wait returns
	waitErr     error         // written before exited is closed
	capture     Capture
	name        string
	log         *slog.Logger
	stopTimeout time.Duration
}

// NewBaseProcess creates a BaseProcess. name shows up in logs and errors.
// A nil logger falls back to slog.Default(); a zero stopTimeout to
// DefaultStopTimeout. Panics if name is empty.
func NewBaseProcess(name string, logger *slog.Logger, stopTimeout time.Duration) BaseProcess {
	if name == "" {
		panic("scaffoldenv: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return BaseProcess{name: name, log: logger, stopTimeout: stopTimeout}
}

// SetupAndStart wires cmd to capture, places it in its own process group
// and starts it. A single goroutine calls cmd.Wait and closes Exited.
func (b *BaseProcess) SetupAndStart(cmd *exec.Cmd, capture Capture) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if capture == nil {
		return ErrNilCapture
	}
	if b.cmd != nil {
		return ErrAlreadyStarted
	}

	cmd.Stdout = capture.Stdout()
	cmd.Stderr = capture.Stderr()
	cmd.WaitDelay = waitDelay
	configureSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		capture.Close()
		return fmt.Errorf("start %s: %w", b.name, err)
	}
	b.cmd = cmd
	b.capture = capture

	exited := make(chan struct{})
	go func() {
		b.waitErr = cmd.Wait()
		close(exited)
	}()
	b.exited = exited

	b.log.Debug("process started", "process", b.name, "pid", cmd.Process.Pid)
	return nil
}

// Name returns the process name.
func (b *BaseProcess) Name() string {
	return b.name
}

// Pid returns the PID of the shell, or 0 when not started.
func (b *BaseProcess) Pid() int {
	if b.cmd == nil || b.cmd.Process == nil {
		return 0
	}
	return b.cmd.Process.Pid
}

// Exited returns a channel closed when the process exits, or nil when the
// process was never started.
func (b *BaseProcess) Exited() <-chan struct{} {
	return b.exited
}

// isStarted reports whether SetupAndStart succeeded and Stop has not run.
func (b *BaseProcess) isStarted() bool {
	return b.cmd != nil
}

// ExitCode returns the exit code once the process has exited. ok is false
// while it is still running. A process killed by a signal reports -1.
func (b *BaseProcess) ExitCode() (code int, ok bool) {
	if b.exited == nil {
		return 0, false
	}
	select {
	case <-b.exited:
	default:
		return 0, false
	}
	return exitCodeOf(b.waitErr), true
}

// Output returns the captured stdout and stderr.
func (b *BaseProcess) Output() (string, string) {
	if b.capture == nil {
		return "", ""
	}
	return b.capture.Output()
}

// Wait blocks until the process exits or ctx is done. On ctx expiry the
// whole process group is killed and ctx.Err() is returned together with -1.
func (b *BaseProcess) Wait(ctx context.Context) (int, error) {
	if b.exited == nil {
		return 0, ErrNotStarted
	}
	select {
	case <-b.exited:
		return exitCodeOf(b.waitErr), nil
	case <-ctx.Done():
		if err := b.Kill(); err != nil {
			b.log.Warn("kill after wait timeout failed", "process", b.name, "error", err)
		}
		return -1, ctx.Err()
	}
}

// WaitAlive watches the process for d. It returns ErrExitedEarly if the
// process exits within the window and nil if it is still running after it.
// This is a crash-on-startup check, not a readiness probe.
func (b *BaseProcess) WaitAlive(ctx context.Context, d time.Duration) error {
	if b.exited == nil {
		return ErrNotStarted
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-b.exited:
		return fmt.Errorf("%s: %w with code %d", b.name, ErrExitedEarly, exitCodeOf(b.waitErr))
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Kill sends SIGKILL to the process group and waits for the shell to be reaped.
func (b *BaseProcess) Kill() error {
	if b.cmd == nil {
		return nil
	}
	if err := signalGroup(b.cmd, syscall.SIGKILL); err != nil {
		return fmt.Errorf("kill %s: %w", b.name, err)
	}
	if !drainExited(b.exited, killDrainTimeout) {
		return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", b.name)
	}
	return nil
}

// Stop terminates the process group, SIGTERM first and SIGKILL after a grace
// period. After Stop returns isStarted reports false whatever the outcome.
func (b *BaseProcess) Stop(timeout time.Duration) error {
	if b.cmd == nil || b.cmd.Process == nil {
		b.cmd = nil
		return nil
	}
	pid := b.cmd.Process.Pid
	err := stopGroup(b.cmd, b.exited, b.waitErrFn, timeout, b.name)
	if err != nil {
		b.log.Warn("process stop failed; process group may be orphaned",
			"process", b.name, "pid", pid, "error", err)
	}
	b.cmd = nil
	return err
}

// Close releases the capture. A process still running is stopped first.
func (b *BaseProcess) Close() {
	if b.isStarted() {
		b.log.Warn("process.Close called without Stop; stopping automatically", "process", b.name)
		if err := b.Stop(b.stopTimeout); err != nil {
			b.log.Warn("auto-stop during Close failed", "process", b.name, "error", err)
		}
	}
	if b.capture != nil {
		b.capture.Close()
	}
}

// waitErrFn reads waitErr; only valid after exited is closed.
func (b *BaseProcess) waitErrFn() error {
	return b.waitErr
}

// exitCodeOf maps a cmd.Wait error to an exit code.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
