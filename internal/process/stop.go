package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// DefaultStopTimeout is the stop budget used when none is configured.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is how long a group gets after SIGTERM before SIGKILL.
// Capped at the overall stop timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout bounds the wait for cmd.Wait after SIGKILL.
const killDrainTimeout = 10 * time.Second

// drainExited waits for exited to close, up to timeout.
func drainExited(exited <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-exited:
		return true
	case <-t.C:
		return false
	}
}

// stopGroup sends SIGTERM to the group led by cmd, escalates to SIGKILL
// after the grace period, and waits for exited. waitErr is read only after
// exited has closed.
//
// Worst case it blocks for timeout + killDrainTimeout.
func stopGroup(cmd *exec.Cmd, exited <-chan struct{}, waitErr func() error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if exited == nil {
		return fmt.Errorf("%s: exited channel must not be nil", name)
	}

	select {
	case <-exited:
		// The shell is gone; reap anything it left behind in the group.
		_ = signalGroup(cmd, syscall.SIGKILL)
		return nil
	default:
	}

	if err := signalGroup(cmd, syscall.SIGTERM); err != nil {
		if !drainExited(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr(), name)
	}

	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		_ = signalGroup(cmd, syscall.SIGKILL)
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case <-exited:
		return expectSignalExit(waitErr(), name)
	case <-totalTimer.C:
		_ = signalGroup(cmd, syscall.SIGKILL)
		if !drainExited(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr(), name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit treats exits caused by SIGTERM or SIGKILL as a clean
// stop. A shell that forwards SIGTERM to its child typically exits with
// 128+15, which is accepted too.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				sig := status.Signal()
				if sig == syscall.SIGTERM || sig == syscall.SIGKILL {
					return nil
				}
			}
			if status.Exited() && status.ExitStatus() == 128+int(syscall.SIGTERM) {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
