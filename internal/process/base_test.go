package process

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startShell(t *testing.T, line string) *BaseProcess {
	t.Helper()

	bp := NewBaseProcess("test", nil, time.Second)
	require.NoError(t, bp.SetupAndStart(ShellCommand(line, t.TempDir()), NewBuffers()))
	t.Cleanup(bp.Close)
	return &bp
}

func TestNewBaseProcess(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		bp := NewBaseProcess("ws-pserve", nil, 0)
		assert.Equal(t, "ws-pserve", bp.Name())
		assert.NotNil(t, bp.log)
		assert.Equal(t, DefaultStopTimeout, bp.stopTimeout)
		assert.False(t, bp.isStarted())
		assert.Nil(t, bp.Exited())
		assert.Zero(t, bp.Pid())
	})

	t.Run("panics on empty name", func(t *testing.T) {
		t.Parallel()
		assert.PanicsWithValue(t, "scaffoldenv: process name must not be empty", func() {
			NewBaseProcess("", nil, 0)
		})
	})
}

func TestBaseProcess_SetupAndStartValidation(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("test", nil, 0)
	assert.ErrorIs(t, bp.SetupAndStart(nil, NewBuffers()), ErrNilCmd)
	assert.ErrorIs(t, bp.SetupAndStart(exec.Command("true"), nil), ErrNilCapture)

	_, err := bp.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, bp.WaitAlive(context.Background(), time.Millisecond), ErrNotStarted)
}

func TestBaseProcess_WaitReturnsExitCodeAndOutput(t *testing.T) {
	t.Parallel()

	bp := startShell(t, "echo hello; echo oops >&2; exit 3")

	code, err := bp.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	stdout, stderr := bp.Output()
	assert.Equal(t, "hello\n", stdout)
	assert.Equal(t, "oops\n", stderr)

	got, ok := bp.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestBaseProcess_AlreadyStarted(t *testing.T) {
	t.Parallel()

	bp := startShell(t, "sleep 5")
	assert.ErrorIs(t, bp.SetupAndStart(ShellCommand("true", ""), NewBuffers()), ErrAlreadyStarted)
	require.NoError(t, bp.Stop(time.Second))
}

func TestBaseProcess_WaitTimeoutKillsGroup(t *testing.T) {
	t.Parallel()

	bp := startShell(t, "sleep 30 & wait")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	code, err := bp.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)

	select {
	case <-bp.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process group still running after wait timeout")
	}
}

func TestBaseProcess_WaitAlive(t *testing.T) {
	t.Parallel()

	t.Run("still running is success", func(t *testing.T) {
		t.Parallel()
		bp := startShell(t, "sleep 30")
		require.NoError(t, bp.WaitAlive(context.Background(), 100*time.Millisecond))
		_, ok := bp.ExitCode()
		assert.False(t, ok)
		require.NoError(t, bp.Stop(2*time.Second))
		assert.False(t, bp.isStarted())
	})

	t.Run("early exit is failure", func(t *testing.T) {
		t.Parallel()
		bp := startShell(t, "echo crashed >&2; exit 1")
		err := bp.WaitAlive(context.Background(), 5*time.Second)
		require.ErrorIs(t, err, ErrExitedEarly)
		assert.Contains(t, err.Error(), "code 1")
		_, stderr := bp.Output()
		assert.Equal(t, "crashed\n", stderr)
	})
}

func TestBaseProcess_StopAfterExitIsNil(t *testing.T) {
	t.Parallel()

	bp := startShell(t, "exit 4")
	_, err := bp.Wait(context.Background())
	require.NoError(t, err)
	assert.NoError(t, bp.Stop(time.Second))
}

func TestBaseProcess_StopWhenNotStarted(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("test", nil, 0)
	assert.NoError(t, bp.Stop(time.Second))
	assert.NoError(t, bp.Kill())
	bp.Close()
}

func TestExpectSignalExit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err     error
		signal  syscall.Signal
		wantErr bool
	}{
		"nil error":                {},
		"SIGTERM exit is expected": {signal: syscall.SIGTERM},
		"SIGKILL exit is expected": {signal: syscall.SIGKILL},
		"other signal":             {signal: syscall.SIGINT, wantErr: true},
		"non-ExitError":            {err: errors.New("boom"), wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tc.err
			if in == nil && tc.signal != 0 {
				in = makeSignalExitError(t, tc.signal)
			}
			got := expectSignalExit(in, "test-proc")
			if tc.wantErr {
				assert.Error(t, got)
			} else {
				assert.NoError(t, got)
			}
		})
	}
}

func TestExpectSignalExit_WrapsProcessName(t *testing.T) {
	t.Parallel()

	err := expectSignalExit(errors.New("connection refused"), "ws-pserve")
	assert.EqualError(t, err, "ws-pserve: connection refused")
}

func TestDrainExited(t *testing.T) {
	t.Parallel()

	closed := make(chan struct{})
	close(closed)
	assert.True(t, drainExited(closed, time.Second))
	assert.False(t, drainExited(make(chan struct{}), 10*time.Millisecond))
}

func TestLogFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lf, err := NewLogFiles(dir, "ws-pserve")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ws-pserve-stdout.log"), lf.StdoutPath())
	assert.Equal(t, filepath.Join(dir, "ws-pserve-stderr.log"), lf.StderrPath())

	_, err = lf.Stdout().Write([]byte("serving on 6543\n"))
	require.NoError(t, err)
	lf.Close()
	lf.Close()

	stdout, stderr := lf.Output()
	assert.Equal(t, "serving on 6543\n", stdout)
	assert.Empty(t, stderr)
}

func TestStopCloseAndNil(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, StopCloseAndNil[*fakeStoppable](nil, time.Second))
		var p *fakeStoppable
		assert.NoError(t, StopCloseAndNil(&p, time.Second))
	})

	t.Run("stops closes and nils", func(t *testing.T) {
		t.Parallel()
		f := &fakeStoppable{}
		p := f
		require.NoError(t, StopCloseAndNil(&p, 5*time.Second))
		assert.Nil(t, p)
		assert.True(t, f.stopped)
		assert.True(t, f.closed)
		assert.Equal(t, 5*time.Second, f.stopTimeout)
	})

	t.Run("closes on stop error", func(t *testing.T) {
		t.Parallel()
		f := &fakeStoppable{stopErr: errors.New("stop failed")}
		p := f
		assert.EqualError(t, StopCloseAndNil(&p, time.Second), "stop failed")
		assert.Nil(t, p)
		assert.True(t, f.closed)
	})
}

type fakeStoppable struct {
	stopped     bool
	closed      bool
	stopErr     error
	stopTimeout time.Duration
}

func (f *fakeStoppable) Stop(timeout time.Duration) error {
	f.stopped = true
	f.stopTimeout = timeout
	return f.stopErr
}

func (f *fakeStoppable) Close() {
	f.closed = true
}

// makeSignalExitError returns the *exec.ExitError of a real process killed by sig.
func makeSignalExitError(tb testing.TB, sig syscall.Signal) *exec.ExitError {
	tb.Helper()

	cmd := exec.Command("sleep", "60")
	require.NoError(tb, cmd.Start())
	if err := cmd.Process.Signal(sig); err != nil {
		_ = cmd.Process.Kill()
		tb.Fatalf("signal process with %v: %v", sig, err)
	}

	var exitErr *exec.ExitError
	require.True(tb, errors.As(cmd.Wait(), &exitErr))
	return exitErr
}
