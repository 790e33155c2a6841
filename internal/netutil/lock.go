package netutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is the pause between attempts to take a port lock.
const lockRetryInterval = 50 * time.Millisecond

// PortLock is an exclusive, cross-process claim on a TCP port number backed
// by a lock file in the temp directory.
type PortLock struct {
	fl   *flock.Flock
	port int
	log  *slog.Logger
}

// LockPath returns the lock file used for port.
func LockPath(port int) string {
	return filepath.Join(os.TempDir(), "scaffoldenv-port-"+strconv.Itoa(port)+".lock")
}

// AcquirePortLock blocks until the lock for port is held or ctx is done.
func AcquirePortLock(ctx context.Context, port int, logger *slog.Logger) (*PortLock, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := LockPath(port)
	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring port lock %s: %w", path, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring port lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring port lock %s: lock not acquired", path)
	}

	logger.Debug("port lock acquired", "port", port, "path", path)
	return &PortLock{fl: fl, port: port, log: logger}, nil
}

// Port returns the locked port.
func (l *PortLock) Port() int {
	return l.port
}

// Release unlocks and closes the lock file. The file stays on disk so a
// concurrent acquirer never locks an unlinked inode. Safe on a nil lock and
// safe to call twice.
func (l *PortLock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("failed to release port lock", "path", l.fl.Path(), "error", err)
	}
	l.fl = nil
}
