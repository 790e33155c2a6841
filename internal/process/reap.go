package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	psprocess "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sync/errgroup"
)

// FindMatching returns the PIDs of processes whose command line contains
// pattern, excluding the calling process. Processes that vanish or deny
// access while being inspected are skipped.
func FindMatching(ctx context.Context, pattern string) ([]int32, error) {
	if pattern == "" {
		return nil, errors.New("find processes: pattern must not be empty")
	}
	procs, err := psprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	self := int32(os.Getpid())
	var pids []int32
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(cmdline, pattern) {
			pids = append(pids, p.Pid)
		}
	}
	return pids, nil
}

// KillMatching sends SIGKILL to every process whose command line contains
// pattern, the way `pkill -SIGKILL -f pattern` does. It returns the number of
// processes signalled.
func KillMatching(ctx context.Context, pattern string, logger *slog.Logger) (int, error) {
	pids, err := FindMatching(ctx, pattern)
	if err != nil {
		return 0, err
	}
	if err := KillPIDs(ctx, pids, logger); err != nil {
		return 0, err
	}
	return len(pids), nil
}

// KillPIDs sends SIGKILL to each PID concurrently. Processes that are
// already gone or that we may not signal are logged and skipped.
func KillPIDs(ctx context.Context, pids []int32, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, pid := range pids {
		pid := pid
		g.Go(func() error {
			p, err := psprocess.NewProcessWithContext(gctx, pid)
			if err != nil {
				logger.Debug("process vanished before kill", "pid", pid, "error", err)
				return nil
			}
			logger.Info("killing process", "pid", pid)
			if err := p.KillWithContext(gctx); err != nil {
				if errors.Is(err, syscall.ESRCH) || errors.Is(err, syscall.EPERM) || errors.Is(err, os.ErrProcessDone) {
					logger.Debug("skipping process", "pid", pid, "error", err)
					return nil
				}
				return fmt.Errorf("kill pid %d: %w", pid, err)
			}
			return nil
		})
	}
	return g.Wait()
}
