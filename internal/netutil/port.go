package netutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/websauna/scaffoldenv/internal/process"
)

// portPollInterval is the pause between checks while waiting for a port to
// be released after its holders were killed.
const portPollInterval = 100 * time.Millisecond

// Holders returns the PIDs of processes with an inet socket whose local
// port is port, excluding the calling process. Sockets whose owner cannot
// be determined (PID 0, typically another user's process) are ignored.
func Holders(ctx context.Context, port int) ([]int32, error) {
	conns, err := psnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("list inet connections: %w", err)
	}

	self := int32(os.Getpid())
	var pids []int32
	for _, c := range conns {
		if int(c.Laddr.Port) != port || c.Pid == 0 || c.Pid == self {
			continue
		}
		if !slices.Contains(pids, c.Pid) {
			pids = append(pids, c.Pid)
		}
	}
	return pids, nil
}

// KillHolders SIGKILLs every process holding port and waits up to timeout
// for the port to be released. It returns the PIDs that were killed.
func KillHolders(ctx context.Context, port int, timeout time.Duration, logger *slog.Logger) ([]int32, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pids, err := Holders(ctx, port)
	if err != nil {
		return nil, err
	}
	if len(pids) == 0 {
		return nil, nil
	}

	logger.Info("killing processes blocking the port", "port", port, "pids", pids)
	if err := process.KillPIDs(ctx, pids, logger); err != nil {
		return pids, fmt.Errorf("free port %d: %w", port, err)
	}
	if err := WaitReleased(ctx, port, timeout); err != nil {
		return pids, err
	}
	return pids, nil
}

// WaitReleased polls until no process holds port or timeout elapses.
func WaitReleased(ctx context.Context, port int, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, portPollInterval, timeout, true,
		func(pollCtx context.Context) (bool, error) {
			pids, err := Holders(pollCtx, port)
			if err != nil {
				return false, err
			}
			return len(pids) == 0, nil
		})
	if err != nil {
		return fmt.Errorf("wait for port %d to be released: %w", port, err)
	}
	return nil
}
