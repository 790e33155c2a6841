package core

import (
	"context"
	"time"

	"github.com/websauna/scaffoldenv/internal/netutil"
)

// KillPortHolders SIGKILLs every process with a socket on port and waits up
// to timeout for the port to be released. It returns the killed PIDs.
func KillPortHolders(ctx context.Context, port int, timeout time.Duration) ([]int, error) {
	pids, err := netutil.KillHolders(ctx, port, timeout, Logger())
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		out = append(out, int(pid))
	}
	return out, err
}
