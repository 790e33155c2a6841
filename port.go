package scaffoldenv

import (
	"context"

	"github.com/websauna/scaffoldenv/internal/core"
)

// KillPortHolders SIGKILLs every process with a socket on port and waits up
// to DefaultPortReleaseTimeout for the port to be released, the same way
// StartServer clears its port. It returns the killed PIDs.
func KillPortHolders(ctx context.Context, port int) ([]int, error) {
	return core.KillPortHolders(ctx, port, DefaultPortReleaseTimeout)
}
