package scaffoldenv

import "github.com/websauna/scaffoldenv/internal/core"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrCommandTimeout is wrapped when a command outlives its timeout.
	ErrCommandTimeout = core.ErrCommandTimeout

	// ErrUnexpectedExit is wrapped when a command exits with a code other
	// than the expected one.
	ErrUnexpectedExit = core.ErrUnexpectedExit

	// ErrExitedEarly is wrapped when a server or a wait-and-see command
	// exits before its observation window ends.
	ErrExitedEarly = core.ErrExitedEarly

	// ErrNoVirtualenv is returned when <folder>/venv/bin/activate is missing.
	ErrNoVirtualenv = core.ErrNoVirtualenv

	// ErrShuttingDown is returned by Scaffold methods after Shutdown.
	ErrShuttingDown = core.ErrShuttingDown

	// ErrNotInitialized is returned by Scaffold methods before Initialize.
	ErrNotInitialized = core.ErrNotInitialized

	// ErrEmptyMarker is returned by WithLineInserted for an empty marker.
	ErrEmptyMarker = core.ErrEmptyMarker
)

// Result is the outcome of a finished command: exit code, stdout, stderr.
type Result = core.Result

// CommandError describes a failed command. Its message includes the
// command line and the captured output; errors.Is matches the sentinel it
// wraps, and errors.As exposes the exit code and both streams.
type CommandError = core.CommandError
