package scaffoldenv

import "context"

// Scaffold is a temporary folder holding a virtualenv with the framework
// installed and an application project generated from a cookiecutter
// template and installed into the same virtualenv.
//
// Callers must follow this lifecycle ordering:
//
//	NewScaffold → Initialize → Exec/StartServer (repeatable) → Shutdown
//
// Shutdown is safe to call at any point, including before Initialize.
type Scaffold interface {
	// Initialize builds the scaffold folder. Building takes minutes:
	// virtualenv, pip upgrade, wheelhouse preload, framework install,
	// template render and project install. Safe to call multiple times:
	// after a successful initialization later calls return nil
	// immediately; after a failure the next call retries from scratch.
	Initialize(ctx context.Context) error

	// Folder returns the scaffold folder, holding venv/ and the project.
	// It is empty before Initialize succeeds and after Shutdown.
	Folder() string

	// ProjectDir returns <Folder>/<repo_name>.
	ProjectDir() string

	// Exec runs a shell command line inside the scaffold's virtualenv with
	// the scaffold folder as working directory. See ExecuteVenvCommand.
	//
	// Returns ErrNotInitialized before Initialize and ErrShuttingDown
	// after Shutdown.
	Exec(ctx context.Context, cmdline string, opts ...VenvOption) (*Result, error)

	// StartServer starts a server command line in the scaffold folder.
	// The options apply on top of WithServerDefaults. See StartServer.
	StartServer(ctx context.Context, cmdline string, opts ...ServerOption) (Server, error)

	// Shutdown SIGKILLs every process whose command line references the
	// scaffold folder and removes the folder unless WithKeepFolder was
	// given. Safe to call multiple times.
	Shutdown() error
}

// Server is a running development server.
type Server interface {
	// Pid returns the PID of the shell running the server command.
	Pid() int

	// Port returns the port cleared for the server.
	Port() int

	// Exited is closed when the server process exits.
	Exited() <-chan struct{}

	// Output returns the server's stdout and stderr logged so far.
	Output() (stdout, stderr string)

	// LogPaths returns the files receiving stdout and stderr.
	LogPaths() (stdout, stderr string)

	// Stop sends SIGTERM to the server's process group, escalating to
	// SIGKILL, and releases the port. Only the first call does any work.
	Stop() error
}
