package scaffoldenv

import (
	"time"

	"github.com/websauna/scaffoldenv/internal/core"
)

// Default configuration values. These constants are exported so callers
// can build custom values relative to them (e.g., 2 * DefaultPipTimeout).
const (
	// DefaultCommandTimeout bounds ExecuteCommand.
	DefaultCommandTimeout = 5 * time.Second

	// DefaultVenvCommandTimeout bounds ExecuteVenvCommand and Scaffold.Exec.
	DefaultVenvCommandTimeout = 15 * time.Second

	// DefaultPython creates the scaffold virtualenv.
	DefaultPython = "python3"

	// DefaultFrameworkExtras are installed with the framework.
	DefaultFrameworkExtras = "notebook,utils"

	// DefaultCookiecutterBinary is looked up in PATH.
	DefaultCookiecutterBinary = core.DefaultCookiecutterBinary

	// DefaultTemplate is the websauna application template.
	DefaultTemplate = core.DefaultTemplate

	// DefaultVenvTimeout bounds `python -m venv`.
	DefaultVenvTimeout = 30 * time.Second

	// DefaultPipTimeout bounds each pip install of the scaffold build.
	DefaultPipTimeout = 5 * time.Minute

	// DefaultWheelhouseTimeout bounds installing the wheelhouse cache.
	DefaultWheelhouseTimeout = 3 * time.Minute

	// DefaultCookiecutterTimeout bounds the template render, download included.
	DefaultCookiecutterTimeout = core.DefaultCookiecutterTimeout

	// DefaultShutdownTimeout bounds killing leftover scaffold processes.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultServerPort is the port ws-pserve listens on.
	DefaultServerPort = 6543

	// DefaultWaitAndSee is how long a server must survive after start.
	DefaultWaitAndSee = 5 * time.Second

	// DefaultPortReleaseTimeout bounds waiting for killed port holders.
	DefaultPortReleaseTimeout = 10 * time.Second

	// DefaultServerStopTimeout is the SIGTERM-to-SIGKILL budget of Server.Stop.
	DefaultServerStopTimeout = 10 * time.Second

	// DefaultServerLogName names the server log files in its directory.
	DefaultServerLogName = "ws-pserve"

	// DefaultPostgresDSN is the control database for CreateDatabase.
	DefaultPostgresDSN = core.DefaultPostgresDSN

	// DefaultEnvFile is read for SCAFFOLDENV_* defaults when present.
	DefaultEnvFile = ".env"

	// FolderPrefix prefixes the scaffold folder name.
	FolderPrefix = core.FolderPrefix
)

// DefaultExtraContext returns the cookiecutter answers used for the
// scaffold project. The project lands in <folder>/my.app.
func DefaultExtraContext() map[string]string {
	return core.DefaultExtraContext()
}
