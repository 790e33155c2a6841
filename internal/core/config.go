package core

import (
	"errors"
	"fmt"
	"time"
)

// SessionConfig holds configuration for a Session.
//
// All fields are immutable after construction via NewSession.
type SessionConfig struct {
	// Python is the interpreter that creates the virtualenv.
	Python string

	// FrameworkDir is the framework checkout installed into the virtualenv
	// with `pip install -e`. It also holds the optional wheelhouse cache.
	// Empty means the working directory at Initialize time.
	FrameworkDir string

	// FrameworkExtras are the setuptools extras installed with the
	// framework, e.g. "notebook,utils". Empty installs none.
	FrameworkExtras string

	// CookiecutterBinary, Template and ExtraContext drive the project
	// template. ExtraContext must contain repo_name.
	CookiecutterBinary string
	Template           string
	ExtraContext       map[string]string

	// TempDir is the parent of the scaffold folder and the cookiecutter
	// user dir. Empty means os.TempDir().
	TempDir string

	// KeepFolder leaves the scaffold folder on disk after Shutdown.
	KeepFolder bool

	VenvTimeout         time.Duration // python -m venv
	PipTimeout          time.Duration // each pip install except the wheelhouse
	WheelhouseTimeout   time.Duration // pip install of the wheelhouse cache
	CookiecutterTimeout time.Duration // template render, download included

	// ShutdownTimeout bounds killing leftover processes during Shutdown.
	ShutdownTimeout time.Duration

	// Server holds the defaults for Session.StartServer.
	Server ServerConfig
}

// Validate checks all SessionConfig invariants and returns an error
// describing every violation found.
func (c SessionConfig) Validate() error {
	var errs []error

	if c.Python == "" {
		errs = append(errs, errors.New("python interpreter must not be empty"))
	}
	if c.CookiecutterBinary == "" {
		errs = append(errs, errors.New("cookiecutter binary must not be empty"))
	}
	if c.Template == "" {
		errs = append(errs, errors.New("template must not be empty"))
	}
	if c.ExtraContext["repo_name"] == "" {
		errs = append(errs, errors.New("extra context must set repo_name"))
	}
	for _, t := range []struct {
		name string
		d    time.Duration
	}{
		{"venv timeout", c.VenvTimeout},
		{"pip timeout", c.PipTimeout},
		{"wheelhouse timeout", c.WheelhouseTimeout},
		{"cookiecutter timeout", c.CookiecutterTimeout},
		{"shutdown timeout", c.ShutdownTimeout},
	} {
		if t.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be greater than 0, got %s", t.name, t.d))
		}
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ServerConfig holds configuration for StartServer.
type ServerConfig struct {
	// Port is cleared of other processes before the server starts.
	Port int

	// WaitAndSee is how long the server must survive after start.
	WaitAndSee time.Duration

	// PortReleaseTimeout bounds the wait for killed port holders to let go.
	PortReleaseTimeout time.Duration

	// StopTimeout is the SIGTERM-to-SIGKILL budget of Server.Stop.
	StopTimeout time.Duration

	// LogName is the base name of the server's log files in its working
	// directory: <LogName>-stdout.log and <LogName>-stderr.log.
	LogName string
}

// Validate checks all ServerConfig invariants.
func (c ServerConfig) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port must be in 1..65535, got %d", c.Port))
	}
	if c.WaitAndSee <= 0 {
		errs = append(errs, fmt.Errorf("wait and see must be greater than 0, got %s", c.WaitAndSee))
	}
	if c.PortReleaseTimeout <= 0 {
		errs = append(errs, fmt.Errorf("port release timeout must be greater than 0, got %s", c.PortReleaseTimeout))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server stop timeout must be greater than 0, got %s", c.StopTimeout))
	}
	if c.LogName == "" {
		errs = append(errs, errors.New("server log name must not be empty"))
	}

	return errors.Join(errs...)
}
