package core

import (
	"github.com/websauna/scaffoldenv/internal/execrun"
	"github.com/websauna/scaffoldenv/internal/filepatch"
	"github.com/websauna/scaffoldenv/internal/process"
	"github.com/websauna/scaffoldenv/internal/sentinel"
	"github.com/websauna/scaffoldenv/internal/venv"
)

// ErrShuttingDown is returned by Session methods once Shutdown was called.
const ErrShuttingDown = sentinel.Error("session is shutting down")

// ErrNotInitialized is returned by Session methods before Initialize succeeded.
const ErrNotInitialized = sentinel.Error("session not initialized")

// Re-exported so the public API imports only from core.
const (
	ErrCommandTimeout = execrun.ErrTimeout
	ErrUnexpectedExit = execrun.ErrUnexpectedExit
	ErrExitedEarly    = process.ErrExitedEarly
	ErrNoVirtualenv   = venv.ErrNoVirtualenv
	ErrEmptyMarker    = filepatch.ErrEmptyMarker
)

// Result is the outcome of a finished command.
type Result = execrun.Result

// CommandError describes a failed command together with its output.
type CommandError = execrun.CommandError

// VenvOptions tunes ExecuteVenvCommand.
type VenvOptions = venv.Options
