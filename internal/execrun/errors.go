package execrun

import (
	"fmt"
	"strings"

	"github.com/websauna/scaffoldenv/internal/sentinel"
)

// ErrTimeout is wrapped by CommandError when the command outlived its timeout.
const ErrTimeout = sentinel.Error("command timed out")

// ErrUnexpectedExit is wrapped by CommandError when the command exited with
// a code other than the expected one.
const ErrUnexpectedExit = sentinel.Error("unexpected exit code")

// ErrEmptyCommand is returned when Run is given neither argv nor a shell line.
const ErrEmptyCommand = sentinel.Error("command must not be empty")

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandError describes a failed command together with its captured output.
type CommandError struct {
	Msg      string // headline, e.g. "scaffold command did not properly exit: ..."
	Cmdline  string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // one of the sentinels above
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	fmt.Fprintf(&b, "\n%s output:", e.Cmdline)
	if out := strings.TrimRight(e.Stdout, "\n"); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	if out := strings.TrimRight(e.Stderr, "\n"); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError builds a CommandError from a result.
func NewCommandError(err error, msg, cmdline, dir string, res Result) *CommandError {
	return &CommandError{
		Msg:      msg,
		Cmdline:  cmdline,
		Dir:      dir,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Err:      err,
	}
}
