// Package venv creates Python virtual environments and runs shell command
// lines inside them.
package venv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/websauna/scaffoldenv/internal/execrun"
	"github.com/websauna/scaffoldenv/internal/sentinel"
)

// ErrNoVirtualenv is returned when <folder>/venv/bin/activate does not exist.
const ErrNoVirtualenv = sentinel.Error("virtualenv not found")

// DirName is the virtualenv directory created inside a scaffold folder.
const DirName = "venv"

// ActivatePath returns the activate script of the virtualenv under folder.
func ActivatePath(folder string) string {
	return filepath.Join(folder, DirName, "bin", "activate")
}

// Exists returns ErrNoVirtualenv unless folder holds a virtualenv.
func Exists(folder string) error {
	if _, err := os.Stat(ActivatePath(folder)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w in %s", ErrNoVirtualenv, folder)
		}
		return fmt.Errorf("stat activate script: %w", err)
	}
	return nil
}

// Join quotes each argument for a POSIX shell and joins them with spaces.
func Join(args ...string) string {
	return shellescape.QuoteCommand(args)
}

// CommandLine prefixes cmdline with the activation of folder's virtualenv,
// optionally changing into cdFolder first. sep joins the activation with the
// rest: ";" keeps going when activation fails, "&&" does not.
func CommandLine(folder, cdFolder, cmdline, sep string) string {
	var b strings.Builder
	b.WriteString(". ")
	b.WriteString(shellescape.Quote(ActivatePath(folder)))
	b.WriteString(" ")
	b.WriteString(sep)
	b.WriteString(" ")
	if cdFolder != "" {
		b.WriteString("cd ")
		b.WriteString(shellescape.Quote(cdFolder))
		b.WriteString(" && ")
	}
	b.WriteString(cmdline)
	return b.String()
}

// Create runs `<python> -m venv venv` in folder.
func Create(ctx context.Context, python, folder string, timeout time.Duration, logger *slog.Logger) error {
	c := execrun.Command{Args: []string{python, "-m", "venv", DirName}, Dir: folder, Timeout: timeout}
	res, err := execrun.Run(ctx, c, logger)
	if err != nil {
		return err
	}
	return execrun.Expect(res, 0, "scaffold command did not properly exit: "+c.Cmdline(), c.Cmdline(), folder)
}

var pythonVersion = regexp.MustCompile(`^Python (\d+)\.(\d+)`)

// ParsePythonTag turns `python --version` output ("Python 3.11.4") into the
// interpreter tag "python3.11".
func ParsePythonTag(versionOutput string) (string, error) {
	m := pythonVersion.FindStringSubmatch(strings.TrimSpace(versionOutput))
	if m == nil {
		return "", fmt.Errorf("unrecognized python version %q", strings.TrimSpace(versionOutput))
	}
	return "python" + m[1] + "." + m[2], nil
}

// PythonTag asks python for its major.minor version.
func PythonTag(ctx context.Context, python string, logger *slog.Logger) (string, error) {
	res, err := execrun.Query(ctx, execrun.Command{Args: []string{python, "--version"}, Timeout: 10 * time.Second}, logger)
	if err != nil {
		return "", err
	}
	if err := execrun.Expect(res, 0, "python --version failed", python+" --version", ""); err != nil {
		return "", err
	}
	// Python 2 printed the version on stderr.
	return ParsePythonTag(res.Stdout + res.Stderr)
}
