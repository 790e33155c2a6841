package process

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Capture receives a process's stdout and stderr and hands them back as text
// for failure diagnostics.
type Capture interface {
	Stdout() io.Writer
	Stderr() io.Writer
	// Output returns everything captured so far.
	Output() (stdout, stderr string)
	Close()
}

var (
	_ Capture = (*Buffers)(nil)
	_ Capture = (*LogFiles)(nil)
)

// lockedBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Buffers keeps output in memory. Used for short-lived venv commands whose
// stdout is returned to the caller.
type Buffers struct {
	stdout lockedBuffer
	stderr lockedBuffer
}

// NewBuffers returns an empty in-memory Capture.
func NewBuffers() *Buffers {
	return &Buffers{}
}

func (b *Buffers) Stdout() io.Writer { return &b.stdout }
func (b *Buffers) Stderr() io.Writer { return &b.stderr }

func (b *Buffers) Output() (string, string) {
	return b.stdout.String(), b.stderr.String()
}

func (b *Buffers) Close() {}

// LogFiles writes output to <dir>/<name>-stdout.log and <dir>/<name>-stderr.log.
// Used for servers, whose output is unbounded and worth keeping after the run.
type LogFiles struct {
	stdoutFile *os.File
	stderrFile *os.File
	dir        string
	stdoutName string
	stderrName string
}

// NewLogFiles creates (truncating) both log files.
func NewLogFiles(dir, name string) (*LogFiles, error) {
	l := &LogFiles{
		dir:        dir,
		stdoutName: name + "-stdout.log",
		stderrName: name + "-stderr.log",
	}
	stdoutFile, err := os.Create(l.StdoutPath())
	if err != nil {
		return nil, fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdoutFile.Close()
		return nil, fmt.Errorf("create stderr log: %w", err)
	}
	l.stdoutFile = stdoutFile
	l.stderrFile = stderrFile
	return l, nil
}

func (l *LogFiles) Stdout() io.Writer { return l.stdoutFile }
func (l *LogFiles) Stderr() io.Writer { return l.stderrFile }

// StdoutPath returns the path of the stdout log.
func (l *LogFiles) StdoutPath() string {
	return filepath.Join(l.dir, l.stdoutName)
}

// StderrPath returns the path of the stderr log.
func (l *LogFiles) StderrPath() string {
	return filepath.Join(l.dir, l.stderrName)
}

// Output reads both log files back. Unreadable files yield empty strings.
func (l *LogFiles) Output() (string, string) {
	stdout, _ := os.ReadFile(l.StdoutPath())
	stderr, _ := os.ReadFile(l.StderrPath())
	return string(stdout), string(stderr)
}

// Close closes both handles and nils them so a second Close is a no-op.
func (l *LogFiles) Close() {
	if l.stdoutFile != nil {
		_ = l.stdoutFile.Close()
		l.stdoutFile = nil
	}
	if l.stderrFile != nil {
		_ = l.stderrFile.Close()
		l.stderrFile = nil
	}
}
