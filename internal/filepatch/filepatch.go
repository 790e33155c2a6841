package filepatch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/websauna/scaffoldenv/internal/fileutil"
	"github.com/websauna/scaffoldenv/internal/sentinel"
)

// ErrEmptyMarker is returned when InsertBeforeMarker is given an empty marker.
const ErrEmptyMarker = sentinel.Error("marker must not be empty")

// RestoreFunc writes the original content back.
type RestoreFunc func() error

// Replace overwrites path with content and returns a RestoreFunc for the
// previous content. The file must exist.
func Replace(fs afero.Fs, path, content string) (RestoreFunc, error) {
	backup, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := fileutil.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return restorer(fs, path, backup), nil
}

// InsertBeforeMarker rewrites path so that content is printed on its own
// line above every line containing marker, and returns a RestoreFunc for
// the previous content. Every line of the rewritten file, the last one
// included, ends with a newline.
func InsertBeforeMarker(fs afero.Fs, path, content, marker string) (RestoreFunc, error) {
	if marker == "" {
		return nil, ErrEmptyMarker
	}
	backup, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := fileutil.WriteFile(fs, path, []byte(insertBefore(string(backup), content, marker)), 0o644); err != nil {
		return nil, err
	}
	return restorer(fs, path, backup), nil
}

func insertBefore(text, content, marker string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, marker) {
			b.WriteString(content)
			b.WriteByte('\n')
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func restorer(fs afero.Fs, path string, backup []byte) RestoreFunc {
	return func() error {
		if err := fileutil.WriteFile(fs, path, backup, os.FileMode(0o644)); err != nil {
			return fmt.Errorf("restore %s: %w", path, err)
		}
		return nil
	}
}

// WithReplaced runs fn while path holds content.
func WithReplaced(fs afero.Fs, path, content string, fn func() error) error {
	restore, err := Replace(fs, path, content)
	if err != nil {
		return err
	}
	return run(restore, fn)
}

// WithInserted runs fn while path carries content above its marker lines.
func WithInserted(fs afero.Fs, path, content, marker string, fn func() error) error {
	restore, err := InsertBeforeMarker(fs, path, content, marker)
	if err != nil {
		return err
	}
	return run(restore, fn)
}

func run(restore RestoreFunc, fn func() error) (err error) {
	defer func() {
		if rerr := restore(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn()
}
