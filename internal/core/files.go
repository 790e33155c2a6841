package core

import (
	"github.com/spf13/afero"

	"github.com/websauna/scaffoldenv/internal/cookiecutter"
	"github.com/websauna/scaffoldenv/internal/filepatch"
)

// osFs backs every public file helper.
var osFs = afero.NewOsFs()

// WithReplacedFile runs fn while path holds content.
func WithReplacedFile(path, content string, fn func() error) error {
	return filepatch.WithReplaced(osFs, path, content, fn)
}

// WithLineInserted runs fn while content sits above each line of path
// containing marker.
func WithLineInserted(path, content, marker string, fn func() error) error {
	return filepatch.WithInserted(osFs, path, content, marker, fn)
}

// WriteCookiecutterConfig writes an isolated cookiecutter user config under
// baseDir and returns its path.
func WriteCookiecutterConfig(baseDir string) (string, error) {
	return cookiecutter.WriteConfig(osFs, baseDir)
}

// Cookiecutter defaults, re-exported for the public API.
const (
	DefaultCookiecutterBinary  = cookiecutter.DefaultBinary
	DefaultTemplate            = cookiecutter.DefaultTemplate
	DefaultCookiecutterTimeout = cookiecutter.DefaultTimeout
)

// DefaultExtraContext returns a fresh copy of the websauna template answers.
func DefaultExtraContext() map[string]string {
	return cookiecutter.DefaultExtraContext()
}
