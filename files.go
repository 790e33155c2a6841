package scaffoldenv

import "github.com/websauna/scaffoldenv/internal/core"

// WithReplacedFile replaces the content of path with content, runs fn and
// restores the original content, also when fn returns an error or panics.
// It returns fn's error joined with any restore error.
func WithReplacedFile(path, content string, fn func() error) error {
	return core.WithReplacedFile(path, content, fn)
}

// WithLineInserted rewrites path with content on its own line above every
// line containing marker, runs fn and restores the original content, also
// when fn returns an error or panics.
//
//	err := scaffoldenv.WithLineInserted(ini, "websauna.site_id = test", "[app:main]", func() error {
//	    _, err := scaffold.Exec(ctx, "ws-sync-db my.app/development.ini")
//	    return err
//	})
func WithLineInserted(path, content, marker string, fn func() error) error {
	return core.WithLineInserted(path, content, marker, fn)
}

// WriteCookiecutterConfig creates <baseDir>/user_dir with empty
// cookiecutters and cookiecutter_replay directories and a config file
// pointing cookiecutter at them. It returns the config file path.
func WriteCookiecutterConfig(baseDir string) (string, error) {
	return core.WriteCookiecutterConfig(baseDir)
}
