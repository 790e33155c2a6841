package dbfixture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqliteSuffixes are the files SQLite may keep next to a database.
var sqliteSuffixes = []string{"", "-wal", "-shm", "-journal"}

type sqlite struct {
	dir string
	log *slog.Logger
}

func (s *sqlite) path(name string) string {
	return filepath.Join(s.dir, name+".sqlite")
}

func (s *sqlite) Create(ctx context.Context, name string) (*Database, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", s.dir, err)
	}
	path := s.path(name)
	if _, err := os.Stat(path); err == nil {
		s.log.Info("dropping stale database", "database", name, "path", path)
	}
	if err := s.remove(name); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	// A file only appears once something is written.
	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
		return nil, fmt.Errorf("create sqlite %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &Database{Name: name, URL: "sqlite:///" + abs}, nil
}

func (s *sqlite) Drop(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.remove(name)
}

func (s *sqlite) remove(name string) error {
	var errs []error
	for _, suffix := range sqliteSuffixes {
		if err := os.Remove(s.path(name) + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("drop sqlite database %s: %w", name, err)
	}
	return nil
}
