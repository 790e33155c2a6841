package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/websauna/scaffoldenv/internal/cookiecutter"
	"github.com/websauna/scaffoldenv/internal/fileutil"
	"github.com/websauna/scaffoldenv/internal/process"
	"github.com/websauna/scaffoldenv/internal/venv"
)

// FolderPrefix prefixes the scaffold folder created under the temp dir.
const FolderPrefix = "websauna_test_"

// sessionState represents the lifecycle state of a Session.
type sessionState uint32

const (
	sessionCreated      sessionState = iota // Zero value; NewSession returns in this state
	sessionInitializing                     // Initialize in progress
	sessionReady                            // Exec and StartServer allowed
	sessionShuttingDown                     // Shutdown called
)

// sessionPaths is published once Initialize succeeds.
type sessionPaths struct {
	folder     string // holds venv/ and the project
	projectDir string // <folder>/<repo_name>
	userDir    string // cookiecutter user config, removed on Shutdown
}

// Session builds one scaffold folder: a virtualenv with the framework
// installed plus a project generated from a cookiecutter template and
// installed into the same virtualenv.
//
// Synchronization strategy:
//   - state is an atomic sessionState (created → initializing → ready → shuttingDown).
//   - paths is set once by a successful Initialize and swapped out by Shutdown,
//     so accessors read it lock-free.
//   - initMu serializes Initialize calls.
type Session struct {
	cfg    SessionConfig
	state  atomic.Uint32
	paths  atomic.Pointer[sessionPaths]
	initMu sync.Mutex
}

func (s *Session) loadState() sessionState {
	return sessionState(s.state.Load())
}

func (s *Session) storeState(st sessionState) {
	s.state.Store(uint32(st))
}

// NewSession creates a Session. This performs no I/O operations.
//
// Panics if cfg.Validate() reports any errors.
func NewSession(cfg SessionConfig) *Session {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("scaffoldenv: invalid session config: %v", err))
	}
	return &Session{cfg: cfg}
}

// Initialize builds the scaffold folder. Safe to call multiple times: after
// a successful initialization later calls return nil immediately, and a
// failed initialization removes what it created so the next call retries
// from scratch.
func (s *Session) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	switch s.loadState() {
	case sessionReady:
		return nil
	case sessionShuttingDown:
		return ErrShuttingDown
	case sessionCreated, sessionInitializing:
	}

	s.storeState(sessionInitializing)

	p, err := s.build(ctx)
	if err != nil {
		if p != nil {
			if terr := s.teardown(p, s.cfg.KeepFolder); terr != nil { //nolint:contextcheck // rollback must outlive a canceled ctx
				Logger().Warn("rollback after failed initialize", "error", terr)
			}
		}
		s.state.CompareAndSwap(uint32(sessionInitializing), uint32(sessionCreated))
		return fmt.Errorf("initialize: %w", err)
	}

	s.paths.Store(p)
	if !s.state.CompareAndSwap(uint32(sessionInitializing), uint32(sessionReady)) {
		// Shutdown ran during the build. Whoever swaps the paths out tears
		// them down, so the folder is removed exactly once.
		if leftover := s.paths.Swap(nil); leftover != nil {
			if terr := s.teardown(leftover, s.cfg.KeepFolder); terr != nil { //nolint:contextcheck // teardown must outlive a canceled ctx
				Logger().Warn("teardown after concurrent shutdown", "error", terr)
			}
		}
		return ErrShuttingDown
	}
	Logger().Info("scaffold ready", "folder", p.folder, "project", p.projectDir)
	return nil
}

// build runs the scaffold steps in order. On error it returns the paths
// created so far for rollback.
func (s *Session) build(ctx context.Context) (*sessionPaths, error) {
	log := Logger()

	frameworkDir := s.cfg.FrameworkDir
	if frameworkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve framework dir: %w", err)
		}
		frameworkDir = wd
	}

	if s.cfg.TempDir != "" {
		if err := fileutil.EnsureDir(osFs, s.cfg.TempDir); err != nil {
			return nil, err
		}
	}

	p := &sessionPaths{}
	userBase, err := os.MkdirTemp(s.cfg.TempDir, "scaffoldenv_cookiecutter_")
	if err != nil {
		return nil, fmt.Errorf("create cookiecutter user dir: %w", err)
	}
	p.userDir = userBase
	configFile, err := cookiecutter.WriteConfig(osFs, userBase)
	if err != nil {
		return p, err
	}

	folder, err := os.MkdirTemp(s.cfg.TempDir, FolderPrefix)
	if err != nil {
		return p, fmt.Errorf("create scaffold folder: %w", err)
	}
	p.folder = folder

	log.Info("creating virtualenv", "folder", folder, "python", s.cfg.Python)
	if err := venv.Create(ctx, s.cfg.Python, folder, s.cfg.VenvTimeout, log); err != nil {
		return p, err
	}

	if _, err := s.venvRun(ctx, folder, "pip install -U pip", "", s.cfg.PipTimeout); err != nil {
		return p, err
	}

	if err := s.preloadWheelhouse(ctx, folder, frameworkDir); err != nil {
		return p, err
	}

	target := "."
	if s.cfg.FrameworkExtras != "" {
		target = ".[" + s.cfg.FrameworkExtras + "]"
	}
	log.Info("installing framework", "dir", frameworkDir)
	if _, err := s.venvRun(ctx, folder, venv.Join("pip", "install", "-e", target), frameworkDir, s.cfg.PipTimeout); err != nil {
		return p, err
	}

	log.Info("generating project", "template", s.cfg.Template)
	projectDir, err := cookiecutter.Generate(ctx, cookiecutter.Options{
		Binary:       s.cfg.CookiecutterBinary,
		Template:     s.cfg.Template,
		ExtraContext: s.cfg.ExtraContext,
		OutputDir:    folder,
		ConfigFile:   configFile,
		Timeout:      s.cfg.CookiecutterTimeout,
	}, log)
	if err != nil {
		return p, err
	}
	p.projectDir = projectDir

	if _, err := s.venvRun(ctx, folder, venv.Join("pip", "install", "-e", projectDir), "", s.cfg.PipTimeout); err != nil {
		return p, err
	}
	return p, nil
}

// preloadWheelhouse installs <frameworkDir>/wheelhouse/pythonX.Y/* when that
// cache exists.
func (s *Session) preloadWheelhouse(ctx context.Context, folder, frameworkDir string) error {
	tag, err := venv.PythonTag(ctx, s.cfg.Python, Logger())
	if err != nil {
		return err
	}
	dir := filepath.Join(frameworkDir, "wheelhouse", tag)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		Logger().Info("no preloaded Python package cache found", "dir", dir)
		return nil
	}
	Logger().Info("installing wheelhouse", "dir", dir)
	_, err = s.venvRun(ctx, folder, "pip install "+venv.Join(dir)+"/*", "", s.cfg.WheelhouseTimeout)
	return err
}

func (s *Session) venvRun(ctx context.Context, folder, cmdline, cdFolder string, timeout time.Duration) (Result, error) {
	return venv.Run(ctx, folder, cmdline, venv.Options{Timeout: timeout, CdFolder: cdFolder}, Logger())
}

// ready returns the published paths or the error for the current state.
func (s *Session) ready() (*sessionPaths, error) {
	switch s.loadState() {
	case sessionShuttingDown:
		return nil, ErrShuttingDown
	case sessionReady:
	case sessionCreated, sessionInitializing:
		return nil, ErrNotInitialized
	}
	p := s.paths.Load()
	if p == nil {
		return nil, ErrNotInitialized
	}
	return p, nil
}

// Folder returns the scaffold folder, or "" before Initialize succeeded.
func (s *Session) Folder() string {
	if p := s.paths.Load(); p != nil {
		return p.folder
	}
	return ""
}

// ProjectDir returns the generated project, or "" before Initialize succeeded.
func (s *Session) ProjectDir() string {
	if p := s.paths.Load(); p != nil {
		return p.projectDir
	}
	return ""
}

// Exec runs cmdline inside the scaffold's virtualenv.
func (s *Session) Exec(ctx context.Context, cmdline string, opts VenvOptions) (Result, error) {
	p, err := s.ready()
	if err != nil {
		return Result{}, err
	}
	return venv.Run(ctx, p.folder, cmdline, opts, Logger())
}

// StartServer starts cmdline in the scaffold folder using cfg.
func (s *Session) StartServer(ctx context.Context, cmdline string, cfg ServerConfig) (*Server, error) {
	p, err := s.ready()
	if err != nil {
		return nil, err
	}
	return StartServer(ctx, cmdline, p.folder, cfg)
}

// ServerConfig returns the session's server defaults.
func (s *Session) ServerConfig() ServerConfig {
	return s.cfg.Server
}

// Shutdown kills every process whose command line references the scaffold
// folder and removes the folder unless KeepFolder is set. Safe to call
// before Initialize and safe to call twice; only the first call after a
// successful Initialize does any work. An Initialize still building when
// Shutdown runs removes its own folder and returns ErrShuttingDown.
func (s *Session) Shutdown() error {
	s.storeState(sessionShuttingDown)
	p := s.paths.Swap(nil)
	if p == nil {
		return nil
	}
	return s.teardown(p, s.cfg.KeepFolder)
}

func (s *Session) teardown(p *sessionPaths, keep bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if p.folder != "" {
		if _, err := process.KillMatching(ctx, p.folder, Logger()); err != nil {
			errs = append(errs, fmt.Errorf("kill processes in %s: %w", p.folder, err))
		}
	}
	if keep {
		Logger().Info("keeping scaffold folder", "folder", p.folder)
	} else if p.folder != "" {
		if err := os.RemoveAll(p.folder); err != nil {
			errs = append(errs, fmt.Errorf("remove scaffold folder: %w", err))
		}
	}
	if p.userDir != "" {
		if err := os.RemoveAll(p.userDir); err != nil {
			errs = append(errs, fmt.Errorf("remove cookiecutter user dir: %w", err))
		}
	}
	return errors.Join(errs...)
}
