package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePython mimics `python --version` and `python -m venv DIR`. The
// virtualenv it creates puts a pip on PATH that appends its arguments to
// DIR/pip.log.
const fakePython = `case "$1" in
--version)
  echo "Python 3.11.4"
  ;;
-m)
  [ -n "$FAIL_VENV" ] && exit 1
  dir="$PWD/$3"
  mkdir -p "$dir/bin"
  printf 'PATH="%s/bin:$PATH"; export PATH\n' "$dir" > "$dir/bin/activate"
  printf '#!/bin/sh\necho "pip $*" >> "%s/pip.log"\n' "$dir" > "$dir/bin/pip"
  chmod +x "$dir/bin/pip"
  ;;
*)
  exit 2
  ;;
esac
`

// fakeCookiecutter creates <output-dir>/<repo_name>.
const fakeCookiecutter = `out=""
repo=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output-dir) out="$2"; shift 2 ;;
    --config-file) [ -f "$2" ] || exit 5; shift 2 ;;
    repo_name=*) repo="${1#repo_name=}"; shift ;;
    *) shift ;;
  esac
done
mkdir -p "$out/$repo"
`

func testSessionConfig(t *testing.T, python string) SessionConfig {
	t.Helper()
	bin := t.TempDir()
	cfg := validSessionConfig()
	cfg.Python = writeScript(t, bin, "python", python)
	cfg.CookiecutterBinary = writeScript(t, bin, "cookiecutter", fakeCookiecutter)
	cfg.FrameworkDir = t.TempDir()
	cfg.TempDir = t.TempDir()
	cfg.VenvTimeout = 10 * time.Second
	cfg.PipTimeout = 10 * time.Second
	cfg.WheelhouseTimeout = 10 * time.Second
	cfg.CookiecutterTimeout = 10 * time.Second
	cfg.ShutdownTimeout = 10 * time.Second
	return cfg
}

func readPipLog(t *testing.T, folder string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(folder, "venv", "pip.log"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig(t, fakePython)
	wheelhouse := filepath.Join(cfg.FrameworkDir, "wheelhouse", "python3.11")
	require.NoError(t, os.MkdirAll(wheelhouse, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wheelhouse, "pkg.whl"), nil, 0o644))

	s := NewSession(cfg)
	assert.Empty(t, s.Folder())

	_, err := s.Exec(context.Background(), "true", VenvOptions{Timeout: time.Second})
	require.ErrorIs(t, err, ErrNotInitialized)

	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx), "second Initialize is a no-op")

	folder := s.Folder()
	assert.True(t, strings.HasPrefix(filepath.Base(folder), FolderPrefix))
	assert.Equal(t, cfg.TempDir, filepath.Dir(folder))
	assert.Equal(t, filepath.Join(folder, "my.app"), s.ProjectDir())
	assert.DirExists(t, s.ProjectDir())

	assert.Equal(t, []string{
		"pip install -U pip",
		"pip install " + filepath.Join(wheelhouse, "pkg.whl"),
		"pip install -e .[notebook,utils]",
		"pip install -e " + s.ProjectDir(),
	}, readPipLog(t, folder))

	res, err := s.Exec(ctx, "pwd", VenvOptions{Timeout: 5 * time.Second, CdFolder: "my.app"})
	require.NoError(t, err)
	assert.Equal(t, s.ProjectDir(), strings.TrimSpace(res.Stdout))

	require.NoError(t, s.Shutdown())
	assert.NoDirExists(t, folder)
	assert.Empty(t, s.Folder())
	require.NoError(t, s.Shutdown(), "second Shutdown is a no-op")

	_, err = s.Exec(ctx, "true", VenvOptions{Timeout: time.Second})
	require.ErrorIs(t, err, ErrShuttingDown)
	require.ErrorIs(t, s.Initialize(ctx), ErrShuttingDown)
}

func TestSession_NoWheelhouse(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig(t, fakePython)
	cfg.FrameworkExtras = ""
	cfg.KeepFolder = true

	s := NewSession(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	folder := s.Folder()

	assert.Equal(t, []string{
		"pip install -U pip",
		"pip install -e .",
		"pip install -e " + s.ProjectDir(),
	}, readPipLog(t, folder))

	require.NoError(t, s.Shutdown())
	assert.DirExists(t, folder, "KeepFolder leaves the scaffold on disk")
}

func TestSession_InitializeFailureRollsBack(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig(t, "FAIL_VENV=1\n"+fakePython)
	s := NewSession(cfg)

	err := s.Initialize(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedExit)
	assert.Contains(t, err.Error(), "-m venv venv")
	assert.Empty(t, s.Folder())

	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scaffold and user dirs are removed")

	_, err = s.Exec(context.Background(), "true", VenvOptions{Timeout: time.Second})
	require.ErrorIs(t, err, ErrNotInitialized)
	require.NoError(t, s.Shutdown())
}

func TestSession_ShutdownDuringInitialize(t *testing.T) {
	t.Parallel()

	cfg := testSessionConfig(t, fakePython)
	started := filepath.Join(t.TempDir(), "started")
	cfg.CookiecutterBinary = writeScript(t, t.TempDir(), "cookiecutter",
		"touch '"+started+"'\nsleep 1\n"+fakeCookiecutter)
	s := NewSession(cfg)

	done := make(chan error, 1)
	go func() { done <- s.Initialize(context.Background()) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(started)
		return err == nil
	}, 20*time.Second, 20*time.Millisecond, "build never reached cookiecutter")
	require.NoError(t, s.Shutdown())

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrShuttingDown)
	case <-time.After(30 * time.Second):
		t.Fatal("Initialize did not return")
	}
	assert.Empty(t, s.Folder())

	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scaffold and user dirs are removed")
}

func TestSession_StartServer(t *testing.T) {
	t.Parallel()

	s := NewSession(testSessionConfig(t, fakePython))
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown() })

	cfg := testServerConfig(t)
	srv, err := s.StartServer(context.Background(), "sleep 30", cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	assert.Contains(t, srv.Cmdline(), s.Folder())
	require.NoError(t, srv.Stop(cfg.StopTimeout))
}
