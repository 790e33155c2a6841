package cookiecutter

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websauna/scaffoldenv/internal/execrun"
)

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path, err := WriteConfig(fs, "/tmp/session")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/session/user_dir/config", path)

	for _, dir := range []string{"/tmp/session/user_dir/cookiecutters", "/tmp/session/user_dir/cookiecutter_replay"} {
		ok, err := afero.IsDir(fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}

	cfg, err := readConfig(fs, path)
	require.NoError(t, err)
	assert.Equal(t, UserConfig{
		CookiecuttersDir: "/tmp/session/user_dir/cookiecutters",
		ReplayDir:        "/tmp/session/user_dir/cookiecutter_replay",
	}, cfg)
}

func TestReadConfig_Invalid(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config", []byte("cookiecutters_dir: [unterminated"), 0o644))

	_, err := readConfig(fs, "/config")
	assert.Error(t, err)
}

func TestOptionsArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts Options
		want []string
	}{
		"defaults": {
			opts: Options{OutputDir: "/out"},
			want: []string{"cookiecutter", "--no-input", "--output-dir", "/out", DefaultTemplate},
		},
		"config file and sorted context": {
			opts: Options{
				Binary:       "/venv/bin/cookiecutter",
				Template:     "gh:websauna/tmpl",
				OutputDir:    "/out",
				ConfigFile:   "/cfg",
				ExtraContext: map[string]string{"repo_name": "my.app", "email": "a@b", "project_name": "A: B"},
			},
			want: []string{
				"/venv/bin/cookiecutter", "--no-input", "--output-dir", "/out", "--config-file", "/cfg",
				"gh:websauna/tmpl", "email=a@b", "project_name=A: B", "repo_name=my.app",
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.opts.Args())
		})
	}
}

func TestDefaultExtraContext(t *testing.T) {
	t.Parallel()

	ctx := DefaultExtraContext()
	assert.Len(t, ctx, 14)
	assert.Equal(t, "my.app", ctx["repo_name"])
	assert.Equal(t, "No", ctx["create_virtualenv"])

	// Callers get their own copy.
	ctx["repo_name"] = "changed"
	assert.Equal(t, "my.app", DefaultExtraContext()["repo_name"])
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), Options{ExtraContext: DefaultExtraContext()}, nil)
	assert.Error(t, err)

	_, err = Generate(context.Background(), Options{OutputDir: t.TempDir()}, nil)
	assert.Error(t, err)
}

// writeFakeCookiecutter creates a script that mimics cookiecutter by
// creating the repo_name directory under --output-dir.
func writeFakeCookiecutter(t *testing.T, exitCode int) string {
	t.Helper()
	script := filepath.Join(t.TempDir(), "cookiecutter")
	body := `#!/bin/sh
out=""
repo=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output-dir) out="$2"; shift 2 ;;
    --config-file) shift 2 ;;
    repo_name=*) repo="${1#repo_name=}"; shift ;;
    *) shift ;;
  esac
done
echo "rendering $repo"
mkdir -p "$out/$repo"
exit ` + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	dir, err := Generate(context.Background(), Options{
		Binary:       writeFakeCookiecutter(t, 0),
		OutputDir:    out,
		ExtraContext: DefaultExtraContext(),
		Timeout:      10 * time.Second,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "my.app"), dir)
	assert.DirExists(t, dir)
}

func TestGenerate_Failure(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), Options{
		Binary:       writeFakeCookiecutter(t, 3),
		OutputDir:    t.TempDir(),
		ExtraContext: DefaultExtraContext(),
		Timeout:      10 * time.Second,
	}, nil)
	require.ErrorIs(t, err, execrun.ErrUnexpectedExit)

	var cerr *execrun.CommandError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 3, cerr.ExitCode)
	assert.Contains(t, cerr.Stdout, "rendering my.app")
}
