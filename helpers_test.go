package scaffoldenv_test

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeFakeVenv creates <folder>/venv/bin/activate exporting FAKE_VENV.
func makeFakeVenv(t *testing.T, folder string) {
	t.Helper()
	bin := filepath.Join(folder, "venv", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "activate"),
		[]byte("FAKE_VENV=active; export FAKE_VENV\n"), 0o644))
}

// freePort returns a TCP port nothing listens on right now.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
