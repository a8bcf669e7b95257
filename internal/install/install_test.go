package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "librust_fetch.so")
	content := []byte("\x7fELF\x00\x01binary")
	require.NoError(t, os.WriteFile(src, content, 0o644))

	dst := filepath.Join(dir, "build", "Release", "rf.node")
	require.NoError(t, Copy(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestCopyOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new")
	dst := filepath.Join(dir, "rf.node")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old and much longer"), 0o644))

	require.NoError(t, Copy(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "rf.node")))
	require.NoFileExists(t, filepath.Join(dir, "rf.node"))
}
