package ar

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelete(t *testing.T) {
	arPath, err := exec.LookPath("ar")
	if err != nil {
		t.Skip("ar not available")
	}
	dir := t.TempDir()
	for _, name := range []string{"a.o", "b.o"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	archive := filepath.Join(dir, "libx.a")
	cmd := exec.Command(arPath, "rc", archive, "a.o", "b.o")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "ar rc: %s", out)

	a := New(WithPath(arPath))
	require.NoError(t, a.Delete(context.Background(), archive, "a.o"))

	out, err = exec.Command(arPath, "t", archive).Output()
	require.NoError(t, err)
	require.Equal(t, "b.o\n", string(out))
}

func TestDeleteMissingArchive(t *testing.T) {
	if _, err := exec.LookPath("ar"); err != nil {
		t.Skip("ar not available")
	}
	err := New().Delete(context.Background(), filepath.Join(t.TempDir(), "missing.a"), "a.o")
	require.Error(t, err)
}
