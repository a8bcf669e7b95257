package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestReadProcessEnv(t *testing.T) {
	unsetenv(t, TargetKey, RustFlagsKey, CargoKey)
	t.Setenv(TargetKey, "aarch64-apple-ios-sim")
	t.Setenv(RustFlagsKey, "-C opt-level=z")

	v, err := Read("", false)
	require.NoError(t, err)
	require.Equal(t, "aarch64-apple-ios-sim", v.Target)
	require.Equal(t, "-C opt-level=z", v.RustFlags)
	require.Empty(t, v.Cargo)
}

func TestReadDotenv(t *testing.T) {
	unsetenv(t, TargetKey, RustFlagsKey, CargoKey)
	t.Setenv(CargoKey, "/usr/local/bin/cargo")

	path := filepath.Join(t.TempDir(), ".env")
	data := "CARGO_BUILD_TARGET=x86_64-apple-ios\nCARGO=/ignored/cargo\nRUSTFLAGS=\"-C lto\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	v, err := Read(path, true)
	require.NoError(t, err)
	require.Equal(t, "x86_64-apple-ios", v.Target)
	require.Equal(t, "-C lto", v.RustFlags)
	// process environment wins over the file
	require.Equal(t, "/usr/local/bin/cargo", v.Cargo)

	_, ok := os.LookupEnv(TargetKey)
	require.False(t, ok, "Read modified the process environment")
}

func TestReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	_, err := Read(path, false)
	require.NoError(t, err, "optional missing file")
	_, err = Read(path, true)
	require.Error(t, err, "required missing file")
}
