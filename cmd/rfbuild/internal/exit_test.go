package internal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TextsHQ/rust-fetch/internal/artifact"
	"github.com/TextsHQ/rust-fetch/internal/build"
	"github.com/TextsHQ/rust-fetch/internal/dylib"
	"github.com/TextsHQ/rust-fetch/internal/env"
	"github.com/TextsHQ/rust-fetch/internal/target"
)

func TestExitError(t *testing.T) {
	_, archErr := target.New("mips", "linux", false)
	_, osErr := target.New("x64", "beos", false)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"arch", archErr, exitInvalidArch},
		{"os", osErr, exitInvalidPlatform},
		{"build", &build.BuildError{Code: 101, Err: errors.New("exit status 101")}, exitBuildFailed},
		{"not found", &artifact.NotFoundError{Dir: "target/x/release"}, exitNotFound},
		{"conversion", &dylib.ConversionError{Command: "clang", Code: 1, Err: errors.New("exit status 1")}, exitConversion},
		{"wrapped", fmt.Errorf("outer: %w", &artifact.NotFoundError{}), exitNotFound},
	}
	for _, tt := range tests {
		got := exitError(tt.err)
		require.NotNil(t, got, tt.name)
		require.Equal(t, tt.code, got.Code, tt.name)
	}

	require.Nil(t, exitError(errors.New("flag error")))
}

func TestExitCodesDistinct(t *testing.T) {
	seen := map[int]bool{}
	for _, code := range []int{exitInvalidArch, exitInvalidPlatform, exitBuildFailed, exitNotFound, exitConversion} {
		require.False(t, code == 0 || code == 1 || seen[code], "exit code %d reused", code)
		seen[code] = true
	}
}

func clearTargetEnv(t *testing.T) {
	t.Setenv(env.TargetKey, "")
	os.Unsetenv(env.TargetKey)
}

func runTripleCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"triple"}, args...))
	require.NoError(t, rootCmd.Execute())
	return strings.TrimSpace(out.String())
}

func TestTripleCommand(t *testing.T) {
	clearTargetEnv(t)
	require.Equal(t, "aarch64-apple-ios-sim", runTripleCmd(t, "--os", "ios", "--arch", "arm64", "--simulator"))
}

func TestTripleCommandSimulatorValue(t *testing.T) {
	clearTargetEnv(t)
	require.Equal(t, "aarch64-apple-ios-sim", runTripleCmd(t, "--os", "ios", "--arch", "arm64", "--simulator=1"))
	require.Equal(t, "aarch64-apple-ios", runTripleCmd(t, "--os", "ios", "--arch", "arm64", "--simulator=0"))
}

func TestTripleCommandOverride(t *testing.T) {
	t.Setenv(env.TargetKey, "armv7-apple-ios")
	require.Equal(t, "armv7-apple-ios", runTripleCmd(t, "--os", "ios", "--arch", "arm64", "--simulator=false"))
}

func TestFlagUsageListsValues(t *testing.T) {
	for _, cmd := range []string{"build", "triple"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		for _, p := range target.Platforms() {
			require.Contains(t, c.Flags().Lookup("os").Usage, p, cmd)
		}
		for _, a := range target.Arches() {
			require.Contains(t, c.Flags().Lookup("arch").Usage, a, cmd)
		}
	}
}

func TestBuildCommandInvalidArch(t *testing.T) {
	clearTargetEnv(t)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"build", "--os", "linux", "--arch", "mips", "--cargo-build-dir", t.TempDir()})
	err := rootCmd.Execute()
	exitErr := exitError(err)
	require.NotNil(t, exitErr, "build --arch mips: err = %v", err)
	require.Equal(t, exitInvalidArch, exitErr.Code)
	for _, want := range target.Arches() {
		require.Contains(t, exitErr.Message, want)
	}
}
