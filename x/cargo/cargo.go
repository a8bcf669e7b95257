// Package cargo wraps "cargo build" for a single release target.
package cargo

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/TextsHQ/rust-fetch/internal/proc"
)

// StaticCRTFlag asks rustc to link the C runtime statically.
const StaticCRTFlag = "-C target-feature=+crt-static"

// DefaultLTO is the release LTO mode. Linux cdylibs drop public symbols of
// their dependencies unless LTO is on; thin is the lightest mode that fixes
// it.
const DefaultLTO = "thin"

// Config is the explicit environment handed to cargo. Nothing here is
// written to the process-wide environment.
type Config struct {
	// Cargo is the cargo executable; empty means "cargo".
	Cargo string

	// TargetDir becomes CARGO_BUILD_TARGET_DIR.
	TargetDir string

	// LTO becomes CARGO_PROFILE_RELEASE_LTO; empty means DefaultLTO.
	LTO string

	// RustFlags is the RUSTFLAGS value from the process or the env file.
	// It is passed through unless empty.
	RustFlags string

	// StaticCRT appends StaticCRTFlag to RustFlags.
	StaticCRT bool
}

// Cargo drives release builds.
type Cargo struct {
	cfg    Config
	stdout io.Writer
	stderr io.Writer
}

// New returns a ready-to-use Cargo.
func New(cfg Config) *Cargo {
	return &Cargo{cfg: cfg, stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects the child's stdout and stderr.
func (c *Cargo) SetOutput(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
}

// Build runs "cargo build --release --target <triple>" and waits for it.
// A non-zero exit is returned as *proc.ExitError.
func (c *Cargo) Build(ctx context.Context, triple string) error {
	return proc.Run(c.command(ctx, triple))
}

func (c *Cargo) command(ctx context.Context, triple string) *exec.Cmd {
	cmd := proc.Command(ctx, c.executable(), "build", "--release", "--target", triple)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Env = mergeEnv(os.Environ(), c.env())
	return cmd
}

func (c *Cargo) executable() string {
	if c.cfg.Cargo != "" {
		return c.cfg.Cargo
	}
	return "cargo"
}

// env returns the variables cargo sees on top of the inherited environment.
func (c *Cargo) env() map[string]string {
	lto := c.cfg.LTO
	if lto == "" {
		lto = DefaultLTO
	}
	env := map[string]string{
		"CARGO_PROFILE_RELEASE_LTO": lto,
	}
	if c.cfg.TargetDir != "" {
		env["CARGO_BUILD_TARGET_DIR"] = c.cfg.TargetDir
	}
	flags := strings.TrimSpace(c.cfg.RustFlags)
	if c.cfg.StaticCRT {
		flags = appendFlag(flags, StaticCRTFlag)
	}
	if flags != "" {
		env["RUSTFLAGS"] = flags
	}
	return env
}

// mergeEnv returns a copy of base with every key in overrides replaced or
// appended.
func mergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, len(base), len(base)+len(overrides))
	copy(merged, base)
	idx := make(map[string]int, len(merged))
	for i, kv := range merged {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	for k, v := range overrides {
		if i, ok := idx[k]; ok {
			merged[i] = k + "=" + v
		} else {
			merged = append(merged, k+"="+v)
		}
	}
	return merged
}

// appendFlag appends a space-separated flag to cur.
func appendFlag(cur, flag string) string {
	if cur = strings.TrimSpace(cur); cur != "" {
		return cur + " " + flag
	}
	return flag
}
