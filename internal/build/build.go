// Package build runs one native library build from target selection to the
// installed artifact.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/TextsHQ/rust-fetch/internal/artifact"
	"github.com/TextsHQ/rust-fetch/internal/config"
	"github.com/TextsHQ/rust-fetch/internal/dylib"
	"github.com/TextsHQ/rust-fetch/internal/env"
	"github.com/TextsHQ/rust-fetch/internal/install"
	"github.com/TextsHQ/rust-fetch/internal/proc"
	"github.com/TextsHQ/rust-fetch/internal/target"
	"github.com/TextsHQ/rust-fetch/x/ar"
	"github.com/TextsHQ/rust-fetch/x/cargo"
	"github.com/TextsHQ/rust-fetch/x/clang"
	"github.com/TextsHQ/rust-fetch/x/xcrun"
)

// Tool builds the crate for one triple.
type Tool interface {
	Build(ctx context.Context, triple string) error
}

// Options configures a Builder. Nil collaborators get the real tools.
type Options struct {
	Config *config.Config
	Env    *env.Vars

	// NewTool returns the build tool for cfg.
	NewTool func(cfg cargo.Config) Tool

	Toolchain dylib.Toolchain
	Linker    dylib.Linker
	Archiver  dylib.Archiver

	// Stdout and Stderr receive the output of the build tool and the
	// final link.
	Stdout io.Writer
	Stderr io.Writer
}

// Request is one build.
type Request struct {
	Arch      string
	Platform  string
	Simulator bool

	// OutDir receives the installed library.
	OutDir string
	// TargetDir is cargo's target directory.
	TargetDir string
}

// Result describes a finished build.
type Result struct {
	Triple   string
	Artifact string // library found in the cargo output
	Dest     string // installed library

	Converted bool
	Report    *dylib.Report // set when Converted
}

// BuildError reports a failed build tool run.
type BuildError struct {
	Triple string
	Code   int // exit code, -1 if the tool did not run
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cargo failed to run: %v", e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Builder runs builds. It holds no per-build state.
type Builder struct {
	cfg  *config.Config
	vars *env.Vars

	newTool   func(cargo.Config) Tool
	toolchain dylib.Toolchain
	linker    dylib.Linker
	archiver  dylib.Archiver
	stdout    io.Writer
	stderr    io.Writer
}

// NewBuilder returns a Builder for opts.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		cfg:       opts.Config,
		vars:      opts.Env,
		newTool:   opts.NewTool,
		toolchain: opts.Toolchain,
		linker:    opts.Linker,
		archiver:  opts.Archiver,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
	}
	if b.cfg == nil {
		b.cfg = config.Default()
	}
	if b.vars == nil {
		b.vars = &env.Vars{}
	}
	if b.stdout == nil {
		b.stdout = os.Stdout
	}
	if b.stderr == nil {
		b.stderr = os.Stderr
	}
	if b.newTool == nil {
		b.newTool = func(cfg cargo.Config) Tool {
			c := cargo.New(cfg)
			c.SetOutput(b.stdout, b.stderr)
			return c
		}
	}
	if b.toolchain == nil {
		b.toolchain = xcrun.New()
	}
	if b.linker == nil {
		b.linker = clang.New()
	}
	if b.archiver == nil {
		b.archiver = ar.New()
	}
	return b
}

// Build resolves the target, runs the build tool, finds the library and
// installs it into req.OutDir. iOS static archives are linked into a
// dynamic library instead of being copied.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	tgt, err := target.New(req.Arch, req.Platform, req.Simulator)
	if err != nil {
		return nil, err
	}
	triple := tgt.Resolve(b.vars.Target)
	if b.vars.Target != "" {
		log.Infof("using %s=%s", env.TargetKey, triple)
	}

	tool := b.newTool(cargo.Config{
		Cargo:     b.vars.Cargo,
		TargetDir: req.TargetDir,
		LTO:       b.cfg.LTO,
		RustFlags: b.vars.RustFlags,
		StaticCRT: tgt.Platform == target.Win,
	})
	if err := tool.Build(ctx, triple); err != nil {
		return nil, &BuildError{Triple: triple, Code: proc.ExitCode(err), Err: err}
	}

	src, err := artifact.Locate(req.TargetDir, triple, b.cfg.Library)
	if err != nil {
		return nil, err
	}
	log.Infof("found %s", src)

	res := &Result{
		Triple:   triple,
		Artifact: src,
		Dest:     filepath.Join(req.OutDir, b.cfg.Output),
	}
	if !target.IsRestricted(triple) || !artifact.IsStaticArchive(src) {
		if err := install.Copy(src, res.Dest); err != nil {
			return nil, fmt.Errorf("install %s: %w", res.Dest, err)
		}
		return res, nil
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, err
	}
	conv := dylib.New(b.toolchain, b.linker, b.archiver)
	conv.SetOutput(b.stderr)
	report, err := conv.Convert(ctx, dylib.Options{
		Archive:    src,
		Dest:       res.Dest,
		Arch:       tgt.DylibArch(),
		SDK:        sdk(tgt, triple),
		MinVersion: b.cfg.MinVersion,
		Frameworks: b.cfg.Frameworks,
		MaxPasses:  b.cfg.MaxPasses,
	})
	res.Converted = true
	res.Report = report
	return res, err
}

// sdk picks the simulator SDK for simulator targets, including triples
// pinned through the environment.
func sdk(tgt target.Target, triple string) string {
	if strings.HasSuffix(triple, "-sim") {
		return "iphonesimulator"
	}
	return tgt.SDK()
}
