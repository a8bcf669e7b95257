// Package dylib turns a static archive into an iOS dynamic library.
//
// Rust cannot emit a cdylib for iOS, so the staticlib is force-loaded into
// a shared library by the SDK's clang. Archives that merge the objects of
// several crates often hold members with the same file name, and the
// linker then fails with duplicate symbols. The converter reads those
// errors, deletes the offending members from the archive, and links again.
package dylib

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/qiniu/x/log"

	"github.com/TextsHQ/rust-fetch/internal/proc"
)

// Defaults used when Options leaves a field empty.
var (
	DefaultMinVersion = "12.0"
	DefaultFrameworks = []string{"CoreFoundation", "Security"}
	DefaultMaxPasses  = 3
)

// Toolchain resolves SDK-specific tools.
type Toolchain interface {
	Find(ctx context.Context, sdk, tool string) (string, error)
	SDKPath(ctx context.Context, sdk string) (string, error)
}

// Linker runs the compiler driver cc with args and returns everything it
// printed. A non-zero exit must be reported as *proc.ExitError; any other
// error means cc did not run.
type Linker interface {
	Link(ctx context.Context, cc string, args []string) ([]byte, error)
}

// Archiver deletes members from a static archive.
type Archiver interface {
	Delete(ctx context.Context, archive, member string) error
}

// Options describes one conversion.
type Options struct {
	Archive string // input static archive, edited in place
	Dest    string // dynamic library to produce

	Arch       string // -arch value, e.g. arm64
	SDK        string // xcrun SDK, e.g. iphoneos
	MinVersion string // -miphoneos-version-min
	Frameworks []string

	// MaxPasses bounds the remediate-and-relink cycles. Values below one
	// mean one.
	MaxPasses int
}

// Removal is the outcome of deleting one archive member.
type Removal struct {
	Member string
	Err    error
}

// Pass is one remediate-and-relink cycle.
type Pass struct {
	Findings []Finding
	Removals []Removal
}

// Report records what a conversion did.
type Report struct {
	Command string
	Passes  []Pass
}

// ConversionError reports that no usable library was produced.
type ConversionError struct {
	Command string
	Code    int // linker exit code, -1 if it did not run
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("failed converting to dylib: %v", e.Err)
	}
	return fmt.Sprintf("failed converting to dylib: %v\ncmd: %s", e.Err, e.Command)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter links static archives into dynamic libraries.
type Converter struct {
	toolchain Toolchain
	linker    Linker
	archiver  Archiver
	output    io.Writer
}

// New returns a Converter using the given collaborators.
func New(toolchain Toolchain, linker Linker, archiver Archiver) *Converter {
	return &Converter{
		toolchain: toolchain,
		linker:    linker,
		archiver:  archiver,
		output:    os.Stderr,
	}
}

// SetOutput sets where relink output is echoed.
func (c *Converter) SetOutput(w io.Writer) {
	c.output = w
}

// Convert links opts.Archive into opts.Dest.
//
// The first link only collects diagnostics. Every pass then removes the
// reported members and relinks with the same command line; passes repeat
// while the relink fails with new duplicate symbols and MaxPasses allows.
// The conversion succeeds when the last relink exits zero and Dest exists.
func (c *Converter) Convert(ctx context.Context, opts Options) (*Report, error) {
	cc, err := c.toolchain.Find(ctx, opts.SDK, "clang")
	if err != nil {
		return nil, &ConversionError{Code: -1, Err: err}
	}
	sysroot, err := c.toolchain.SDKPath(ctx, opts.SDK)
	if err != nil {
		return nil, &ConversionError{Code: -1, Err: err}
	}

	args := linkArgs(sysroot, opts)
	report := &Report{Command: proc.CommandLine(append([]string{cc}, args...))}

	out, err := c.linker.Link(ctx, cc, args)
	if err != nil && proc.ExitCode(err) < 0 {
		// keep scanning what we have
		out = append(out, err.Error()...)
	}
	log.Debugf("diagnostic link output:\n%s", out)

	attempted := make(map[string]bool)
	maxPasses := max(opts.MaxPasses, 1)
	findings := ParseDuplicates(out)
	for {
		report.Passes = append(report.Passes, Pass{
			Findings: findings,
			Removals: c.remove(ctx, opts.Archive, findings),
		})
		for _, f := range findings {
			attempted[f.Member] = true
		}

		out, err = c.linker.Link(ctx, cc, args)
		if err != nil && proc.ExitCode(err) < 0 {
			return report, &ConversionError{Command: report.Command, Code: -1, Err: err}
		}
		if err == nil || len(report.Passes) >= maxPasses {
			break
		}
		findings = ParseDuplicates(out)
		if !hasNew(findings, attempted) {
			break
		}
		log.Debugf("relink output:\n%s", out)
		log.Infof("relink reports new duplicate symbols, starting pass %d", len(report.Passes)+1)
	}

	if len(out) > 0 {
		if _, werr := c.output.Write(out); werr != nil {
			log.Warnf("could not echo linker output: %v", werr)
		}
	}
	if err != nil {
		return report, &ConversionError{Command: report.Command, Code: proc.ExitCode(err), Err: err}
	}
	if _, err := os.Stat(opts.Dest); err != nil {
		return report, &ConversionError{Command: report.Command, Code: 0, Err: fmt.Errorf("linker produced no %s: %w", opts.Dest, err)}
	}
	return report, nil
}

// remove deletes each finding's member from archive. Failures are recorded
// and skipped: members are often missing already or share a name with
// another member.
func (c *Converter) remove(ctx context.Context, archive string, findings []Finding) []Removal {
	removals := make([]Removal, 0, len(findings))
	for _, f := range findings {
		log.Debugf("duplicate symbol %s in %s", f.Symbol, f.Member)
		err := c.archiver.Delete(ctx, archive, f.Member)
		if err != nil {
			log.Warnf("could not remove %s from %s: %v", f.Member, archive, err)
		}
		removals = append(removals, Removal{Member: f.Member, Err: err})
	}
	return removals
}

// hasNew reports whether findings name a member not yet attempted.
func hasNew(findings []Finding, attempted map[string]bool) bool {
	for _, f := range findings {
		if !attempted[f.Member] {
			return true
		}
	}
	return false
}

func linkArgs(sysroot string, opts Options) []string {
	minVersion := opts.MinVersion
	if minVersion == "" {
		minVersion = DefaultMinVersion
	}
	frameworks := opts.Frameworks
	if frameworks == nil {
		frameworks = DefaultFrameworks
	}

	args := []string{
		"-arch", opts.Arch,
		"-isysroot", sysroot,
		"-miphoneos-version-min=" + minVersion,
		"-fPIC",
		"-fvisibility=default",
		"-shared",
	}
	for _, fw := range frameworks {
		args = append(args, "-framework", fw)
	}
	return append(args, "-Wl,-all_load", opts.Archive, "-o", opts.Dest)
}
