// Package target maps an (architecture, platform) pair to the cargo target
// triple used for the build.
package target

import (
	"fmt"
	"strings"
)

// Arch is a build architecture as spelled on the command line.
type Arch string

const (
	X64   Arch = "x64"
	IA32  Arch = "ia32"
	ARM64 Arch = "arm64"
)

// Platform is a target operating system as spelled on the command line.
type Platform string

const (
	Mac   Platform = "mac"
	IOS   Platform = "ios"
	Win   Platform = "win"
	Linux Platform = "linux"
)

var archSegments = map[Arch]string{
	X64:   "x86_64",
	IA32:  "i686",
	ARM64: "aarch64",
}

var platformSuffixes = map[Platform]string{
	Mac:   "-apple-darwin",
	IOS:   "-apple-ios",
	Win:   "-pc-windows-msvc",
	Linux: "-unknown-linux-gnu",
}

const simulatorSuffix = "-sim"

// Arches returns the accepted architecture names in display order.
func Arches() []string {
	return []string{string(X64), string(IA32), string(ARM64)}
}

// Platforms returns the accepted platform names in display order.
func Platforms() []string {
	return []string{string(Mac), string(IOS), string(Win), string(Linux)}
}

// ConfigError reports an architecture or platform outside the known set.
type ConfigError struct {
	Kind  string // "arch" or "os"
	Value string
	Valid []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s must be one of %s, got %q", e.Kind, strings.Join(e.Valid, ", "), e.Value)
}

// ParseArch validates s as an architecture name.
func ParseArch(s string) (Arch, error) {
	a := Arch(s)
	if _, ok := archSegments[a]; !ok {
		return "", &ConfigError{Kind: "arch", Value: s, Valid: Arches()}
	}
	return a, nil
}

// ParsePlatform validates s as a platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if _, ok := platformSuffixes[p]; !ok {
		return "", &ConfigError{Kind: "os", Value: s, Valid: Platforms()}
	}
	return p, nil
}

// Target is one build target. The zero value is not valid; use New.
type Target struct {
	Arch      Arch
	Platform  Platform
	Simulator bool
}

// New validates arch and platform and returns the corresponding Target.
// The architecture is checked first.
func New(arch, platform string, simulator bool) (Target, error) {
	a, err := ParseArch(arch)
	if err != nil {
		return Target{}, err
	}
	p, err := ParsePlatform(platform)
	if err != nil {
		return Target{}, err
	}
	return Target{Arch: a, Platform: p, Simulator: simulator}, nil
}

// Triple returns the derived cargo target triple.
func (t Target) Triple() string {
	triple := archSegments[t.Arch] + platformSuffixes[t.Platform]
	if t.Platform == IOS && t.Arch == ARM64 && t.Simulator {
		triple += simulatorSuffix
	}
	return triple
}

// DylibArch returns the -arch value understood by the Apple linker.
func (t Target) DylibArch() string {
	seg := archSegments[t.Arch]
	if seg == "aarch64" {
		return "arm64"
	}
	return seg
}

// SDK returns the xcrun SDK flavor for an iOS target.
func (t Target) SDK() string {
	if t.Simulator {
		return "iphonesimulator"
	}
	return "iphoneos"
}

// Resolve returns override when it is non-empty and the derived triple
// otherwise. The override is not checked.
func (t Target) Resolve(override string) string {
	if override != "" {
		return override
	}
	return t.Triple()
}

// Resolve validates the inputs and returns the triple to build.
func Resolve(arch, platform string, simulator bool, override string) (string, error) {
	t, err := New(arch, platform, simulator)
	if err != nil {
		return "", err
	}
	return t.Resolve(override), nil
}

// IsRestricted reports whether triple names a platform whose toolchain
// cannot emit a shared library directly.
func IsRestricted(triple string) bool {
	return strings.Contains(triple, "apple-ios")
}
