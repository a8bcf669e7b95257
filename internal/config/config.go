// Package config loads the optional rfbuild.hcl file.
//
// Every setting has a default, so a missing file is not an error unless
// the user named one explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/mod/semver"

	"github.com/TextsHQ/rust-fetch/internal/dylib"
	"github.com/TextsHQ/rust-fetch/x/cargo"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "rfbuild.hcl"

// Config is the resolved build configuration.
type Config struct {
	// Library is the crate's library name, used to find the artifact.
	Library string
	// Output is the installed file name inside the output directory.
	Output string
	// LTO is the release profile LTO mode passed to cargo.
	LTO string

	// iOS conversion.
	MinVersion string
	Frameworks []string
	MaxPasses  int
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Library:    "rust_fetch",
		Output:     "rf.node",
		LTO:        cargo.DefaultLTO,
		MinVersion: dylib.DefaultMinVersion,
		Frameworks: append([]string(nil), dylib.DefaultFrameworks...),
		MaxPasses:  dylib.DefaultMaxPasses,
	}
}

type hclFile struct {
	Library string    `hcl:"library,optional"`
	Output  string    `hcl:"output,optional"`
	Cargo   *hclCargo `hcl:"cargo,block"`
	IOS     *hclIOS   `hcl:"ios,block"`
}

type hclCargo struct {
	LTO string `hcl:"lto,optional"`
}

type hclIOS struct {
	MinVersion string   `hcl:"min_version,optional"`
	Frameworks []string `hcl:"frameworks,optional"`
	MaxPasses  int      `hcl:"max_passes,optional"`
}

// Load reads path on top of the defaults. A missing file yields the
// defaults unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	cfg.merge(&parsed)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(f *hclFile) {
	if f.Library != "" {
		c.Library = f.Library
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.Cargo != nil && f.Cargo.LTO != "" {
		c.LTO = f.Cargo.LTO
	}
	if ios := f.IOS; ios != nil {
		if ios.MinVersion != "" {
			c.MinVersion = ios.MinVersion
		}
		if ios.Frameworks != nil {
			c.Frameworks = ios.Frameworks
		}
		if ios.MaxPasses != 0 {
			c.MaxPasses = ios.MaxPasses
		}
	}
}

// Validate checks the settings that would otherwise fail late, inside an
// external tool.
func (c *Config) Validate() error {
	if c.Library == "" {
		return errors.New("library must not be empty")
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	if v := "v" + c.MinVersion; !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return fmt.Errorf("ios.min_version %q is not a version like 12.0", c.MinVersion)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("ios.max_passes must be at least 1, got %d", c.MaxPasses)
	}
	return nil
}
