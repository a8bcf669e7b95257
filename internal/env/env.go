// Package env collects the environment-derived inputs of a build.
package env

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Variables read from the environment.
const (
	TargetKey    = "CARGO_BUILD_TARGET"
	RustFlagsKey = "RUSTFLAGS"
	CargoKey     = "CARGO"
)

// DefaultFile is the dotenv file read when none is given explicitly.
const DefaultFile = ".env"

// Vars holds the environment inputs. Empty fields are unset.
type Vars struct {
	// Target pins the cargo triple, replacing the derived one.
	Target string
	// RustFlags is extended with the static CRT flag on Windows.
	RustFlags string
	// Cargo is the cargo executable.
	Cargo string
}

// Read returns Vars from the process environment, falling back to the
// dotenv file at path. The process environment is not modified. A missing
// file is an error only when required is set.
func Read(path string, required bool) (*Vars, error) {
	file := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, err
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}
	return &Vars{
		Target:    lookup(TargetKey),
		RustFlags: lookup(RustFlagsKey),
		Cargo:     lookup(CargoKey),
	}, nil
}
