// Package clang runs a compiler driver as a linker and captures what it
// prints.
package clang

import (
	"context"

	"github.com/TextsHQ/rust-fetch/internal/proc"
)

// Driver links with the compiler driver passed to Link.
type Driver struct{}

// New returns a Driver.
func New() *Driver {
	return &Driver{}
}

// Link runs cc with args and returns its combined stdout and stderr. A
// non-zero exit is reported as *proc.ExitError alongside the output; any
// other error means cc could not be started.
func (d *Driver) Link(ctx context.Context, cc string, args []string) ([]byte, error) {
	return proc.CombinedOutput(proc.Command(ctx, cc, args...))
}
