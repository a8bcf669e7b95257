// Package ar edits static archives with the system archive tool.
package ar

import (
	"context"

	"github.com/TextsHQ/rust-fetch/internal/proc"
)

// Ar runs archive maintenance commands.
type Ar struct {
	ar string
}

// Option configures Ar.
type Option func(*Ar)

// WithPath sets a custom ar executable path.
func WithPath(path string) Option {
	return func(a *Ar) {
		a.ar = path
	}
}

// New creates an Ar using "ar" from PATH unless overridden.
func New(opts ...Option) *Ar {
	a := &Ar{ar: "ar"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Delete removes member from archive in place ("ar d").
func (a *Ar) Delete(ctx context.Context, archive, member string) error {
	_, err := proc.Output(proc.Command(ctx, a.ar, "d", archive, member))
	return err
}
