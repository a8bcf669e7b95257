// Package xcrun queries the Xcode toolchain for SDK-specific tools.
package xcrun

import (
	"context"
	"fmt"

	"github.com/TextsHQ/rust-fetch/internal/proc"
)

// Xcrun locates tools and SDK roots.
type Xcrun struct {
	xcrun string
}

// Option configures Xcrun.
type Option func(*Xcrun)

// WithPath sets a custom xcrun executable path.
func WithPath(path string) Option {
	return func(x *Xcrun) {
		x.xcrun = path
	}
}

// New creates an Xcrun.
func New(opts ...Option) *Xcrun {
	x := &Xcrun{xcrun: "xcrun"}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Find returns the absolute path of tool inside sdk.
func (x *Xcrun) Find(ctx context.Context, sdk, tool string) (string, error) {
	path, err := proc.Output(proc.Command(ctx, x.xcrun, "--sdk", sdk, "--find", tool))
	if err != nil {
		return "", fmt.Errorf("find %s in %s: %w", tool, sdk, err)
	}
	return path, nil
}

// SDKPath returns the sysroot of sdk.
func (x *Xcrun) SDKPath(ctx context.Context, sdk string) (string, error) {
	path, err := proc.Output(proc.Command(ctx, x.xcrun, "--sdk", sdk, "--show-sdk-path"))
	if err != nil {
		return "", fmt.Errorf("sdk path of %s: %w", sdk, err)
	}
	return path, nil
}
