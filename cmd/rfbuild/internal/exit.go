package internal

import (
	"errors"

	"github.com/TextsHQ/rust-fetch/internal/artifact"
	"github.com/TextsHQ/rust-fetch/internal/build"
	"github.com/TextsHQ/rust-fetch/internal/dylib"
	"github.com/TextsHQ/rust-fetch/internal/target"
)

// Exit codes, one per failure class.
const (
	exitInvalidArch     = 2
	exitInvalidPlatform = 3
	exitBuildFailed     = 4
	exitNotFound        = 5
	exitConversion      = 6
)

// ExitError is an error with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError maps pipeline errors to exit codes. It returns nil for errors
// without a dedicated code.
func exitError(err error) *ExitError {
	var (
		cfgErr   *target.ConfigError
		buildErr *build.BuildError
		notFound *artifact.NotFoundError
		convErr  *dylib.ConversionError
	)
	switch {
	case errors.As(err, &cfgErr):
		code := exitInvalidPlatform
		if cfgErr.Kind == "arch" {
			code = exitInvalidArch
		}
		return &ExitError{Code: code, Message: cfgErr.Error()}
	case errors.As(err, &buildErr):
		return &ExitError{Code: exitBuildFailed, Message: buildErr.Error()}
	case errors.As(err, &notFound):
		return &ExitError{Code: exitNotFound, Message: notFound.Error()}
	case errors.As(err, &convErr):
		return &ExitError{Code: exitConversion, Message: convErr.Error()}
	}
	return nil
}
