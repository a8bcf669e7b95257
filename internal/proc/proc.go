// Package proc runs external tools and normalizes their failures.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/sys/execabs"
)

// ExitError is returned when a command ran but exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// ExitCode returns the exit status carried by err, or -1 if err did not come
// from a finished process.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// Command returns a command for name. The executable is resolved with
// execabs so a relative path in PATH is never picked up implicitly.
func Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	return execabs.CommandContext(ctx, name, args...)
}

// CommandLine renders args the way they are echoed to the user.
func CommandLine(args []string) string {
	return strings.Join(args, " ")
}

// Run echoes and runs cmd, waiting for it to finish.
func Run(cmd *exec.Cmd) error {
	log.Infof("cmd: %s", CommandLine(cmd.Args))
	return wrap(cmd, cmd.Run())
}

// CombinedOutput runs cmd and returns stdout and stderr interleaved.
func CombinedOutput(cmd *exec.Cmd) ([]byte, error) {
	log.Infof("cmd: %s", CommandLine(cmd.Args))
	out, err := cmd.CombinedOutput()
	return out, wrap(cmd, err)
}

// Output runs cmd and returns its trimmed stdout. On failure the trimmed
// stderr, if any, becomes the error message.
func Output(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = wrap(cmd, err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func wrap(cmd *exec.Cmd, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: CommandLine(cmd.Args), Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("run %s: %w", cmd.Args[0], err)
}
