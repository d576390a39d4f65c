// Package cmdutil provides command execution utilities: running a command to
// completion while capturing its output, and monitoring stderr line-by-line.
package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// OutputLineHandler is a callback for processing output lines in real-time.
type OutputLineHandler func(line string)

// CaptureOptions configures RunCapture.
type CaptureOptions struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE entries appended to the parent environment.
	// They are visible to the child only.
	Env []string
	// Stdin is connected to the child's stdin; nil means no input.
	Stdin io.Reader
	// OnStderrLine is called for every complete stderr line.
	OnStderrLine OutputLineHandler
}

// Output is the captured result of a finished command.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (o *Output) Success() bool {
	return o.ExitCode == 0
}

// RunCapture runs a command to completion and captures stdout and stderr.
// A non-zero exit status is reported through Output.ExitCode, not as an error;
// the error is reserved for commands that could not be started or were
// interrupted by ctx.
func RunCapture(ctx context.Context, name string, args []string, opts CaptureOptions) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Stdin = opts.Stdin

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr := &lineWriter{handler: opts.OnStderrLine}
	cmd.Stderr = stderr

	err := cmd.Run()
	stderr.Flush()

	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("command interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return nil, fmt.Errorf("failed to run %s: %w", name, err)
}
