// Package testutil provides common testing helpers for bwenv packages.
// It includes helpers for capturing output and creating fixture files.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CaptureOutput captures stdout during function execution.
// It redirects os.Stdout to a pipe, executes the function, and returns the captured output.
// The original stdout is always restored, even if the function returns an error.
//
// Example:
//
//	output := testutil.CaptureOutput(t, func() error {
//	    cliout.Success("done")
//	    return nil
//	})
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	// buffered to avoid a goroutine leak
	outCh := make(chan string, 1)
	go func() {
		var output strings.Builder
		_, _ = io.Copy(&output, r)
		outCh <- output.String()
	}()

	fnErr := fn()

	if err := w.Close(); err != nil {
		t.Logf("Failed to close pipe writer: %v", err)
	}
	os.Stdout = origStdout
	output := <-outCh

	if fnErr != nil {
		t.Logf("Command error: %v", fnErr)
	}
	return output
}

// WriteFile creates name under dir with the given content and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test if it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	// #nosec G304 -- test fixture path
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// ListDir returns the names of the entries in dir, sorted by name.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
