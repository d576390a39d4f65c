package testutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureOutput(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		output := CaptureOutput(t, func() error {
			fmt.Println("line 1")
			fmt.Println("line 2")
			return nil
		})

		if output != "line 1\nline 2\n" {
			t.Errorf("unexpected output %q", output)
		}
	})

	t.Run("restores stdout on error", func(t *testing.T) {
		output := CaptureOutput(t, func() error {
			fmt.Println("output before error")
			return errors.New("test error")
		})

		if !strings.Contains(output, "output before error") {
			t.Error("expected output to contain 'output before error'")
		}
	})
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()

	path := WriteFile(t, dir, ".env.example", "A=1\n")
	if path != filepath.Join(dir, ".env.example") {
		t.Errorf("WriteFile() path = %q", path)
	}
	if got := ReadFile(t, path); got != "A=1\n" {
		t.Errorf("ReadFile() = %q", got)
	}
	if names := ListDir(t, dir); len(names) != 1 || names[0] != ".env.example" {
		t.Errorf("ListDir() = %v", names)
	}
}
