package cliout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jongio/bwenv/testutil"
)

// withBuffer redirects output to a buffer and restores defaults afterwards.
func withBuffer(t *testing.T, colors bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	if colors {
		ForceColor()
	} else {
		NoColor()
	}
	t.Cleanup(func() {
		SetOutput(nil)
		ForceColor()
		_ = SetFormat("default")
	})
	return &buf
}

func TestSetFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"default", FormatDefault, false},
		{"", FormatDefault, false},
		{"json", FormatJSON, false},
		{"yaml", FormatDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_ = SetFormat("default")
			err := SetFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got := GetFormat(); got != tt.want {
				t.Errorf("GetFormat() = %v, want %v", got, tt.want)
			}
		})
	}
	_ = SetFormat("default")
}

func TestSeverityColors(t *testing.T) {
	tests := []struct {
		name  string
		print func(string, ...interface{})
		color string
	}{
		{"success", Success, BrightGreen},
		{"error", Error, BrightRed},
		{"warning", Warning, BrightYellow},
		{"info", Info, BrightBlue},
		{"debug", Debug, Magenta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := withBuffer(t, true)
			tt.print("hello %s", "world")

			got := buf.String()
			if !strings.Contains(got, tt.color) {
				t.Errorf("output %q missing color code %q", got, tt.color)
			}
			if !strings.Contains(got, "hello world") {
				t.Errorf("output %q missing message", got)
			}
			if !strings.HasSuffix(got, "\n") {
				t.Errorf("output %q should end with newline", got)
			}
		})
	}
}

func TestNoColor(t *testing.T) {
	buf := withBuffer(t, false)

	Warning("secret %s not found", "API_KEY")
	ItemSuccess("done")

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected no ANSI escapes, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "secret API_KEY not found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrint(t *testing.T) {
	t.Run("default format calls formatter", func(t *testing.T) {
		buf := withBuffer(t, false)
		called := false
		err := Print(map[string]int{"files": 2}, func() {
			called = true
			Success("written")
		})
		if err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if !called {
			t.Error("formatter was not called")
		}
		if strings.Contains(buf.String(), "{") {
			t.Errorf("default format should not emit JSON: %q", buf.String())
		}
	})

	t.Run("json format marshals data", func(t *testing.T) {
		buf := withBuffer(t, false)
		if err := SetFormat("json"); err != nil {
			t.Fatal(err)
		}
		err := Print(map[string]int{"files": 2}, func() {
			t.Error("formatter should not be called in JSON mode")
		})
		if err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		var decoded map[string]int
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
		}
		if decoded["files"] != 2 {
			t.Errorf("decoded = %v", decoded)
		}
	})
}

func TestTable(t *testing.T) {
	buf := withBuffer(t, false)

	Table([]string{"Key", "Status"}, []TableRow{
		{"Key": "DATABASE_URL", "Status": "found"},
		{"Key": "API_KEY", "Status": "missing"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, divider and 2 rows, got %d lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "DATABASE_URL") || !strings.Contains(lines[3], "missing") {
		t.Errorf("rows out of order: %q", lines)
	}
}

func TestTableEmpty(t *testing.T) {
	buf := withBuffer(t, false)
	Table([]string{"Key"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty table, got %q", buf.String())
	}
}

func TestDefaultsToStdout(t *testing.T) {
	SetOutput(nil)
	output := testutil.CaptureOutput(t, func() error {
		Info("to stdout")
		return nil
	})
	if !strings.Contains(output, "to stdout") {
		t.Errorf("expected stdout to receive output, got %q", output)
	}
}

func ExampleLabel() {
	NoColor()
	SetOutput(nil)
	defer ForceColor()
	Label("Version", "1.0.0")
	// Output:    Version:     1.0.0
}
