// Package cliout provides structured output formatting for the bwenv command.
// It supports human-readable text and JSON, with consistent styling using
// ANSI colors and Unicode symbols.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolArrow   = "→"
	SymbolDot     = "•"
)

// ASCII fallback symbols for terminals that don't support Unicode
const (
	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
	ASCIIArrow   = "->"
	ASCIIDot     = "*"
)

var (
	mu           sync.RWMutex
	globalFormat = FormatDefault
	noColor      = os.Getenv("NO_COLOR") != ""
	output       io.Writer
)

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

// ForceColor enables color output regardless of NO_COLOR.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// SetOutput redirects all console output. A nil writer restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

func out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	if output != nil {
		return output
	}
	// resolved on every call so that tests swapping os.Stdout see the output
	return os.Stdout
}

// color wraps text in the given ANSI code unless colors are disabled.
func color(code, text string) string {
	mu.RLock()
	disabled := noColor
	mu.RUnlock()
	if disabled || code == "" {
		return text
	}
	return code + text + Reset
}

var supportsUnicode = detectUnicodeSupport()

// detectUnicodeSupport checks if the terminal can display Unicode properly
func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	// Windows Terminal, VS Code, ConEmu and PowerShell all render Unicode;
	// the legacy console host does not.
	for _, key := range []string{"WT_SESSION", "ConEmuPID", "PSModulePath", "TERM"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return os.Getenv("TERM_PROGRAM") == "vscode"
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	mu.Lock()
	defer mu.Unlock()
	switch format {
	case "default", "":
		globalFormat = FormatDefault
	case "json":
		globalFormat = FormatJSON
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, json)", format)
	}
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// PrintJSON prints data as indented JSON.
func PrintJSON(data interface{}) error {
	encoder := json.NewEncoder(out())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Print outputs data in the configured format.
// For default format, uses the formatter function.
// For JSON format, marshals the data object.
func Print(data interface{}, formatter func()) error {
	if IsJSON() {
		return PrintJSON(data)
	}
	formatter()
	return nil
}

func printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(out(), format, args...)
}

// Header prints a bold header with a divider
func Header(text string) {
	printf("\n%s\n%s\n", color(Bold, text), strings.Repeat("=", len(text)))
}

// Success prints a success message with green checkmark
func Success(format string, args ...interface{}) {
	printf("%s %s\n", color(BrightGreen, getIcon(SymbolCheck, ASCIICheck)), fmt.Sprintf(format, args...))
}

// Error prints an error message with red X
func Error(format string, args ...interface{}) {
	printf("%s %s\n", color(BrightRed, getIcon(SymbolCross, ASCIICross)), fmt.Sprintf(format, args...))
}

// Warning prints a warning message with yellow triangle
func Warning(format string, args ...interface{}) {
	printf("%s  %s\n", color(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), fmt.Sprintf(format, args...))
}

// Info prints an info message with blue info icon
func Info(format string, args ...interface{}) {
	printf("%s  %s\n", color(BrightBlue, getIcon(SymbolInfo, ASCIIInfo)), fmt.Sprintf(format, args...))
}

// Debug prints a magenta debug line.
func Debug(format string, args ...interface{}) {
	printf("%s %s\n", color(Magenta, "[debug]"), fmt.Sprintf(format, args...))
}

// Step prints an arrow-prefixed progress line.
func Step(format string, args ...interface{}) {
	printf("%s %s\n", color(Cyan, getIcon(SymbolArrow, ASCIIArrow)), fmt.Sprintf(format, args...))
}

// ItemSuccess prints an indented success item
func ItemSuccess(format string, args ...interface{}) {
	printf("   %s %s\n", color(Green, getIcon(SymbolCheck, ASCIICheck)), fmt.Sprintf(format, args...))
}

// ItemWarning prints an indented warning item
func ItemWarning(format string, args ...interface{}) {
	printf("   %s  %s\n", color(Yellow, getIcon(SymbolWarning, ASCIIWarning)), fmt.Sprintf(format, args...))
}

// Label prints a label and value pair
func Label(label, value string) {
	printf("   %s %s\n", color(Dim, fmt.Sprintf("%-12s", label+":")), value)
}

// TableRow represents a row in a table as a map of column header to value.
type TableRow map[string]string

// Table prints a simple table with the given headers and rows.
func Table(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make(map[string]int, len(headers))
	for _, header := range headers {
		widths[header] = len(header)
	}
	for _, row := range rows {
		for _, header := range headers {
			if len(row[header]) > widths[header] {
				widths[header] = len(row[header])
			}
		}
	}

	var b strings.Builder
	b.WriteString("   ")
	for _, header := range headers {
		b.WriteString(color(Bold, fmt.Sprintf("%-*s", widths[header], header)) + "  ")
	}
	b.WriteString("\n   ")
	for _, header := range headers {
		b.WriteString(strings.Repeat("─", widths[header]) + "  ")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("   ")
		for _, header := range headers {
			b.WriteString(fmt.Sprintf("%-*s  ", widths[header], row[header]))
		}
		b.WriteString("\n")
	}
	printf("%s", b.String())
}
