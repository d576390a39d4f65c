package logutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warnings.
	LevelWarn
	// LevelError is for errors.
	LevelError
)

// EnvDebug enables debug logging when set to "true".
const EnvDebug = "BWENV_DEBUG"

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	currentLevel           = LevelWarn
	isStructured           = false
	outputWriter io.Writer = os.Stderr
)

func init() {
	mu.Lock()
	defer mu.Unlock()
	if os.Getenv(EnvDebug) == "true" {
		currentLevel = LevelDebug
	}
	rebuild()
}

// SetupLogger configures the global logger.
//
// Parameters:
//   - debug: When true, enables debug-level logging; otherwise only warnings and errors are logged
//   - structured: When true, outputs JSON-formatted logs; otherwise uses text format
//
// The logger writes to stderr so that it never mixes with console output on stdout.
func SetupLogger(debug, structured bool) {
	SetupLoggerWithWriter(os.Stderr, debug, structured)
}

// SetupLoggerWithWriter configures the logger with a custom writer.
// This is useful for testing or redirecting logs.
func SetupLoggerWithWriter(w io.Writer, debug, structured bool) {
	mu.Lock()
	defer mu.Unlock()

	outputWriter = w
	isStructured = structured
	if debug || os.Getenv(EnvDebug) == "true" {
		currentLevel = LevelDebug
	} else {
		currentLevel = LevelWarn
	}
	rebuild()
}

// SetOutput sets the output writer for the logger, keeping level and format.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	outputWriter = w
	rebuild()
}

// SetLevel sets the logging level programmatically.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	rebuild()
}

// rebuild recreates the global logger. Caller must hold mu.
func rebuild() {
	opts := &slog.HandlerOptions{Level: toSlogLevel(currentLevel)}

	var handler slog.Handler
	if isStructured {
		handler = slog.NewJSONHandler(outputWriter, opts)
	} else {
		handler = slog.NewTextHandler(outputWriter, opts)
	}
	globalLogger = slog.New(handler)
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return GetLevel() == LevelDebug
}

// Debug logs a debug message with optional key-value pairs.
//
// Example:
//
//	logutil.Debug("running vault command", "args", "list items")
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// ParseLevel parses a string into a Level.
// Valid values are: "debug", "info", "warn", "warning", "error".
// Returns LevelInfo for unrecognized values.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// GetLevel returns the current logging level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Logger returns the underlying slog.Logger for advanced usage.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}
