package logutil

import "log/slog"

// ComponentLogger provides component-scoped structured logging.
// Attributes are applied to the global logger at call time, so loggers
// created in package variables follow later SetupLogger calls.
type ComponentLogger struct {
	component string
	fields    []any
}

// NewLogger creates a Logger scoped to a named component.
func NewLogger(component string) *ComponentLogger {
	return &ComponentLogger{
		component: component,
		fields:    []any{"component", component},
	}
}

// WithEnvironment returns a new Logger with the target environment added.
func (l *ComponentLogger) WithEnvironment(name string) *ComponentLogger {
	return l.WithFields("environment", name)
}

// WithFields returns a new Logger with additional fields.
// Fields are provided as alternating key-value pairs.
func (l *ComponentLogger) WithFields(fields ...any) *ComponentLogger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &ComponentLogger{
		component: l.component,
		fields:    merged,
	}
}

// Component returns the component name for this logger.
func (l *ComponentLogger) Component() string {
	return l.component
}

func (l *ComponentLogger) slogger() *slog.Logger {
	return Logger().With(l.fields...)
}

// Debug logs a message at debug level.
func (l *ComponentLogger) Debug(msg string, args ...any) {
	l.slogger().Debug(msg, args...)
}

// Info logs a message at info level.
func (l *ComponentLogger) Info(msg string, args ...any) {
	l.slogger().Info(msg, args...)
}

// Warn logs a message at warn level.
func (l *ComponentLogger) Warn(msg string, args ...any) {
	l.slogger().Warn(msg, args...)
}

// Error logs a message at error level.
func (l *ComponentLogger) Error(msg string, args ...any) {
	l.slogger().Error(msg, args...)
}
