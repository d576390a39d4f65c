// Package logutil provides structured diagnostic logging built on log/slog.
//
// Diagnostic logs are separate from console output: they go to stderr and are
// limited to warnings and errors unless debug mode is enabled.
//
// # Basic Usage
//
//	logutil.SetupLogger(debug, structured)
//
//	log := logutil.NewLogger("bitwarden")
//	log.Debug("running vault command", "args", args)
//
// # Debug Mode
//
// Debug logging is enabled by passing debug=true to SetupLogger or by setting
// BWENV_DEBUG=true.
//
// Secret values and session tokens must never be passed to the logger.
package logutil
