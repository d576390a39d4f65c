// Package cliout provides console output for the bwenv command with
// color-coded severities and an optional JSON mode.
//
// # Basic Usage
//
//	cliout.Info("Unlocking vault...")
//	cliout.Success(".env.%s file written successfully.", env)
//	cliout.Warning("secret %s not found in %s", key, group)
//	cliout.Error("%v", err)
//
// # Output Formats
//
//   - default: human-readable text with colors and Unicode symbols
//   - json: structured output for scripting, see Print and PrintJSON
//
// Colors are disabled when NO_COLOR is set or after NoColor is called.
// Unicode symbols fall back to ASCII on legacy Windows consoles.
//
// All output goes to stdout unless redirected with SetOutput.
package cliout
