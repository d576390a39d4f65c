// Package security provides validation utilities for user-provided names and
// paths used by bwenv.
//
// # Key Features
//
//   - Environment name validation (names become part of ".env.<name>" file names)
//   - Project name validation (names become part of "project/env" grouping names)
//   - Argument redaction for logging vault command lines without session tokens
//   - File permission validation (detects group- or world-writable config files)
//
// # Example
//
//	for _, env := range envs {
//	    if err := security.ValidateEnvironmentName(env); err != nil {
//	        return err
//	    }
//	}
//
//	logutil.Debug("running", "args", security.RedactArgs(args, "--session"))
package security
