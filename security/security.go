// Package security provides input validation and redaction helpers that keep
// user-supplied names from escaping the output directory and keep session
// tokens out of logs.
package security

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime"
)

var (
	// ErrInvalidEnvironmentName indicates an environment name that cannot be used in a file name.
	ErrInvalidEnvironmentName = errors.New("invalid environment name")
	// ErrInvalidProjectName indicates an empty or malformed project name.
	ErrInvalidProjectName = errors.New("invalid project name")
	// ErrInsecureFilePermissions indicates a file writable by group or others.
	ErrInsecureFilePermissions = errors.New("insecure file permissions")

	// environmentNamePattern - alphanumeric start, then alphanumeric, underscore, hyphen, or dot.
	// Max 63 characters to align with DNS label limits.
	environmentNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,62}$`)
)

// Redacted replaces sensitive values in logs and error messages.
const Redacted = "[REDACTED]"

// ValidateEnvironmentName validates that an environment name is safe to embed
// in a ".env.<name>" file name. Names must:
// - Start with an alphanumeric character
// - Contain only alphanumeric characters, underscores, hyphens, or dots
// - Be at most 63 characters
func ValidateEnvironmentName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: environment name cannot be empty", ErrInvalidEnvironmentName)
	}
	if len(name) > 63 {
		return fmt.Errorf("%w: %q exceeds maximum length of 63 characters", ErrInvalidEnvironmentName, name)
	}
	if !environmentNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with alphanumeric and contain only alphanumeric, underscore, hyphen, or dot", ErrInvalidEnvironmentName, name)
	}
	return nil
}

// ValidateProjectName rejects project names that cannot form a "project/env"
// grouping name. Project names may contain spaces; slashes are reserved as the
// grouping separator.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: project name cannot be empty", ErrInvalidProjectName)
	}
	for _, r := range name {
		if r == '/' || r < 0x20 {
			return fmt.Errorf("%w: %q contains a slash or control character", ErrInvalidProjectName, name)
		}
	}
	return nil
}

// RedactArgs returns a copy of args where the value following any of the
// given flags is replaced by Redacted.
func RedactArgs(args []string, flags ...string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		for _, flag := range flags {
			if out[i] == flag {
				out[i+1] = Redacted
				i++
				break
			}
		}
	}
	return out
}

// ValidateFilePermissions checks if a file has secure permissions.
// On Unix systems, it ensures the file is neither group- nor world-writable.
// On Windows, this check is skipped as Windows uses ACLs differently.
func ValidateFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Mode().Perm()&0o022 != 0 {
		return ErrInsecureFilePermissions
	}
	return nil
}
