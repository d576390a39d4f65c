// Package pathutil locates external executables such as the Bitwarden CLI.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrToolNotFound indicates an executable that is neither on PATH nor in a
// common install directory.
var ErrToolNotFound = errors.New("executable not found")

// FindToolInPath searches for a tool executable in the system PATH.
// Returns the full path to the executable if found, empty string otherwise.
func FindToolInPath(toolName string) string {
	path, err := exec.LookPath(exeName(toolName))
	if err != nil {
		return ""
	}
	return path
}

// SearchToolInSystemPath searches for a tool in common install directories.
// This finds tools that are installed but not on the current PATH, e.g. global
// npm packages in a shell that never sourced the npm prefix.
// Returns the full path to the executable if found, empty string otherwise.
func SearchToolInSystemPath(toolName string) string {
	name := exeName(toolName)
	if runtime.GOOS == "windows" {
		// npm installs .cmd shims on Windows
		name = strings.TrimSuffix(name, ".exe") + ".cmd"
	}
	for _, dir := range searchPaths() {
		fullPath := filepath.Join(dir, name)
		if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
			return fullPath
		}
	}
	return ""
}

// ResolveExecutable returns the path of the named tool. Names containing a
// path separator are used as given and must exist. Bare names are looked up
// on PATH, then in common install directories.
func ResolveExecutable(toolName string) (string, error) {
	if strings.ContainsAny(toolName, `/\`) {
		info, err := os.Stat(toolName)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrToolNotFound, toolName)
		}
		return toolName, nil
	}

	if path := FindToolInPath(toolName); path != "" {
		return path, nil
	}
	if path := SearchToolInSystemPath(toolName); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s. %s", ErrToolNotFound, toolName, GetInstallSuggestion(toolName))
}

// GetInstallSuggestion returns a suggestion for how to install a missing tool.
func GetInstallSuggestion(toolName string) string {
	suggestions := map[string]string{
		"bw":   "Install the Bitwarden CLI with 'npm install -g @bitwarden/cli' or see https://bitwarden.com/help/cli/",
		"npm":  "Install Node.js from https://nodejs.org/",
		"node": "Install from https://nodejs.org/",
	}

	name := strings.TrimSuffix(strings.ToLower(filepath.Base(toolName)), ".exe")
	if suggestion, ok := suggestions[name]; ok {
		return suggestion
	}
	return fmt.Sprintf("Please install %s and ensure it's in your PATH", toolName)
}

func exeName(toolName string) string {
	if runtime.GOOS == "windows" && filepath.Ext(toolName) == "" {
		return toolName + ".exe"
	}
	return toolName
}

func searchPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{
			filepath.Join(os.Getenv("APPDATA"), "npm"),
			filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming", "npm"),
			filepath.Join(os.Getenv("ProgramData"), "chocolatey", "bin"),
			filepath.Join(os.Getenv("USERPROFILE"), "scoop", "shims"),
		}
	}
	homeDir, _ := os.UserHomeDir()
	return []string{
		"/usr/local/bin",
		"/usr/bin",
		"/opt/homebrew/bin",
		"/snap/bin",
		filepath.Join(homeDir, ".local", "bin"),
		filepath.Join(homeDir, ".npm-global", "bin"),
	}
}
