// Package version holds build information and the version command.
package version

import "fmt"

// Info holds version information for the binary.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

// New creates a new Info with default values. Version, BuildDate, GitCommit
// are expected to be set via ldflags at build time.
func New(name string) *Info {
	return &Info{
		Name:      name,
		Version:   "0.0.0-dev",
		BuildDate: "unknown",
		GitCommit: "unknown",
	}
}

// String returns a human-readable version string.
func (i *Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s)", i.Name, i.Version, i.GitCommit, i.BuildDate)
}
