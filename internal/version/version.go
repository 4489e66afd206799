// Package version carries build version information, set at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Long returns the version with the commit when available.
func Long() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
