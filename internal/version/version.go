// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the version line printed by `jdiv --version`.
func String() string {
	return fmt.Sprintf("jdiv version %s (commit: %s, built: %s)", Version, Commit, Date)
}
