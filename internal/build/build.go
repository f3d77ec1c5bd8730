// Package build holds build-time information.
package build

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"

// Commit and Date are set by linker flags on release builds.
var (
	Commit = "none"
	Date   = "unknown"
)

// String returns the version line printed by the CLI.
func String() string {
	if Commit == "none" {
		return Version
	}
	return Version + " (" + Commit + ", " + Date + ")"
}
