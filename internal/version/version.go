// Package version exposes the ringmaster build version.
package version

// Version is overridden at build time via
// -ldflags "-X github.com/alawein/ringmaster/internal/version.Version=...".
var Version = "0.3.0"

// Get returns the current version.
func Get() string {
	return Version
}
