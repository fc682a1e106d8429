// Package build holds version metadata stamped at link time.
package build

var (
	// Version is the release version, set with -ldflags "-X".
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
