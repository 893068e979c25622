// Package buildinfo exposes build-time version metadata injected via ldflags.
package buildinfo

var (
	// Version is the release version of the binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// BuildDate records when the binary was built.
	BuildDate = "unknown"
)
