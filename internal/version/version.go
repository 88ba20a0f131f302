// Package version holds build metadata stamped in via ldflags.
package version

// Defaults apply to plain `go build`; releases override all three.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
