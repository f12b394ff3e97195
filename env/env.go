// Package env carries build metadata stamped in via -ldflags at link time.
package env

var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
)
