// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/nanobar-io/nanobar/internal/buildinfo.Version=v0.2.0
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
