// Package version exposes build metadata stamped in via ldflags.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/ldenis/synctray/internal/version.Version=...".
var Version = "dev"
