// Package version holds build-time version information, overridden via
// -ldflags at release build time.
package version

// Version is the daemon's version string, set via -ldflags
// "-X github.com/lumichain/lumichain-go/internal/version.Version=...".
var Version = "dev"
