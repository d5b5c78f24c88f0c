// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Cinema is the canonical application identifier used for filesystem paths and CLI branding.
	Cinema = "cinema"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden at link time via -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// AsciiArtLogo is the application banner printed above the root help text.
const AsciiArtLogo = `
  ___ (_)_ __   ___ _ __ ___   __ _
 / __|| | '_ \ / _ \ '_ ' _ \ / _' |
| (__ | | | | |  __/ | | | | | (_| |
 \___||_|_| |_|\___|_| |_| |_|\__,_|`
