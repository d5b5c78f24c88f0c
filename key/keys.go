// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 17

// Media Playback - these keys govern how the playback controller drives the media backend.
const (
	Player          = "player.default"
	PlayerResume    = "player.resume"
	PlayerSeekStep  = "player.seek_step"
	PlayerIdleClose = "player.idle_timeout"
)

// Preference Persistence - these keys select where resume positions and renderer parameters are stored.
const (
	PrefsBackend = "prefs.backend"
)

// Movie Library - these keys configure discovery and presentation of local movie files.
const (
	LibraryDirs    = "library.dirs"
	LibraryPosters = "library.posters"
	LibraryWorkers = "library.workers"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the playback controls' styling and logic.
const (
	TUIShowHelp = "tui.show_help"
	TUIShowSize = "tui.show_video_size"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Library presentation defaults for the CLI listing.
const (
	LibraryShowPaths   = "library.show_paths"
	LibrarySuggestions = "library.query_suggestions"
)
