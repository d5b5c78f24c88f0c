// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "CINEMA_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the CINEMA_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Cinema))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Cinema))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Prefs resolves the JSON preference file holding resume positions and renderer parameters.
func Prefs() string {
	return filepath.Join(Config(), "prefs.json")
}

// PrefsDB resolves the sqlite preference database used by the sqlite backend.
func PrefsDB() string {
	return filepath.Join(Config(), "prefs.sqlite")
}

// History resolves the file listing recently played movies.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the file holding previous library search queries.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Thumbnails resolves the directory for posters of movies living on read-only media.
func Thumbnails() string {
	return ensureDir(filepath.Join(Cache(), "thumbnails"))
}

// Temp resolves a volatile filesystem path for transient application artifacts such as grabbed frames.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Cinema))
}

// Home returns the user's home directory, falling back to the working directory.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
