package pipeline

import (
	"os"
	"path/filepath"
)

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "savegames")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "savegames")
}

// CachePath returns the full path to the details cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "details.db")
}
