//go:build !windows

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// documentsDir honours XDG_DOCUMENTS_DIR, which may use a $HOME prefix.
func documentsDir() string {
	dir := os.Getenv("XDG_DOCUMENTS_DIR")
	if dir == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(dir, "$HOME"); ok {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, rest)
	}
	return dir
}
