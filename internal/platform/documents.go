// Package platform resolves OS folders and opens paths in the file browser.
package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentsDir returns override when set, otherwise the OS documents folder.
func DocumentsDir(override string) string {
	if override != "" {
		return override
	}
	if dir := documentsDir(); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Documents")
}

// OpenFolder opens dir with the platform file browser. It returns once the
// browser process has been started.
func OpenFolder(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("no folder to open")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("opening %s: %w", dir, err)
	}
	cmd := openCommand(ctx, dir)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
