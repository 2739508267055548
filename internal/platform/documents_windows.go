//go:build windows

package platform

import (
	"context"
	"os/exec"

	"golang.org/x/sys/windows"
)

func documentsDir() string {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_Documents, windows.KF_FLAG_DEFAULT)
	if err != nil {
		return ""
	}
	return dir
}

func openCommand(ctx context.Context, dir string) *exec.Cmd {
	return exec.CommandContext(ctx, "explorer.exe", dir)
}
