//go:build !windows && !darwin

package platform

import (
	"context"
	"os/exec"
)

func openCommand(ctx context.Context, dir string) *exec.Cmd {
	return exec.CommandContext(ctx, "xdg-open", dir)
}
