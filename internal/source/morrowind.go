package source

import (
	"context"
	"path/filepath"

	"github.com/theirongolddev/savegames/internal/model"
)

// Morrowind reads .ess saves from the game's Saves folder.
type Morrowind struct{}

func (Morrowind) GameID() string { return "morrowind" }

func (Morrowind) SaveFolder(env Env, _ string) string {
	if env.GamePath == "" {
		return ""
	}
	return filepath.Join(env.GamePath, "Saves")
}

func (Morrowind) QuickParse(ctx context.Context, folder string) ([]model.Save, error) {
	return ScanFolder(ctx, folder, HasExtension(".ess"))
}

// FullParse has nothing to extract beyond the quick scan.
func (Morrowind) FullParse(_ context.Context, _ string, saves []model.Save) ([]model.Save, error) {
	out := make([]model.Save, len(saves))
	for i, s := range saves {
		out[i], _ = MissingPaths(s)
	}
	return out, nil
}
