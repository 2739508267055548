package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/savegames/internal/model"

	"gopkg.in/yaml.v3"
)

// Definition describes a game whose saves are plain files in one folder.
type Definition struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name,omitempty"`
	Folder        string   `yaml:"folder"` // supports {documents}, {game}, {profile}
	Extensions    []string `yaml:"extensions,omitempty"`
	NoExtension   bool     `yaml:"no_extension,omitempty"`
	Companions    []string `yaml:"companions,omitempty"` // same-stem files grouped into one save
	FallbackImage string   `yaml:"fallback_image,omitempty"`
}

type definitionsFile struct {
	Games []Definition `yaml:"games"`
}

// LoadDefinitions reads game definitions from a YAML file. A missing file
// yields no definitions.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading game definitions: %w", err)
	}

	var f definitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing game definitions: %w", err)
	}
	for i, d := range f.Games {
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("game definition %d: %w", i, err)
		}
	}
	return f.Games, nil
}

// RegisterDefinitions adds each definition to r. Built-in ids cannot be
// overridden.
func RegisterDefinitions(r *Registry, defs []Definition) error {
	for _, d := range defs {
		if err := r.Register(DefinedGame{def: d}); err != nil {
			return err
		}
	}
	return nil
}

func (d Definition) validate() error {
	if d.ID == "" {
		return errors.New("missing id")
	}
	if d.Folder == "" {
		return fmt.Errorf("%s: missing folder", d.ID)
	}
	if len(d.Extensions) == 0 && !d.NoExtension {
		return fmt.Errorf("%s: needs extensions or no_extension", d.ID)
	}
	return nil
}

// DefinedGame adapts a Definition to SaveGameData.
type DefinedGame struct {
	def Definition
}

// NewDefinedGame wraps d.
func NewDefinedGame(d Definition) DefinedGame { return DefinedGame{def: d} }

func (g DefinedGame) GameID() string { return g.def.ID }

// SaveFolder expands the folder template. A placeholder with no value makes
// the folder unresolvable.
func (g DefinedGame) SaveFolder(env Env, profileID string) string {
	values := map[string]string{
		"{documents}": env.DocumentsDir,
		"{game}":      env.GamePath,
		"{profile}":   profileID,
	}
	folder := g.def.Folder
	for key, val := range values {
		if !strings.Contains(folder, key) {
			continue
		}
		if val == "" {
			return ""
		}
		folder = strings.ReplaceAll(folder, key, val)
	}
	return filepath.Clean(filepath.FromSlash(folder))
}

func (g DefinedGame) accept(name string) bool {
	if g.def.NoExtension && NoExtension(name) {
		return true
	}
	return len(g.def.Extensions) > 0 && HasExtension(g.def.Extensions...)(name)
}

// QuickParse scans primary save files, then folds same-stem companion files
// into each save's paths, size and date.
func (g DefinedGame) QuickParse(ctx context.Context, folder string) ([]model.Save, error) {
	saves, err := ScanFolder(ctx, folder, g.accept)
	if err != nil || len(g.def.Companions) == 0 {
		return saves, err
	}

	for i, s := range saves {
		if s.Failed() {
			continue
		}
		stem := strings.TrimSuffix(s.ID, filepath.Ext(s.ID))
		for _, ext := range g.def.Companions {
			name := stem + ext
			info, err := os.Stat(filepath.Join(folder, name))
			if err != nil || info.IsDir() {
				continue
			}
			s.Paths = append(s.Paths, name)
			s.Size += info.Size()
			if info.ModTime().After(s.Date) {
				s.Date = info.ModTime()
			}
		}
		saves[i] = s
	}
	return saves, nil
}

// FullParse only checks that every save still has files.
func (g DefinedGame) FullParse(_ context.Context, _ string, saves []model.Save) ([]model.Save, error) {
	out := make([]model.Save, len(saves))
	for i, s := range saves {
		out[i], _ = MissingPaths(s)
		if out[i].Details == nil && !out[i].Failed() && g.def.Name != "" {
			out[i].Details = &model.Details{Extra: map[string]string{"game": g.def.Name}}
		}
	}
	return out, nil
}

func (g DefinedGame) FallbackImage() string { return g.def.FallbackImage }
