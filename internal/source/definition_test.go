package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	yml := `games:
  - id: skyrimse
    name: Skyrim Special Edition
    folder: "{documents}/My Games/Skyrim Special Edition/Saves"
    extensions: [".ess"]
    companions: [".skse"]
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "skyrimse" || defs[0].Companions[0] != ".skse" {
		t.Fatalf("defs = %+v", defs)
	}

	got := NewDefinedGame(defs[0]).SaveFolder(Env{DocumentsDir: "/docs"}, "p1")
	want := filepath.Join("/docs", "My Games", "Skyrim Special Edition", "Saves")
	if got != want {
		t.Errorf("SaveFolder = %q, want %q", got, want)
	}
	if got := NewDefinedGame(defs[0]).SaveFolder(Env{}, "p1"); got != "" {
		t.Errorf("SaveFolder without documents = %q, want empty", got)
	}
}

func TestLoadDefinitions_MissingFile(t *testing.T) {
	defs, err := LoadDefinitions(filepath.Join(t.TempDir(), "games.yaml"))
	if err != nil || defs != nil {
		t.Fatalf("LoadDefinitions = %v, %v; want nil, nil", defs, err)
	}
}

func TestLoadDefinitions_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	if err := os.WriteFile(path, []byte("games:\n  - id: x\n    folder: /saves\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Fatal("expected error for definition without extensions")
	}
}

func TestDefinedGame_GroupsCompanions(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"Save1.ess":   "12345",
		"Save1.skse":  "123",
		"Save2.ess":   "1",
		"Orphan.skse": "1",
	})
	newer := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := os.Chtimes(filepath.Join(dir, "Save1.skse"), newer, newer); err != nil {
		t.Fatal(err)
	}

	g := NewDefinedGame(Definition{ID: "skyrimse", Folder: dir, Extensions: []string{".ess"}, Companions: []string{".skse"}})
	saves, err := g.QuickParse(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(saves), ids(saves))
	}

	byID := map[string]int{}
	for i, s := range saves {
		byID[s.ID] = i
	}
	s1 := saves[byID["Save1.ess"]]
	if len(s1.Paths) != 2 || s1.Paths[1] != "Save1.skse" {
		t.Errorf("Save1 paths = %v", s1.Paths)
	}
	if s1.Size != 8 {
		t.Errorf("Save1 size = %d, want 8", s1.Size)
	}
	if !s1.Date.Equal(newer) {
		t.Errorf("Save1 date = %v, want companion mtime %v", s1.Date, newer)
	}
	if s2 := saves[byID["Save2.ess"]]; len(s2.Paths) != 1 {
		t.Errorf("Save2 paths = %v", s2.Paths)
	}
}

func TestRegisterDefinitions_CannotOverrideBuiltin(t *testing.T) {
	r := Default("")
	err := RegisterDefinitions(r, []Definition{{ID: "morrowind", Folder: "/x", Extensions: []string{".ess"}}})
	if !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("err = %v, want ErrDuplicateGame", err)
	}
}
