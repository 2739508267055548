package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/theirongolddev/savegames/internal/model"
)

// writeFiles creates files (name -> content) in a fresh temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func ids(saves []model.Save) []string {
	out := model.IDs(saves)
	sort.Strings(out)
	return out
}

func TestMorrowindQuickParse_FiltersExtension(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.ess":     "aaaa",
		"b.ess":     "bb",
		"notes.txt": "not a save",
	})

	saves, err := Morrowind{}.QuickParse(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(saves)
	if len(got) != 2 || got[0] != "a.ess" || got[1] != "b.ess" {
		t.Fatalf("ids = %v, want [a.ess b.ess]", got)
	}
}

func TestXCOM2QuickParse_SkipsDirectories(t *testing.T) {
	dir := writeFiles(t, map[string]string{"SAVE01": "header"})
	if err := os.Mkdir(filepath.Join(dir, "Backups"), 0o750); err != nil {
		t.Fatal(err)
	}

	saves, err := NewXCOM2(XCOM2Base, "").QuickParse(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saves) != 1 || saves[0].ID != "SAVE01" {
		t.Fatalf("saves = %v, want only SAVE01", model.IDs(saves))
	}
}

func TestScanFolder_SizeAndDate(t *testing.T) {
	dir := writeFiles(t, map[string]string{"quick.ess": "0123456789"})
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(dir, "quick.ess"), mtime, mtime); err != nil {
		t.Fatal(err)
	}

	saves, err := ScanFolder(context.Background(), dir, HasExtension(".ess"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("len = %d, want 1", len(saves))
	}

	s := saves[0]
	if s.Size != 10 {
		t.Errorf("Size = %d, want 10", s.Size)
	}
	if !s.Date.Equal(mtime) {
		t.Errorf("Date = %v, want %v", s.Date, mtime)
	}
	if len(s.Paths) != 1 || s.Paths[0] != "quick.ess" {
		t.Errorf("Paths = %v, want [quick.ess]", s.Paths)
	}
	if s.Failed() {
		t.Errorf("unexpected errors: %v", s.Errors)
	}
}

func TestScanFolder_MissingFolder(t *testing.T) {
	saves, err := ScanFolder(context.Background(), filepath.Join(t.TempDir(), "nope"), NoExtension)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saves == nil || len(saves) != 0 {
		t.Fatalf("saves = %v, want empty non-nil", saves)
	}
}

func TestScanFolder_BrokenSymlinkBecomesErrorRecord(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken.ess")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	saves, err := ScanFolder(context.Background(), dir, HasExtension(".ess"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("len = %d, want 1", len(saves))
	}
	s := saves[0]
	if s.Size != model.SizeUnknown {
		t.Errorf("Size = %d, want %d", s.Size, model.SizeUnknown)
	}
	if !s.Date.Equal(model.Epoch) {
		t.Errorf("Date = %v, want epoch", s.Date)
	}
	if !s.Failed() || s.Errors[0].Message != MsgParseFailed {
		t.Errorf("Errors = %v, want %q", s.Errors, MsgParseFailed)
	}
}

func TestHasExtension_CaseInsensitive(t *testing.T) {
	accept := HasExtension(".ess")
	tests := []struct {
		name string
		want bool
	}{
		{"quick.ess", true},
		{"QUICK.ESS", true},
		{"quick.ess.bak", false},
		{"ess", false},
	}
	for _, tt := range tests {
		if got := accept(tt.name); got != tt.want {
			t.Errorf("accept(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
