package cli

import (
	"strings"
	"testing"
)

func TestRenderTable_Alignment(t *testing.T) {
	ConfigureColor(true)

	out := RenderTable(Table{
		Headers:    []string{"Name", "Size", "Summary"},
		Rows:       [][]string{{"Gatecrasher", "1.5 kB", "Geoscape"}, {"b", "12 MB", "x"}},
		RightAlign: []int{1},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[4], "│ b           │  12 MB │ x        │") {
		t.Errorf("row not aligned: %q", lines[4])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderDetail(t *testing.T) {
	ConfigureColor(true)

	out := RenderDetail("save_1", [][2]string{{"Name", "Op"}, {"Summary", "a\nb"}})
	if !strings.Contains(out, "    Name     Op\n") {
		t.Errorf("missing name line:\n%s", out)
	}
	if !strings.Contains(out, "             b\n") {
		t.Errorf("continuation line not indented:\n%s", out)
	}
}
