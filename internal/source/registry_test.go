package source

import (
	"strings"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default("")
	got := strings.Join(r.Games(), ",")
	if got != "morrowind,xcom2,xcom2-wotc" {
		t.Fatalf("Games() = %s", got)
	}

	if _, ok := r.Lookup("skyrim"); ok {
		t.Error("Lookup(skyrim) should miss")
	}
	g, ok := r.Lookup("xcom2-wotc")
	if !ok || g.GameID() != "xcom2-wotc" {
		t.Fatalf("Lookup(xcom2-wotc) = %v, %v", g, ok)
	}
	if _, ok := g.(ColumnProvider); !ok {
		t.Error("xcom2-wotc should provide columns")
	}
}

func TestRegistry_RejectsEmptyID(t *testing.T) {
	if err := NewRegistry().Register(NewDefinedGame(Definition{})); err == nil {
		t.Fatal("expected error for empty id")
	}
}
