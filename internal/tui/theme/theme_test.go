package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("terminal").Name; got != "terminal" {
		t.Errorf("ByName(terminal) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %q, want default", got)
	}
	if n := len(Names()); n != len(All) {
		t.Errorf("len(Names()) = %d, want %d", n, len(All))
	}
}
