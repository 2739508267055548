package source

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/savegames/internal/model"
)

const geoscapeHeader = "XCOM 2\n" +
	"v1\n" +
	"Operation Broken Sun\n" +
	"Geoscape\n" +
	"Month 3\n" +
	"Commander\n" +
	"trailer\n" +
	"binary junk after the header\n"

func TestXCOM2FullParse_ExtractsHeader(t *testing.T) {
	dir := writeFiles(t, map[string]string{"save_1": geoscapeHeader})
	x := NewXCOM2(XCOM2WotC, "/assets")

	in := []model.Save{{ID: "save_1", Paths: []string{"save_1"}, Size: int64(len(geoscapeHeader))}}
	out, err := x.FullParse(context.Background(), dir, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}

	d := out[0].Details
	if d == nil {
		t.Fatalf("Details = nil, errors = %v", out[0].Errors)
	}
	if d.Name != "Operation Broken Sun" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Summary != "Geoscape\nMonth 3\nCommander" {
		t.Errorf("Summary = %q", d.Summary)
	}
	if d.Image != filepath.Join("/assets", xcomImageGeoscape) {
		t.Errorf("Image = %q, want geoscape thumbnail", d.Image)
	}
}

func TestXCOM2FullParse_GenericImageAndCRLF(t *testing.T) {
	header := strings.ReplaceAll("a\nb\nTactical Save\nMission: Gatecrasher\nTurn 4\nSquad 6\n", "\n", "\r\n")
	dir := writeFiles(t, map[string]string{"autosave_7": header})

	out, err := NewXCOM2(XCOM2Base, "assets").FullParse(context.Background(), dir,
		[]model.Save{{ID: "autosave_7", Paths: []string{"autosave_7"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := out[0].Details
	if d == nil {
		t.Fatal("Details = nil")
	}
	if d.Name != "Tactical Save" {
		t.Errorf("Name = %q, want CR stripped", d.Name)
	}
	if filepath.Base(d.Image) != xcomImageGeneric {
		t.Errorf("Image = %q, want generic", d.Image)
	}
}

func TestXCOM2FullParse_PreservesOrderAndIdentity(t *testing.T) {
	dir := writeFiles(t, map[string]string{"b": geoscapeHeader, "a": geoscapeHeader})
	in := []model.Save{
		{ID: "b", Paths: []string{"b"}},
		{ID: "missing", Paths: []string{"missing"}},
		{ID: "empty", Paths: nil},
		{ID: "a", Paths: []string{"a"}},
	}

	out, err := NewXCOM2(XCOM2Base, "").FullParse(context.Background(), dir, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := model.IDs(out)
	want := []string{"b", "missing", "empty", "a"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("ids = %v, want %v", got, want)
	}

	if !out[1].Failed() || out[1].Errors[0].Message != MsgParseFailed {
		t.Errorf("unreadable save errors = %v, want %q", out[1].Errors, MsgParseFailed)
	}
	if !out[2].Failed() || out[2].Errors[0].Message != MsgMissingPaths {
		t.Errorf("empty paths errors = %v, want %q", out[2].Errors, MsgMissingPaths)
	}
	if out[2].Details != nil {
		t.Error("empty paths save should have no details")
	}
}

func TestXCOM2SaveFolder(t *testing.T) {
	env := Env{DocumentsDir: "/home/u/Documents"}
	got := NewXCOM2(XCOM2WotC, "").SaveFolder(env, "p1")
	want := filepath.Join("/home/u/Documents", "My Games", "XCOM2 War of the Chosen", "XComGame", "SaveData")
	if got != want {
		t.Errorf("SaveFolder = %q, want %q", got, want)
	}
	if NewXCOM2(XCOM2Base, "").SaveFolder(Env{}, "p1") != "" {
		t.Error("SaveFolder without documents dir should be empty")
	}
}

func TestXCOM2SaveTypeColumn(t *testing.T) {
	if cols := NewXCOM2(XCOM2Base, "").Columns(); len(cols) != 0 {
		t.Errorf("base game columns = %d, want 0", len(cols))
	}
	cols := NewXCOM2(XCOM2WotC, "").Columns()
	if len(cols) != 1 || cols[0].ID != "xcom2-savetype" {
		t.Fatalf("wotc columns = %+v", cols)
	}
	if got := cols[0].Calc(model.Save{ID: "AutoSave_12"}); got != "Autosave" {
		t.Errorf("Calc(autosave) = %q", got)
	}
	if got := cols[0].Calc(model.Save{ID: "save_3"}); got != "Manual" {
		t.Errorf("Calc(manual) = %q", got)
	}
}

func TestMorrowindFullParse_MissingPaths(t *testing.T) {
	out, err := Morrowind{}.FullParse(context.Background(), "", []model.Save{
		{ID: "ok.ess", Paths: []string{"ok.ess"}},
		{ID: "bad.ess"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Failed() {
		t.Errorf("ok.ess errors = %v", out[0].Errors)
	}
	if !out[1].Failed() || out[1].Details != nil {
		t.Errorf("bad.ess = %+v, want error and no details", out[1])
	}
}
