package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/savegames/internal/model"
)

func fixtureSaves() []model.Save {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Save{
		{ID: "b", Date: base, Size: 300, Details: &model.Details{Name: "Bravo", Summary: "Geoscape"}},
		{ID: "a", Date: base.Add(2 * time.Hour), Size: 100, Details: &model.Details{Name: "alpha"}},
		{ID: "c", Date: base.Add(time.Hour), Size: model.SizeUnknown},
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		key     SortKey
		reverse bool
		want    []string
	}{
		{SortDate, false, []string{"a", "c", "b"}},
		{SortDate, true, []string{"b", "c", "a"}},
		{SortName, false, []string{"a", "b", "c"}},
		{SortSize, false, []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		got := model.IDs(Sort(fixtureSaves(), tt.key, tt.reverse))
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("Sort(%s, %v) = %v, want %v", tt.key, tt.reverse, got, tt.want)
				break
			}
		}
	}
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey("Size"); !ok || k != SortSize {
		t.Errorf("ParseSortKey(Size) = %s, %v", k, ok)
	}
	if k, ok := ParseSortKey("bogus"); ok || k != SortDate {
		t.Errorf("ParseSortKey(bogus) = %s, %v, want date, false", k, ok)
	}
}

func TestFilter(t *testing.T) {
	saves := fixtureSaves()
	if got := Filter(saves, ""); len(got) != 3 {
		t.Errorf("empty query kept %d saves, want 3", len(got))
	}
	if got := model.IDs(Filter(saves, "geo")); len(got) != 1 || got[0] != "b" {
		t.Errorf("Filter(geo) = %v, want [b]", got)
	}
	if got := model.IDs(Filter(saves, "ALPHA")); len(got) != 1 || got[0] != "a" {
		t.Errorf("Filter(ALPHA) = %v, want [a]", got)
	}
}

func TestTotals(t *testing.T) {
	saves := fixtureSaves()
	saves[2] = saves[2].WithError("Failed to parse saved game", nil)
	size, failed := Totals(saves)
	if size != 400 {
		t.Errorf("size = %d, want 400", size)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}
