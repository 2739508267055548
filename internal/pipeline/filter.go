package pipeline

import (
	"slices"
	"strings"

	"github.com/theirongolddev/savegames/internal/model"
)

// SortKey names a sortable save attribute.
type SortKey string

const (
	SortDate SortKey = "date"
	SortName SortKey = "name"
	SortSize SortKey = "size"
)

// SortKeys lists the sort keys in cycle order. Date is the default.
var SortKeys = []SortKey{SortDate, SortName, SortSize}

// ParseSortKey maps a user-supplied name to a key, defaulting to date.
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return SortDate, false
}

// Sort returns a sorted copy of saves. Date and size sort newest/largest
// first; name sorts A-Z. reverse flips the order. Ties keep input order.
func Sort(saves []model.Save, key SortKey, reverse bool) []model.Save {
	out := slices.Clone(saves)
	cmp := func(a, b model.Save) int {
		switch key {
		case SortName:
			return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		case SortSize:
			return compareInt64(b.Size, a.Size)
		default:
			return b.Date.Compare(a.Date)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Save) int {
		if reverse {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Filter keeps saves whose name, id or summary contains query,
// case-insensitively. An empty query keeps everything.
func Filter(saves []model.Save, query string) []model.Save {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return saves
	}
	var out []model.Save
	for _, s := range saves {
		if strings.Contains(strings.ToLower(s.DisplayName()), q) ||
			strings.Contains(strings.ToLower(s.ID), q) ||
			strings.Contains(strings.ToLower(s.Summary()), q) {
			out = append(out, s)
		}
	}
	return out
}

// Totals sums save sizes, ignoring unknown ones, and counts failed saves.
func Totals(saves []model.Save) (size int64, failed int) {
	for _, s := range saves {
		if s.Size > 0 {
			size += s.Size
		}
		if s.Failed() {
			failed++
		}
	}
	return size, failed
}
