package host

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/source"
)

// DefaultColumns are shown for every supported game.
func (h *Host) DefaultColumns() []source.Column {
	return []source.Column{
		{ID: "image", Name: "Image", Placement: source.PlaceDetail, Position: 0, Calc: h.Image},
		{ID: "name", Name: "Name", Placement: source.PlaceBoth, Position: 10, Sortable: true,
			Calc: model.Save.DisplayName},
		{ID: "date", Name: "Date", Description: "Last modified", Placement: source.PlaceBoth, Position: 20, Sortable: true,
			Calc: func(s model.Save) string { return cli.FormatAge(s.Date, time.Now()) }},
		{ID: "size", Name: "Size", Placement: source.PlaceBoth, Position: 30, Sortable: true,
			Calc: func(s model.Save) string { return cli.FormatSize(s.Size) }},
		{ID: "summary", Name: "Summary", Placement: source.PlaceDetail, Position: 50,
			Calc: model.Save.Summary},
		{ID: "files", Name: "Files", Placement: source.PlaceDetail, Position: 60,
			Calc: func(s model.Save) string { return strings.Join(s.Paths, "\n") }},
	}
}

// Columns returns the default columns plus those of the active game,
// ordered by position.
func (h *Host) Columns() []source.Column {
	cols := h.DefaultColumns()
	if cp, ok := h.parser().(source.ColumnProvider); ok {
		cols = append(cols, cp.Columns()...)
	}
	slices.SortStableFunc(cols, func(a, b source.Column) int { return a.Position - b.Position })
	return cols
}

// TableColumns returns the columns shown in the save table.
func (h *Host) TableColumns() []source.Column {
	var out []source.Column
	for _, c := range h.Columns() {
		if c.Placement != source.PlaceDetail {
			out = append(out, c)
		}
	}
	return out
}

// DetailColumns returns the columns shown for a single save.
func (h *Host) DetailColumns() []source.Column {
	var out []source.Column
	for _, c := range h.Columns() {
		if c.Placement != source.PlaceTable {
			out = append(out, c)
		}
	}
	return out
}

// Actions returns the row actions for a selection: delete, then any the
// active game provides.
func (h *Host) Actions(selected []model.Save, confirmer pipeline.Confirmer) []source.Action {
	actions := []source.Action{{
		ID:    "delete",
		Title: "Delete",
		Run: func(ctx context.Context, saves []model.Save) error {
			_, err := h.Delete(ctx, model.IDs(saves), confirmer)
			return err
		},
	}}
	if ap, ok := h.parser().(source.ActionProvider); ok {
		actions = append(actions, ap.Actions(selected, h.SavesPath())...)
	}
	return actions
}
