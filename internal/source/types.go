package source

import (
	"context"

	"github.com/theirongolddev/savegames/internal/model"
)

// Env is the read-only host context handed to save folder resolution.
type Env struct {
	DocumentsDir string // user documents folder
	GamePath     string // install path of the profile's game
	GameID       string
}

// SaveGameData is implemented once per supported game.
//
// QuickParse lists and stats candidate saves; FullParse enriches the quick
// results by reading file contents. Neither reports per-save failures as
// errors: those are recorded on the returned saves. A non-nil error means the
// call as a whole failed.
type SaveGameData interface {
	GameID() string
	SaveFolder(env Env, profileID string) string
	QuickParse(ctx context.Context, folder string) ([]model.Save, error)
	FullParse(ctx context.Context, folder string, saves []model.Save) ([]model.Save, error)
}

// Placement controls where a column is shown.
type Placement string

const (
	PlaceTable  Placement = "table"
	PlaceDetail Placement = "detail"
	PlaceBoth   Placement = "both"
)

// Column is a computed table attribute.
type Column struct {
	ID          string
	Name        string
	Description string
	Placement   Placement
	Position    int
	Sortable    bool
	Calc        func(s model.Save) string
}

// Action is a row action applied to a selection of saves.
type Action struct {
	ID    string
	Title string
	Run   func(ctx context.Context, selected []model.Save) error
}

// ColumnProvider is implemented by games that add table columns.
type ColumnProvider interface {
	Columns() []Column
}

// ActionProvider is implemented by games that add row actions.
type ActionProvider interface {
	Actions(saves []model.Save, folder string) []Action
}

// FallbackImager is implemented by games with a default save image.
type FallbackImager interface {
	FallbackImage() string
}

// ProfileAware is implemented by games that isolate saves per profile.
// Nothing in the fetch pipeline calls it yet.
type ProfileAware interface {
	OnProfileChange(ctx context.Context, oldProfileID, newProfileID string) error
}
