package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/savegames/internal/model"
)

// XCOM2Variant selects between the base game and War of the Chosen.
type XCOM2Variant int

const (
	XCOM2Base XCOM2Variant = iota
	XCOM2WotC
)

// Header layout of an XCOM 2 save: the name is on the third line and lines
// four to six describe the campaign state.
const (
	xcomHeaderLines  = 7
	xcomNameLine     = 2
	xcomSummaryStart = 3
	xcomSummaryEnd   = 6
)

const (
	xcomImageGeoscape = "xcom2-save-geoscape.jpg"
	xcomImageGeneric  = "xcom2-save-generic.jpg"
)

// XCOM2 reads extensionless saves from the documents SaveData folder.
type XCOM2 struct {
	variant  XCOM2Variant
	assetDir string
}

// NewXCOM2 returns the parser for one XCOM 2 variant. Thumbnails are
// resolved under assetDir.
func NewXCOM2(v XCOM2Variant, assetDir string) XCOM2 {
	return XCOM2{variant: v, assetDir: assetDir}
}

func (x XCOM2) GameID() string {
	if x.variant == XCOM2WotC {
		return "xcom2-wotc"
	}
	return "xcom2"
}

func (x XCOM2) SaveFolder(env Env, _ string) string {
	if env.DocumentsDir == "" {
		return ""
	}
	title := "XCOM2"
	if x.variant == XCOM2WotC {
		title = "XCOM2 War of the Chosen"
	}
	return filepath.Join(env.DocumentsDir, "My Games", title, "XComGame", "SaveData")
}

// XCOM 2 saves do not have a file extension.
func (x XCOM2) QuickParse(ctx context.Context, folder string) ([]model.Save, error) {
	return ScanFolder(ctx, folder, NoExtension)
}

func (x XCOM2) FullParse(ctx context.Context, folder string, saves []model.Save) ([]model.Save, error) {
	out := make([]model.Save, 0, len(saves))
	for _, s := range saves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failed, missing := MissingPaths(s); missing {
			out = append(out, failed)
			continue
		}

		header, err := ReadHeaderLines(filepath.Join(folder, s.Paths[0]), xcomHeaderLines)
		if err != nil {
			out = append(out, s.WithError(MsgParseFailed, err))
			continue
		}
		s.Details = x.detailsFromHeader(header)
		out = append(out, s)
	}
	return out, nil
}

func (x XCOM2) detailsFromHeader(header []string) *model.Details {
	d := &model.Details{}
	if len(header) > xcomNameLine {
		d.Name = header[xcomNameLine]
	}
	if len(header) > xcomSummaryStart {
		end := min(len(header), xcomSummaryEnd)
		d.Summary = strings.Join(header[xcomSummaryStart:end], "\n")
	}

	img := xcomImageGeneric
	if strings.Contains(strings.ToLower(d.Summary), "geoscape") {
		img = xcomImageGeoscape
	}
	d.Image = filepath.Join(x.assetDir, img)
	return d
}

func (x XCOM2) FallbackImage() string { return "" }

// Columns adds the save type column for War of the Chosen only.
func (x XCOM2) Columns() []Column {
	if x.variant != XCOM2WotC {
		return nil
	}
	return []Column{{
		ID:          "xcom2-savetype",
		Name:        "Save Type",
		Description: "Type of saved game",
		Placement:   PlaceDetail,
		Position:    115,
		Calc:        XCOM2SaveType,
	}}
}

// XCOM2SaveType classifies a save as an autosave or a manual save.
func XCOM2SaveType(s model.Save) string {
	if strings.Contains(strings.ToLower(s.ID), "autosave") {
		return "Autosave"
	}
	return "Manual"
}

// ReadHeaderLines returns up to n leading lines of a text file, without line
// terminators.
func ReadHeaderLines(path string, n int) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is joined from the resolved save folder
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	lines := make([]string, 0, n)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return lines, nil
}
