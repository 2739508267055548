// Package pipeline runs the two-phase save fetch cycle and the deletion
// workflow, and sorts and filters save lists for display.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/source"
	"github.com/theirongolddev/savegames/internal/store"
)

// Phase is the position of a fetch cycle in its state machine.
type Phase int

const (
	Idle Phase = iota
	QuickFetching
	QuickPublished
	FullFetching
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case QuickFetching:
		return "quick-fetching"
	case QuickPublished:
		return "quick-published"
	case FullFetching:
		return "full-fetching"
	case Done:
		return "done"
	}
	return "unknown"
}

// Sink receives each published save list.
type Sink interface {
	SetSaves(saves []model.Save)
}

// Request describes one fetch cycle.
type Request struct {
	GameID    string
	ProfileID string
	SavesPath string
	Sink      Sink

	// OnPhase, when set, is called on every phase transition.
	OnPhase func(Phase)
	// OnComplete runs exactly once when the cycle ends, on every path.
	OnComplete func()
	// Overwrite bypasses the details cache for this cycle.
	Overwrite bool
}

// Result summarises a finished fetch cycle.
type Result struct {
	RunID     string
	Supported bool
	Phase     Phase
	Saves     []model.Save // last list published to the sink
	QuickErr  error
	FullErr   error
}

// Coordinator dispatches fetch cycles to the registered game parsers.
type Coordinator struct {
	Registry *source.Registry
	Cache    *store.Cache // optional
	Logger   *slog.Logger
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Fetch runs quick then full parse for req.GameID, publishing each
// successful phase to req.Sink. Parser failures are logged and reflected in
// the Result, never returned.
func (c *Coordinator) Fetch(ctx context.Context, req Request) (res Result) {
	res.RunID = uuid.NewString()
	log := c.logger().With(
		slog.String("run_id", res.RunID),
		slog.String("game", req.GameID),
		slog.String("profile", req.ProfileID),
	)

	defer func() {
		if req.OnComplete != nil {
			req.OnComplete()
		}
	}()

	parser, ok := c.Registry.Lookup(req.GameID)
	if !ok {
		log.Debug("no save parser for game")
		return res
	}
	res.Supported = true

	setPhase := func(p Phase) {
		res.Phase = p
		if req.OnPhase != nil {
			req.OnPhase(p)
		}
	}
	publish := func(saves []model.Save) {
		res.Saves = saves
		if req.Sink != nil {
			req.Sink.SetSaves(saves)
		}
	}

	if req.SavesPath == "" {
		log.Error("unable to process saved games", slog.String("detail", "no save folder resolved for "+req.GameID))
	}

	setPhase(QuickFetching)
	quick, err := parser.QuickParse(ctx, req.SavesPath)
	if err != nil {
		// Prior saves stay visible; there is nothing to enrich.
		res.QuickErr = err
		log.Error("could not perform quick parse", slog.String("folder", req.SavesPath), slog.Any("err", err))
		setPhase(Done)
		return res
	}
	publish(quick)
	log.Debug("quick parse published", slog.Int("count", len(quick)))
	setPhase(QuickPublished)

	setPhase(FullFetching)
	full, err := c.fullParse(ctx, log, parser, req, quick)
	if err != nil {
		res.FullErr = err
		log.Error("could not perform full parse", slog.String("folder", req.SavesPath), slog.Any("err", err))
	} else {
		publish(full)
		log.Debug("full parse published", slog.Int("count", len(full)))
	}
	setPhase(Done)

	return res
}

// fullParse runs the parser's full parse, reusing cached details for saves
// whose size and date have not changed.
func (c *Coordinator) fullParse(ctx context.Context, log *slog.Logger, parser source.SaveGameData, req Request, quick []model.Save) ([]model.Save, error) {
	if c.Cache == nil || req.Overwrite || len(quick) == 0 {
		full, err := parser.FullParse(ctx, req.SavesPath, quick)
		if err == nil && c.Cache != nil {
			c.remember(log, req, full)
		}
		return full, err
	}

	cached, err := c.Cache.Lookup(req.GameID, req.SavesPath)
	if err != nil {
		log.Warn("details cache lookup failed", slog.Any("err", err))
		return parser.FullParse(ctx, req.SavesPath, quick)
	}

	out := make([]model.Save, len(quick))
	var toParse []model.Save
	var slots []int
	for i, s := range quick {
		e, hit := cached[s.ID]
		if hit && !s.Failed() && e.Matches(s) {
			d := e.Details
			s.Details = &d
			out[i] = s
			continue
		}
		toParse = append(toParse, s)
		slots = append(slots, i)
	}

	log.Debug("details cache", slog.Int("hits", len(quick)-len(toParse)), slog.Int("reparse", len(toParse)))
	if len(toParse) == 0 {
		return out, nil
	}

	parsed, err := parser.FullParse(ctx, req.SavesPath, toParse)
	if err != nil {
		return nil, err
	}
	if len(parsed) != len(toParse) {
		// Parser changed the list shape; drop the cache for this cycle.
		full, err := parser.FullParse(ctx, req.SavesPath, quick)
		if err == nil {
			c.remember(log, req, full)
		}
		return full, err
	}
	for j, s := range parsed {
		out[slots[j]] = s
	}
	c.remember(log, req, parsed)
	return out, nil
}

func (c *Coordinator) remember(log *slog.Logger, req Request, saves []model.Save) {
	if err := c.Cache.PutAll(req.GameID, req.SavesPath, saves); err != nil {
		log.Warn("details cache write failed", slog.Any("err", err))
	}
}
