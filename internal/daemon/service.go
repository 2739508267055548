// Package daemon provides the long-running save folder monitor.
package daemon

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/watch"
)

// Source runs fetch cycles for the active profile.
type Source interface {
	GetSaves(ctx context.Context, onComplete func()) (pipeline.Result, error)
	SavesPath() string
}

// Config controls the monitor runtime behavior.
type Config struct {
	Interval     time.Duration // periodic rescan; zero disables
	Watch        bool          // rescan on save folder changes
	Debounce     time.Duration
	EventsBuffer int
	Logger       *slog.Logger
}

// Snapshot is a compact save folder state for event payloads.
type Snapshot struct {
	At        time.Time `json:"at"`
	Folder    string    `json:"folder"`
	Count     int       `json:"count"`
	TotalSize int64     `json:"total_size"`
	Failed    int       `json:"failed"`

	saves map[string]fingerprint
}

type fingerprint struct {
	size int64
	date time.Time
}

// Delta lists the save ids that changed between two scans.
type Delta struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

func (d Delta) isZero() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Event is emitted whenever the save folder snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status describes the monitor itself.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service rescans the save folder and publishes change events.
type Service struct {
	cfg Config
	src Source
	log *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new monitor over src.
func New(src Source, cfg Config) *Service {
	if cfg.Interval > 0 && cfg.Interval < 2*time.Second {
		cfg.Interval = 2 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run scans once, then rescans on folder changes and on the interval until
// ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.pollOnce(ctx)

	var changes <-chan struct{}
	if s.cfg.Watch {
		w, err := watch.New(s.src.SavesPath(), s.cfg.Debounce, s.log)
		if err != nil {
			s.log.Warn("save folder not watched", slog.Any("err", err))
		} else {
			go func() { _ = w.Run(ctx) }()
			changes = w.Changes()
		}
	}

	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			s.pollOnce(ctx)
		case <-changes:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	res, err := s.src.GetSaves(ctx, nil)
	if err == nil && res.QuickErr != nil {
		err = res.QuickErr
	}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("save scan failed", slog.Any("err", err))
		return
	}

	now := time.Now()
	snap := snapshotFromSaves(s.src.SavesPath(), res.Saves, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "saves_delta",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromSaves(folder string, saves []model.Save, at time.Time) Snapshot {
	size, failed := pipeline.Totals(saves)
	snap := Snapshot{
		At:        at,
		Folder:    folder,
		Count:     len(saves),
		TotalSize: size,
		Failed:    failed,
		saves:     make(map[string]fingerprint, len(saves)),
	}
	for _, sv := range saves {
		snap.saves[sv.ID] = fingerprint{size: sv.Size, date: sv.Date}
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	var d Delta
	for id, fp := range curr.saves {
		old, ok := prev.saves[id]
		switch {
		case !ok:
			d.Added = append(d.Added, id)
		case old.size != fp.size || !old.date.Equal(fp.date):
			d.Changed = append(d.Changed, id)
		}
	}
	for id := range prev.saves {
		if _, ok := curr.saves[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Changed)
	return d
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Status returns the current monitor status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// Replay subscribes like Subscribe and also returns the buffered events
// with an id above afterID, oldest first. No event is both replayed and
// delivered on the channel.
func (s *Service) Replay(afterID int64) ([]Event, <-chan Event, func()) {
	s.mu.Lock()
	var past []Event
	for _, ev := range s.events {
		if ev.ID > afterID {
			past = append(past, ev)
		}
	}
	ch, cancel := s.subscribeLocked()
	s.mu.Unlock()
	return past, ch, cancel
}

// Subscribe returns a channel of future events and a func that ends the
// subscription. Slow subscribers miss events rather than block the monitor.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked()
}

func (s *Service) subscribeLocked() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
