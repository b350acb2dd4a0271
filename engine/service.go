package engine

import (
	"context"
	"log/slog"

	"rankboard/core"
	"rankboard/leaderboard"
)

// Snapshot is a consistent read of the board.
type Snapshot struct {
	Capacity int          `json:"capacity"`
	Size     int          `json:"size"`
	Entries  []core.Entry `json:"entries"`
	Display  string       `json:"display"`
}

// BoardService applies board operations under the board's lock and
// publishes an event for each outcome.
type BoardService struct {
	board  *leaderboard.Guarded
	bus    *EventBus
	logger *slog.Logger
}

func NewBoardService(board *leaderboard.Guarded, bus *EventBus, logger *slog.Logger) *BoardService {
	if board == nil || bus == nil {
		panic("NewBoardService requires non-nil board and bus")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardService{board: board, bus: bus, logger: logger}
}

// Subscribe convenience method.
func (s *BoardService) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *BoardService) Publish(ctx context.Context, ev core.Event) {
	s.bus.Publish(ctx, ev)
}

// Forward sends every board event to p. Publish failures are logged and
// otherwise ignored. Returns an unsubscribe func.
func (s *BoardService) Forward(p Publisher) func() {
	return s.bus.SubscribeAll(func(ctx context.Context, ev core.Event) {
		if err := p.Publish(ctx, ev); err != nil {
			s.logger.Warn("failed to forward board event", "event_id", ev.ID, "type", ev.Type, "error", err)
		}
	})
}

// Add offers an entry to the board and reports whether it was admitted.
// Rejection is not an error.
func (s *BoardService) Add(ctx context.Context, name string, score int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e := core.NewEntry(name, score)
	var ev core.Event
	var admitted bool
	s.board.Do(func(b *leaderboard.RankedBoard) {
		low, _ := b.Lowest()
		adm, ok := b.Admit(e)
		admitted = ok
		if ok {
			ev = core.NewEntryAdmitted(e, adm.Place, adm.Evicted, b.Len())
		} else {
			ev = core.NewEntryRejected(e, low.Score, b.Len())
		}
	})
	if admitted {
		s.logger.Debug("entry admitted", "name", name, "score", score, "place", ev.Place)
	} else {
		s.logger.Debug("entry rejected", "name", name, "score", score, "lowest", *ev.Lowest)
	}
	s.bus.Publish(ctx, ev)
	return admitted, nil
}

// RemoveAt removes the entry at the 1-based place. Invalid places return a
// *core.OutOfRangeError and publish nothing.
func (s *BoardService) RemoveAt(ctx context.Context, place int) (core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return core.Entry{}, err
	}
	var (
		removed core.Entry
		size    int
		err     error
	)
	s.board.Do(func(b *leaderboard.RankedBoard) {
		removed, err = b.RemoveAt(place)
		size = b.Len()
	})
	if err != nil {
		return core.Entry{}, err
	}
	s.logger.Debug("entry removed", "name", removed.Name, "score", removed.Score, "place", place)
	s.bus.Publish(ctx, core.NewEntryRemoved(removed, place, size))
	return removed, nil
}

// Snapshot reads capacity, entries and display string under one lock.
func (s *BoardService) Snapshot() Snapshot {
	var snap Snapshot
	s.board.Do(func(b *leaderboard.RankedBoard) {
		snap = Snapshot{Capacity: b.Cap(), Size: b.Len(), Entries: b.Entries(), Display: b.String()}
	})
	return snap
}

func (s *BoardService) Entries() []core.Entry { return s.board.Entries() }

func (s *BoardService) Len() int { return s.board.Len() }

func (s *BoardService) Capacity() int { return s.board.Cap() }

func (s *BoardService) String() string { return s.board.String() }

func (s *BoardService) Close() { s.bus.Close() }
