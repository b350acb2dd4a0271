package leaderboard

import (
	"sync"

	"rankboard/core"
)

// Guarded serializes every operation on a RankedBoard behind one mutex.
type Guarded struct {
	mu    sync.Mutex
	board *RankedBoard
}

// NewGuarded creates a lock-protected board holding up to capacity entries.
func NewGuarded(capacity int) (*Guarded, error) {
	b, err := New(capacity)
	if err != nil {
		return nil, err
	}
	return &Guarded{board: b}, nil
}

// Do runs fn with the lock held. fn must not retain b.
func (g *Guarded) Do(fn func(b *RankedBoard)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.board)
}

func (g *Guarded) Add(e core.Entry) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Add(e)
}

func (g *Guarded) Admit(e core.Entry) (Admission, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Admit(e)
}

func (g *Guarded) RemoveAt(place int) (core.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.RemoveAt(place)
}

func (g *Guarded) At(place int) (core.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.At(place)
}

func (g *Guarded) Entries() []core.Entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Entries()
}

func (g *Guarded) Lowest() (core.Entry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Lowest()
}

func (g *Guarded) Qualifies(score int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Qualifies(score)
}

func (g *Guarded) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Len()
}

// Cap needs no lock; capacity never changes.
func (g *Guarded) Cap() int { return g.board.Cap() }

func (g *Guarded) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.String()
}

var _ Board = (*Guarded)(nil)
