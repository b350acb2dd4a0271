package leaderboard

import (
	"slices"
	"strings"

	"rankboard/core"
)

// RankedBoard keeps the top entries by score in descending order, holding at
// most a fixed number of them. Once full, a new entry only qualifies if its
// score is strictly greater than the lowest score on the board.
//
// RankedBoard is not safe for concurrent use; wrap it in Guarded.
type RankedBoard struct {
	capacity int
	entries  []core.Entry
}

// New creates an empty board holding up to capacity entries.
func New(capacity int) (*RankedBoard, error) {
	if err := core.ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	return &RankedBoard{capacity: capacity, entries: make([]core.Entry, 0, capacity)}, nil
}

// Qualifies reports whether an entry with score would be admitted.
func (b *RankedBoard) Qualifies(score int64) bool {
	n := len(b.entries)
	return n < b.capacity || score > b.entries[n-1].Score
}

// Add inserts e if it qualifies and reports whether it did. A rejected entry
// leaves the board untouched.
func (b *RankedBoard) Add(e core.Entry) bool {
	_, ok := b.Admit(e)
	return ok
}

// AddScore is Add for a bare name and score.
func (b *RankedBoard) AddScore(name string, score int64) bool {
	return b.Add(core.NewEntry(name, score))
}

// Admit is Add that also reports where the entry landed and what it pushed
// off the tail.
//
// Lower scores shift one slot toward the tail until an equal or higher score
// is met, so equal scores keep arrival order and the newcomer ranks last
// among them.
func (b *RankedBoard) Admit(e core.Entry) (Admission, bool) {
	if !b.Qualifies(e.Score) {
		return Admission{}, false
	}
	var evicted *core.Entry
	if len(b.entries) < b.capacity {
		b.entries = append(b.entries, e)
	} else {
		last := b.entries[len(b.entries)-1]
		evicted = &last
	}
	pos := len(b.entries) - 1
	for pos > 0 && b.entries[pos-1].Score < e.Score {
		b.entries[pos] = b.entries[pos-1]
		pos--
	}
	b.entries[pos] = e
	return Admission{Place: pos + 1, Evicted: evicted}, true
}

// RemoveAt removes and returns the entry at the 1-based place. Lower entries
// move up one rank.
func (b *RankedBoard) RemoveAt(place int) (core.Entry, error) {
	if err := b.checkPlace(place); err != nil {
		return core.Entry{}, err
	}
	e := b.entries[place-1]
	b.entries = slices.Delete(b.entries, place-1, place)
	return e, nil
}

// At returns the entry at the 1-based place.
func (b *RankedBoard) At(place int) (core.Entry, error) {
	if err := b.checkPlace(place); err != nil {
		return core.Entry{}, err
	}
	return b.entries[place-1], nil
}

func (b *RankedBoard) checkPlace(place int) error {
	if place < 1 || place > len(b.entries) {
		return &core.OutOfRangeError{Place: place, Size: len(b.entries)}
	}
	return nil
}

// Lowest returns the last-ranked entry, or false on an empty board.
func (b *RankedBoard) Lowest() (core.Entry, bool) {
	if len(b.entries) == 0 {
		return core.Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Entries returns a copy of the entries in rank order.
func (b *RankedBoard) Entries() []core.Entry {
	return slices.Clone(b.entries)
}

func (b *RankedBoard) Len() int { return len(b.entries) }

func (b *RankedBoard) Cap() int { return b.capacity }

// String lists entries in rank order, e.g. "[Alice: 95, Bob: 80]".
func (b *RankedBoard) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range b.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

var _ Board = (*RankedBoard)(nil)
