package leaderboard

import "rankboard/core"

// Admission describes where an admitted entry landed.
type Admission struct {
	// Place is the 1-based rank the entry now holds.
	Place int
	// Evicted is the former lowest entry when the board was already full.
	Evicted *core.Entry
}

// Board abstracts fixed-capacity leaderboard operations.
type Board interface {
	Add(e core.Entry) bool
	Admit(e core.Entry) (Admission, bool)
	RemoveAt(place int) (core.Entry, error)
	At(place int) (core.Entry, error)
	Entries() []core.Entry
	Lowest() (core.Entry, bool)
	Qualifies(score int64) bool
	Len() int
	Cap() int
	String() string
}
