package core

import (
	"errors"
	"fmt"
	"strconv"
)

// Entry is a single scoreboard record. The name is an opaque label carried
// alongside the score; two entries with the same name and score are
// interchangeable.
type Entry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// NewEntry builds an Entry.
func NewEntry(name string, score int64) Entry {
	return Entry{Name: name, Score: score}
}

// String renders the entry as "Name: Score".
func (e Entry) String() string {
	return e.Name + ": " + strconv.FormatInt(e.Score, 10)
}

// ErrInvalidArgument is returned when a board is constructed with a
// non-positive capacity.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrOutOfRange matches any *OutOfRangeError via errors.Is.
var ErrOutOfRange = errors.New("place out of range")

// OutOfRangeError reports a rank that does not exist on the board.
type OutOfRangeError struct {
	Place int
	Size  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("invalid place %d: board holds %d entries", e.Place, e.Size)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// ValidateCapacity rejects zero and negative board sizes.
func ValidateCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d: %w", capacity, ErrInvalidArgument)
	}
	return nil
}
