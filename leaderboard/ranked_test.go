package leaderboard

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankboard/core"
)

func newBoard(t *testing.T, capacity int, entries ...core.Entry) *RankedBoard {
	t.Helper()
	b, err := New(capacity)
	require.NoError(t, err)
	for _, e := range entries {
		b.Add(e)
	}
	return b
}

func scores(b *RankedBoard) []int64 {
	out := make([]int64, 0, b.Len())
	for _, e := range b.Entries() {
		out = append(out, e.Score)
	}
	return out
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		b, err := New(c)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	}
}

func TestAddFillsInDescendingOrder(t *testing.T) {
	b := newBoard(t, 3)
	require.True(t, b.AddScore("A", 50))
	require.True(t, b.AddScore("B", 70))
	require.True(t, b.AddScore("C", 60))
	assert.False(t, b.AddScore("D", 40))

	assert.Equal(t, "[B: 70, C: 60, A: 50]", b.String())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())
}

func TestCapacityGrowthWithIncreasingScores(t *testing.T) {
	b := newBoard(t, 5)
	for i := int64(1); i <= 5; i++ {
		require.True(t, b.AddScore("p", i*10))
	}
	assert.Equal(t, []int64{50, 40, 30, 20, 10}, scores(b))
}

func TestStrictAdmissionBoundary(t *testing.T) {
	b := newBoard(t, 3,
		core.NewEntry("A", 30), core.NewEntry("B", 20), core.NewEntry("C", 10))

	assert.False(t, b.Qualifies(10))
	assert.False(t, b.AddScore("tie", 10))
	assert.Equal(t, "[A: 30, B: 20, C: 10]", b.String())

	adm, ok := b.Admit(core.NewEntry("D", 11))
	require.True(t, ok)
	assert.Equal(t, 3, adm.Place)
	require.NotNil(t, adm.Evicted)
	assert.Equal(t, core.NewEntry("C", 10), *adm.Evicted)

	low, ok := b.Lowest()
	require.True(t, ok)
	assert.Equal(t, int64(11), low.Score)
}

func TestEqualScoresRejectedWhenFull(t *testing.T) {
	b := newBoard(t, 3,
		core.NewEntry("A", 10), core.NewEntry("B", 10), core.NewEntry("B", 10))
	before := b.Entries()

	assert.False(t, b.AddScore("C", 10))
	assert.Equal(t, before, b.Entries())
	assert.Equal(t, "[A: 10, B: 10, B: 10]", b.String())
}

func TestEqualScoresKeepArrivalOrder(t *testing.T) {
	b := newBoard(t, 4)
	b.AddScore("first", 10)
	b.AddScore("second", 10)
	b.AddScore("top", 20)
	adm, ok := b.Admit(core.NewEntry("third", 10))
	require.True(t, ok)

	assert.Equal(t, 4, adm.Place)
	assert.Equal(t, "[top: 20, first: 10, second: 10, third: 10]", b.String())

	// a higher score still jumps the whole tied group
	adm, ok = b.Admit(core.NewEntry("eleven", 11))
	require.True(t, ok)
	assert.Equal(t, 2, adm.Place)
	assert.Equal(t, "[top: 20, eleven: 11, first: 10, second: 10]", b.String())
}

func TestAdmitBelowCapacityHasNoEviction(t *testing.T) {
	b := newBoard(t, 2)
	adm, ok := b.Admit(core.NewEntry("solo", -5))
	require.True(t, ok)
	assert.Equal(t, 1, adm.Place)
	assert.Nil(t, adm.Evicted)
}

func TestRemoveAtFirstPlace(t *testing.T) {
	b := newBoard(t, 5,
		core.NewEntry("A", 95), core.NewEntry("B", 80), core.NewEntry("C", 70))

	got, err := b.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, core.NewEntry("A", 95), got)
	assert.Equal(t, []int64{80, 70}, scores(b))
}

func TestRemoveAtMiddleAndLast(t *testing.T) {
	b := newBoard(t, 5,
		core.NewEntry("A", 3), core.NewEntry("B", 2), core.NewEntry("C", 1))

	got, err := b.RemoveAt(2)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	got, err = b.RemoveAt(2)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Name)
	assert.Equal(t, "[A: 3]", b.String())
}

func TestRemoveAtOutOfRange(t *testing.T) {
	b := newBoard(t, 5, core.NewEntry("A", 1), core.NewEntry("B", 0))
	before := b.Entries()

	for _, place := range []int{0, -1, 3} {
		_, err := b.RemoveAt(place)
		require.ErrorIs(t, err, core.ErrOutOfRange)
		var oor *core.OutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, place, oor.Place)
	}
	assert.Equal(t, before, b.Entries())
}

func TestRemoveThenRefill(t *testing.T) {
	b := newBoard(t, 2, core.NewEntry("A", 5), core.NewEntry("B", 4))
	_, err := b.RemoveAt(1)
	require.NoError(t, err)

	// freed slot accepts scores below the old lowest again
	assert.True(t, b.AddScore("C", 1))
	assert.Equal(t, "[B: 4, C: 1]", b.String())
}

func TestAt(t *testing.T) {
	b := newBoard(t, 2, core.NewEntry("A", 5))
	e, err := b.At(1)
	require.NoError(t, err)
	assert.Equal(t, "A", e.Name)
	_, err = b.At(2)
	assert.ErrorIs(t, err, core.ErrOutOfRange)
}

func TestEmptyBoard(t *testing.T) {
	b := newBoard(t, 1)
	assert.Equal(t, "[]", b.String())
	_, ok := b.Lowest()
	assert.False(t, ok)
	_, err := b.RemoveAt(1)
	assert.ErrorIs(t, err, core.ErrOutOfRange)
}

func TestEntriesReturnsCopy(t *testing.T) {
	b := newBoard(t, 2, core.NewEntry("A", 5))
	es := b.Entries()
	es[0].Score = 100
	e, _ := b.At(1)
	assert.Equal(t, int64(5), e.Score)
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, capacity := range []int{1, 2, 5, 16} {
		b := newBoard(t, capacity)
		for i := 0; i < 2000; i++ {
			if rng.IntN(4) == 0 && b.Len() > 0 {
				_, err := b.RemoveAt(rng.IntN(b.Len()) + 1)
				require.NoError(t, err)
			} else {
				score := rng.Int64N(41) - 20
				full := b.Len() == capacity
				low, _ := b.Lowest()
				before := b.Entries()
				ok := b.AddScore("p", score)
				if full && score <= low.Score {
					require.False(t, ok)
					require.Equal(t, before, b.Entries())
				} else {
					require.True(t, ok)
				}
			}
			require.LessOrEqual(t, b.Len(), capacity)
			s := scores(b)
			for j := 1; j < len(s); j++ {
				require.GreaterOrEqual(t, s[j-1], s[j], "board out of order: %v", s)
			}
		}
	}
}
