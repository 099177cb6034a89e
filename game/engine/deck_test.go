package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_PairingForAllGridSizes(t *testing.T) {
	for _, size := range []int{2, 4, 6, 8, 10} {
		deck, err := NewDeck(size, NewRand(uint64(size)))
		require.NoError(t, err, "grid size %d", size)
		require.Len(t, deck, size*size)

		counts := make(map[int]int)
		for i, c := range deck {
			assert.Equal(t, i, c.ID, "ids follow deck order")
			counts[c.Value]++
		}
		assert.Len(t, counts, size*size/2)
		for v := 1; v <= size*size/2; v++ {
			assert.Equal(t, 2, counts[v], "value %d in %dx%d deck", v, size, size)
		}
		assert.NoError(t, CheckDeck(deck, size))
	}
}

func TestNewDeck_RejectsInvalidSizes(t *testing.T) {
	for _, size := range []int{-2, 0, 1, 3, 5, 11, 12} {
		_, err := NewDeck(size, NewRand(1))
		require.Error(t, err, "grid size %d", size)
		assert.True(t, errors.Is(err, ErrInvalidGridSize))
	}
}

func TestNewDeck_SameSeedSameDeck(t *testing.T) {
	a, err := NewDeck(6, NewRand(42))
	require.NoError(t, err)
	b, err := NewDeck(6, NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewDeck_ShuffleIsUniform(t *testing.T) {
	const deals = 16000
	rng := NewRand(7)
	slot0 := make(map[int]int)

	for i := 0; i < deals; i++ {
		deck, err := NewDeck(4, rng)
		require.NoError(t, err)
		slot0[deck[0].Value]++
	}

	// 8 values, 2000 expected each
	for v := 1; v <= 8; v++ {
		assert.InDelta(t, deals/8, slot0[v], 300, "value %d landed in slot 0 %d times", v, slot0[v])
	}
}

func TestCheckDeck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, CheckDeck(fixedDeck(2), 2))
	})

	t.Run("wrong length", func(t *testing.T) {
		assert.Error(t, CheckDeck(fixedDeck(2), 4))
	})

	t.Run("value appears three times", func(t *testing.T) {
		deck := fixedDeck(2)
		deck[1].Value = 1
		assert.Error(t, CheckDeck(deck, 2))
	})

	t.Run("ids out of order", func(t *testing.T) {
		deck := fixedDeck(2)
		deck[0].ID, deck[1].ID = 1, 0
		assert.Error(t, CheckDeck(deck, 2))
	})
}

// fixedDeck returns an unshuffled deck where cards 2k and 2k+1 share value k+1
func fixedDeck(gridSize int) []Card {
	deck := make([]Card, gridSize*gridSize)
	for i := range deck {
		deck[i] = Card{ID: i, Value: i/2 + 1}
	}
	return deck
}
