package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewDeck builds a shuffled deck for a gridSize x gridSize board.
// Values 1..gridSize²/2 each appear exactly twice and ids follow the
// shuffled order.
func NewDeck(gridSize int, rng *rand.Rand) ([]Card, error) {
	if err := ValidateGridSize(gridSize); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}

	total := gridSize * gridSize
	pairCount := total / 2

	values := make([]int, 0, total)
	for v := 1; v <= pairCount; v++ {
		values = append(values, v, v)
	}

	// Fisher-Yates
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	deck := make([]Card, total)
	for i, v := range values {
		deck[i] = Card{ID: i, Value: v}
	}
	return deck, nil
}

// NewRand returns a PCG-backed generator. A zero seed seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// CheckDeck verifies the pairing invariant of a deck for the given grid size
func CheckDeck(deck []Card, gridSize int) error {
	if len(deck) != gridSize*gridSize {
		return fmt.Errorf("deck has %d cards, want %d", len(deck), gridSize*gridSize)
	}
	counts := make(map[int]int, len(deck)/2)
	for i, c := range deck {
		if c.ID != i {
			return fmt.Errorf("card at position %d has id %d", i, c.ID)
		}
		counts[c.Value]++
	}
	for v := 1; v <= len(deck)/2; v++ {
		if counts[v] != 2 {
			return fmt.Errorf("value %d appears %d times", v, counts[v])
		}
	}
	if len(counts) != len(deck)/2 {
		return fmt.Errorf("deck has %d distinct values, want %d", len(counts), len(deck)/2)
	}
	return nil
}
