package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDealtState(t *testing.T, gridSize, maxMoves int) *GameState {
	t.Helper()
	cfg := DefaultGameConfig()
	cfg.GridSize = gridSize
	cfg.MaxMoves = maxMoves

	gs := NewGameState(cfg)
	tr := gs.Apply(Event{Type: EventDeal, Deck: fixedDeck(gridSize), GridSize: gridSize, GameID: "g1"})
	require.True(t, tr.Applied)
	return gs
}

func reveal(gs *GameState, id int) Transition {
	return gs.Apply(Event{Type: EventReveal, CardID: id})
}

func TestApply_FirstPick(t *testing.T) {
	gs := newDealtState(t, 4, 20)

	tr := reveal(gs, 3)
	assert.True(t, tr.Applied)
	assert.Equal(t, RevealFirstPick, tr.Kind)
	assert.Equal(t, []int{3}, gs.Revealed)
	assert.Equal(t, PhaseOneRevealed, gs.Phase())
	assert.Equal(t, 0, gs.MoveCount)
}

func TestApply_MatchDoesNotCountAMove(t *testing.T) {
	gs := newDealtState(t, 4, 20)

	reveal(gs, 0)
	tr := reveal(gs, 1)

	assert.Equal(t, RevealMatch, tr.Kind)
	assert.False(t, tr.ScheduleResolve)
	assert.Empty(t, gs.Revealed)
	assert.True(t, gs.Matched[0])
	assert.True(t, gs.Matched[1])
	assert.Equal(t, 0, gs.MoveCount)
	assert.Equal(t, InProgress, gs.Outcome)
	assert.Equal(t, PhaseIdle, gs.Phase())
}

func TestApply_MismatchCountsAMoveAndBlocksInput(t *testing.T) {
	gs := newDealtState(t, 4, 20)

	reveal(gs, 0)
	tr := reveal(gs, 2)

	assert.Equal(t, RevealMismatch, tr.Kind)
	assert.True(t, tr.ScheduleResolve)
	assert.Equal(t, gs.Generation, tr.Generation)
	assert.Equal(t, 1, gs.MoveCount)
	assert.True(t, gs.Pending)
	assert.Equal(t, []int{0, 2}, gs.Revealed)
	assert.Equal(t, PhaseResolving, gs.Phase())

	blocked := reveal(gs, 5)
	assert.False(t, blocked.Applied)
	assert.Equal(t, ReasonPending, blocked.Reason)
	assert.Equal(t, []int{0, 2}, gs.Revealed)

	resolved := gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
	assert.True(t, resolved.Applied)
	assert.False(t, gs.Pending)
	assert.Empty(t, gs.Revealed)
	assert.Equal(t, InProgress, gs.Outcome)

	again := gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
	assert.False(t, again.Applied)
	assert.Equal(t, ReasonNothingPending, again.Reason)
}

func TestApply_IgnoredReveals(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	reveal(gs, 0)
	reveal(gs, 1) // match

	assert.Equal(t, ReasonAlreadyMatched, reveal(gs, 0).Reason)
	assert.Equal(t, ReasonNoSuchCard, reveal(gs, -1).Reason)
	assert.Equal(t, ReasonNoSuchCard, reveal(gs, 16).Reason)

	reveal(gs, 4)
	assert.Equal(t, ReasonAlreadyRevealed, reveal(gs, 4).Reason)
	assert.Equal(t, []int{4}, gs.Revealed)
	assert.Equal(t, 0, gs.MoveCount)
}

func TestApply_TwoByTwoImmediateWin(t *testing.T) {
	gs := newDealtState(t, 2, 20)

	values := make(map[int]int)
	for _, c := range gs.Deck {
		values[c.Value]++
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2}, values)

	reveal(gs, 0)
	reveal(gs, 1)
	assert.Equal(t, InProgress, gs.Outcome)
	reveal(gs, 2)
	tr := reveal(gs, 3)

	assert.Equal(t, Won, tr.Outcome)
	assert.Equal(t, Won, gs.Outcome)
	assert.Equal(t, 0, gs.MoveCount)
	assert.Len(t, gs.Matched, len(gs.Deck))
}

func TestApply_WonIsSticky(t *testing.T) {
	gs := newDealtState(t, 2, 20)
	for id := 0; id < 4; id++ {
		reveal(gs, id)
	}
	require.Equal(t, Won, gs.Outcome)

	for id := 0; id < 4; id++ {
		tr := reveal(gs, id)
		assert.False(t, tr.Applied)
		assert.Equal(t, Won, gs.Outcome)
	}
	assert.Empty(t, gs.Revealed)
}

func TestApply_SingleMoveBudgetLosesAfterResolve(t *testing.T) {
	gs := newDealtState(t, 4, 1)

	reveal(gs, 0)
	tr := reveal(gs, 2)
	require.Equal(t, RevealMismatch, tr.Kind)

	// the loss is evaluated together with the reveal clear
	assert.Equal(t, InProgress, gs.Outcome)

	gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
	assert.Equal(t, Lost, gs.Outcome)
	assert.Empty(t, gs.Revealed)

	matched := len(gs.Matched)
	for id := 0; id < len(gs.Deck); id++ {
		assert.False(t, reveal(gs, id).Applied)
	}
	assert.Equal(t, matched, len(gs.Matched))
}

func TestApply_SingleMoveBudgetFirstMatchKeepsPlaying(t *testing.T) {
	gs := newDealtState(t, 4, 1)

	reveal(gs, 0)
	tr := reveal(gs, 1)

	assert.Equal(t, RevealMatch, tr.Kind)
	assert.Equal(t, InProgress, gs.Outcome)
	assert.Equal(t, 0, gs.MoveCount)

	// still allowed to play
	assert.True(t, reveal(gs, 2).Applied)
}

func TestApply_StaleResolveAfterDeal(t *testing.T) {
	gs := newDealtState(t, 4, 20)

	reveal(gs, 0)
	tr := reveal(gs, 2)
	require.True(t, tr.ScheduleResolve)

	dealt := gs.Apply(Event{Type: EventDeal, Deck: fixedDeck(4), GridSize: 4, GameID: "g2"})
	require.True(t, dealt.Applied)
	assert.Equal(t, tr.Generation+1, gs.Generation)

	reveal(gs, 7)
	stale := gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
	assert.False(t, stale.Applied)
	assert.Equal(t, ReasonStaleResolve, stale.Reason)
	assert.Equal(t, []int{7}, gs.Revealed)
	assert.Equal(t, 0, gs.MoveCount)
	assert.Equal(t, "g2", gs.GameID)
}

func TestApply_DealResetsEverything(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	reveal(gs, 0)
	reveal(gs, 1)
	reveal(gs, 2)
	reveal(gs, 4)
	gs.Apply(Event{Type: EventResolve, Generation: gs.Generation})

	gs.Apply(Event{Type: EventDeal, Deck: fixedDeck(6), GridSize: 6, GameID: "g2"})

	assert.Equal(t, 6, gs.GridSize)
	assert.Len(t, gs.Deck, 36)
	assert.Empty(t, gs.Revealed)
	assert.Empty(t, gs.Matched)
	assert.Empty(t, gs.History)
	assert.Equal(t, 0, gs.MoveCount)
	assert.Equal(t, InProgress, gs.Outcome)
	assert.Equal(t, 4, gs.TotalReveals)
	assert.Equal(t, 2, gs.DealCount)
}

func TestApply_DealRejectsBrokenDeck(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	before := gs.Clone()

	deck := fixedDeck(4)
	deck[0].Value = 8
	tr := gs.Apply(Event{Type: EventDeal, Deck: deck, GridSize: 4})

	assert.False(t, tr.Applied)
	assert.Equal(t, before, gs)
}

func TestApply_SetMaxMoves(t *testing.T) {
	t.Run("lower budget already met flips to lost", func(t *testing.T) {
		gs := newDealtState(t, 4, 20)
		reveal(gs, 0)
		tr := reveal(gs, 2)
		gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
		reveal(gs, 0)
		tr = reveal(gs, 4)
		gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
		require.Equal(t, 2, gs.MoveCount)

		res := gs.Apply(Event{Type: EventSetMaxMoves, MaxMoves: 2})
		assert.True(t, res.Applied)
		assert.Equal(t, Lost, gs.Outcome)
		assert.Len(t, gs.Deck, 16, "board is not reset")
	})

	t.Run("raised budget resumes a lost game", func(t *testing.T) {
		gs := newDealtState(t, 4, 1)
		reveal(gs, 0)
		tr := reveal(gs, 2)
		gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
		require.Equal(t, Lost, gs.Outcome)

		gs.Apply(Event{Type: EventSetMaxMoves, MaxMoves: 5})
		assert.Equal(t, InProgress, gs.Outcome)
		assert.True(t, reveal(gs, 0).Applied)
	})

	t.Run("lowered during a pending mismatch waits for resolve", func(t *testing.T) {
		gs := newDealtState(t, 4, 20)
		reveal(gs, 0)
		tr := reveal(gs, 2)

		gs.Apply(Event{Type: EventSetMaxMoves, MaxMoves: 1})
		assert.Equal(t, InProgress, gs.Outcome)
		assert.True(t, gs.Pending)

		gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
		assert.Equal(t, Lost, gs.Outcome)
	})

	t.Run("won game is untouched", func(t *testing.T) {
		gs := newDealtState(t, 2, 20)
		for id := 0; id < 4; id++ {
			reveal(gs, id)
		}
		gs.Apply(Event{Type: EventSetMaxMoves, MaxMoves: 1})
		assert.Equal(t, Won, gs.Outcome)
	})

	t.Run("invalid budget ignored", func(t *testing.T) {
		gs := newDealtState(t, 4, 20)
		tr := gs.Apply(Event{Type: EventSetMaxMoves, MaxMoves: 0})
		assert.False(t, tr.Applied)
		assert.Equal(t, 20, gs.MaxMoves)
	})
}

func TestApply_MoveCountTracksMismatchesOnly(t *testing.T) {
	rng := NewRand(99)
	for round := 0; round < 50; round++ {
		deck, err := NewDeck(6, rng)
		require.NoError(t, err)

		cfg := DefaultGameConfig()
		cfg.MaxMoves = 1000
		gs := NewGameState(cfg)
		gs.Apply(Event{Type: EventDeal, Deck: deck, GridSize: 6})

		mismatches, matches := 0, 0
		for step := 0; step < 400 && gs.Outcome == InProgress; step++ {
			before := gs.MoveCount
			tr := reveal(gs, rng.IntN(len(deck)))
			switch tr.Kind {
			case RevealMismatch:
				mismatches++
				assert.Equal(t, before+1, gs.MoveCount)
				gs.Apply(Event{Type: EventResolve, Generation: tr.Generation})
			case RevealMatch:
				matches++
				assert.Equal(t, before, gs.MoveCount)
			default:
				assert.Equal(t, before, gs.MoveCount)
			}
		}

		assert.Equal(t, mismatches, gs.MoveCount)
		assert.Equal(t, matches*2, len(gs.Matched))
		if gs.Outcome == Won {
			assert.Len(t, gs.Matched, len(gs.Deck))
		}
	}
}

func TestApply_HistoryRecordsAppliedReveals(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	reveal(gs, 0)
	reveal(gs, 0) // ignored
	reveal(gs, 2)

	require.Len(t, gs.History, 2)
	assert.Equal(t, RevealFirstPick, gs.History[0].Kind)
	assert.Equal(t, RevealMismatch, gs.History[1].Kind)
	assert.Equal(t, 1, gs.History[1].MoveCount)
	assert.Equal(t, 2, gs.History[1].Seq)
	assert.Equal(t, "g1", gs.History[1].GameID)
	assert.Equal(t, gs.Deck[2].Value, gs.History[1].Value)
}

func TestApply_UnknownEvent(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	tr := gs.Apply(Event{Type: "shuffle"})
	assert.False(t, tr.Applied)
	assert.Equal(t, ReasonUnknownEvent, tr.Reason)
}

func TestClone_IsDeep(t *testing.T) {
	gs := newDealtState(t, 4, 20)
	reveal(gs, 0)

	c := gs.Clone()
	c.Deck[0].Value = 99
	c.Revealed[0] = 5
	c.Matched[3] = true

	assert.NotEqual(t, 99, gs.Deck[0].Value)
	assert.Equal(t, []int{0}, gs.Revealed)
	assert.False(t, gs.Matched[3])
}
