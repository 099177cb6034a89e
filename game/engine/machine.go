package engine

import (
	"fmt"
	"slices"
)

// EventType names an input to the state machine
type EventType string

const (
	EventDeal        EventType = "deal"
	EventReveal      EventType = "reveal"
	EventResolve     EventType = "resolve"
	EventSetMaxMoves EventType = "set_max_moves"
)

// Event is an input to GameState.Apply.
// Deal uses Deck, GridSize and GameID; Reveal uses CardID; Resolve uses
// Generation; SetMaxMoves uses MaxMoves.
type Event struct {
	Type       EventType
	CardID     int
	Generation uint64
	Deck       []Card
	GridSize   int
	GameID     string
	MaxMoves   int
	Timestamp  int64
}

// Transition reports what an Event did to the state
type Transition struct {
	Applied bool       `json:"applied"`
	Kind    RevealKind `json:"kind,omitempty"`
	Reason  string     `json:"reason,omitempty"`
	Outcome Outcome    `json:"outcome"`

	// ScheduleResolve asks the caller to deliver a Resolve event carrying
	// Generation once the mismatch delay has elapsed.
	ScheduleResolve bool   `json:"schedule_resolve,omitempty"`
	Generation      uint64 `json:"generation"`
}

// Ignore reasons
const (
	ReasonPending         = "mismatch resolution pending"
	ReasonGameOver        = "game is over"
	ReasonOutOfMoves      = "no moves left"
	ReasonNoSuchCard      = "no such card"
	ReasonAlreadyMatched  = "card already matched"
	ReasonAlreadyRevealed = "card already revealed"
	ReasonStaleResolve    = "resolve belongs to an earlier deal"
	ReasonNothingPending  = "no mismatch pending"
	ReasonInvalidDeck     = "invalid deck"
	ReasonInvalidMaxMoves = "invalid max moves"
	ReasonUnknownEvent    = "unknown event"
)

// NewGameState creates an empty state for the given preset.
// The state holds no cards until a Deal event is applied.
func NewGameState(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}
	return &GameState{
		ConfigName: config.Name,
		GridSize:   config.GridSize,
		MaxMoves:   config.MaxMoves,
		Deck:       []Card{},
		Revealed:   []int{},
		Matched:    make(map[int]bool),
		Outcome:    InProgress,
		History:    []RevealEntry{},
		msgs:       withDefaultMessages(config.Messages),
	}
}

// Apply is the single transition function of the game
func (gs *GameState) Apply(ev Event) Transition {
	switch ev.Type {
	case EventDeal:
		return gs.deal(ev)
	case EventReveal:
		return gs.reveal(ev.CardID, ev.Timestamp)
	case EventResolve:
		return gs.resolve(ev.Generation)
	case EventSetMaxMoves:
		return gs.setMaxMoves(ev.MaxMoves)
	}
	return gs.ignore(ReasonUnknownEvent)
}

// Phase derives the current pick phase
func (gs *GameState) Phase() Phase {
	switch {
	case gs.Outcome != InProgress:
		return PhaseFinished
	case gs.Pending:
		return PhaseResolving
	case len(gs.Revealed) == 1:
		return PhaseOneRevealed
	}
	return PhaseIdle
}

// IsTerminal reports whether the game has been won or lost
func (gs *GameState) IsTerminal() bool {
	return gs.Outcome == Won || gs.Outcome == Lost
}

// MovesLeft returns the remaining mismatch budget
func (gs *GameState) MovesLeft() int {
	if left := gs.MaxMoves - gs.MoveCount; left > 0 {
		return left
	}
	return 0
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Deck = slices.Clone(gs.Deck)
	c.Revealed = slices.Clone(gs.Revealed)
	c.History = slices.Clone(gs.History)
	c.Matched = make(map[int]bool, len(gs.Matched))
	for id, ok := range gs.Matched {
		c.Matched[id] = ok
	}
	return &c
}

func (gs *GameState) deal(ev Event) Transition {
	if err := CheckDeck(ev.Deck, ev.GridSize); err != nil {
		return gs.ignore(ReasonInvalidDeck)
	}

	gs.Generation++
	gs.DealCount++
	gs.GameID = ev.GameID
	gs.GridSize = ev.GridSize
	gs.Deck = slices.Clone(ev.Deck)
	gs.Revealed = []int{}
	gs.Matched = make(map[int]bool, len(ev.Deck))
	gs.MoveCount = 0
	gs.Outcome = InProgress
	gs.Pending = false
	gs.History = []RevealEntry{}
	gs.Message = gs.msgs.Welcome

	return Transition{Applied: true, Outcome: gs.Outcome, Generation: gs.Generation}
}

func (gs *GameState) reveal(id int, ts int64) Transition {
	switch {
	case gs.Pending:
		return gs.ignore(ReasonPending)
	case gs.IsTerminal():
		return gs.ignore(ReasonGameOver)
	case gs.MoveCount >= gs.MaxMoves:
		return gs.ignore(ReasonOutOfMoves)
	case id < 0 || id >= len(gs.Deck):
		return gs.ignore(ReasonNoSuchCard)
	case gs.Matched[id]:
		return gs.ignore(ReasonAlreadyMatched)
	case slices.Contains(gs.Revealed, id):
		return gs.ignore(ReasonAlreadyRevealed)
	}

	if len(gs.Revealed) == 0 {
		gs.Revealed = append(gs.Revealed, id)
		gs.Message = gs.msgs.FirstPick
		gs.record(id, RevealFirstPick, ts)
		return Transition{Applied: true, Kind: RevealFirstPick, Outcome: gs.Outcome, Generation: gs.Generation}
	}

	first := gs.Revealed[0]
	gs.Revealed = append(gs.Revealed, id)

	if gs.Deck[first].Value == gs.Deck[id].Value {
		gs.Matched[first] = true
		gs.Matched[id] = true
		gs.Revealed = []int{}
		gs.record(id, RevealMatch, ts)

		if len(gs.Matched) == len(gs.Deck) {
			gs.Outcome = Won
			gs.Message = fmt.Sprintf(gs.msgs.Victory, gs.MoveCount)
		} else {
			gs.Message = gs.msgs.Match
		}
		return Transition{Applied: true, Kind: RevealMatch, Outcome: gs.Outcome, Generation: gs.Generation}
	}

	gs.MoveCount++
	gs.Pending = true
	gs.Message = fmt.Sprintf(gs.msgs.Mismatch, gs.MoveCount, gs.MaxMoves)
	gs.record(id, RevealMismatch, ts)

	return Transition{
		Applied:         true,
		Kind:            RevealMismatch,
		Outcome:         gs.Outcome,
		ScheduleResolve: true,
		Generation:      gs.Generation,
	}
}

// resolve ends the mismatch delay: both cards turn back over and the
// loss rule is evaluated.
func (gs *GameState) resolve(generation uint64) Transition {
	if generation != gs.Generation {
		return gs.ignore(ReasonStaleResolve)
	}
	if !gs.Pending {
		return gs.ignore(ReasonNothingPending)
	}

	gs.Revealed = []int{}
	gs.Pending = false
	gs.evaluateBudget()

	return Transition{Applied: true, Outcome: gs.Outcome, Generation: gs.Generation}
}

func (gs *GameState) setMaxMoves(v int) Transition {
	if ValidateMaxMoves(v) != nil {
		return gs.ignore(ReasonInvalidMaxMoves)
	}

	gs.MaxMoves = v
	if gs.Outcome == Lost && gs.MoveCount < gs.MaxMoves {
		gs.Outcome = InProgress
		gs.Message = fmt.Sprintf("Max moves raised to %d", v)
	}
	if !gs.Pending {
		gs.evaluateBudget()
	}

	return Transition{Applied: true, Outcome: gs.Outcome, Generation: gs.Generation}
}

// evaluateBudget applies the loss rule. It is only meaningful while no
// mismatch is pending.
func (gs *GameState) evaluateBudget() {
	if gs.Outcome == InProgress && gs.MoveCount >= gs.MaxMoves {
		gs.Outcome = Lost
		gs.Message = gs.msgs.OutOfMoves
	}
}

func (gs *GameState) record(id int, kind RevealKind, ts int64) {
	gs.TotalReveals++
	gs.History = append(gs.History, RevealEntry{
		Seq:       len(gs.History) + 1,
		GameID:    gs.GameID,
		CardID:    id,
		Value:     gs.Deck[id].Value,
		Kind:      kind,
		MoveCount: gs.MoveCount,
		Timestamp: ts,
	})
}

func (gs *GameState) ignore(reason string) Transition {
	return Transition{Kind: RevealIgnored, Reason: reason, Outcome: gs.Outcome, Generation: gs.Generation}
}
