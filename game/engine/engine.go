package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	View() *BoardView
	Reset() *GameState
	IsWon() bool
	IsLost() bool
	IsPending() bool
	GetMoveCount() int

	// Player input
	Reveal(id int) Transition

	// Settings
	SetGridSize(raw string) SettingResult
	SetMaxMoves(raw string) SettingResult

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetHistory() []RevealEntry

	OnChange(fn ChangeFunc)
	Close()
}

// Scheduler runs fn once after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, fn func())

// ChangeFunc receives a snapshot after every applied transition
type ChangeFunc func(state *GameState)

// SettingResult reports whether a settings change was accepted
type SettingResult struct {
	Setting  string `json:"setting"`
	Raw      string `json:"raw"`
	Accepted bool   `json:"accepted"`
	Value    int    `json:"value,omitempty"`
	Reason   string `json:"reason,omitempty"`
	NewGame  bool   `json:"new_game"`
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRand sets the random source used to shuffle decks
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) { e.rng = rng }
}

// WithSeed seeds the deck shuffle for reproducible games
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) { e.rng = NewRand(seed) }
}

// WithScheduler replaces the timer used for the mismatch delay
func WithScheduler(s Scheduler) Option {
	return func(e *GameEngine) { e.schedule = s }
}

// WithLogger sets the engine logger
func WithLogger(l zerolog.Logger) Option {
	return func(e *GameEngine) { e.log = l }
}

// WithOnChange registers a state listener at construction time
func WithOnChange(fn ChangeFunc) Option {
	return func(e *GameEngine) { e.onChange = fn }
}

// GameEngine implements the Engine interface.
// It serializes events and owns the single deferred resolve.
type GameEngine struct {
	mu       sync.Mutex
	state    *GameState
	config   *GameConfig
	rng      *rand.Rand
	schedule Scheduler
	onChange ChangeFunc
	log      zerolog.Logger
	closed   bool
}

// NewEngine creates a new game engine with the provided configuration and
// deals the first deck.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		log:    zerolog.Nop(),
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}

	e.state = NewGameState(config)
	if err := e.deal(config.GridSize); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in preset
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), opts...)
	if err != nil {
		// the built-in preset always validates
		panic(err)
	}
	return e
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View returns the player-facing projection of the current state
func (e *GameEngine) View() *BoardView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.View()
}

// Reveal flips the card with the given id. Out-of-turn or invalid reveals
// are ignored and reported through the returned Transition.
func (e *GameEngine) Reveal(id int) Transition {
	e.mu.Lock()
	t := e.state.Apply(Event{Type: EventReveal, CardID: id, Timestamp: time.Now().Unix()})
	snapshot := e.snapshotIfApplied(t)
	delay := e.mismatchDelay()
	e.mu.Unlock()

	if !t.Applied {
		e.log.Debug().Int("card", id).Str("reason", t.Reason).Msg("reveal ignored")
		return t
	}

	e.log.Debug().Int("card", id).Str("kind", string(t.Kind)).Str("outcome", string(t.Outcome)).Msg("reveal")

	if t.ScheduleResolve {
		generation := t.Generation
		e.schedule(delay, func() { e.resolve(generation) })
	}
	e.notify(snapshot)
	return t
}

// resolve delivers the deferred end of a mismatch delay
func (e *GameEngine) resolve(generation uint64) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	t := e.state.Apply(Event{Type: EventResolve, Generation: generation})
	snapshot := e.snapshotIfApplied(t)
	e.mu.Unlock()

	if !t.Applied {
		e.log.Debug().Uint64("generation", generation).Str("reason", t.Reason).Msg("resolve ignored")
		return
	}
	e.log.Debug().Uint64("generation", generation).Str("outcome", string(t.Outcome)).Msg("mismatch resolved")
	e.notify(snapshot)
}

// Reset deals a new deck at the current grid size
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	if err := e.deal(e.state.GridSize); err != nil {
		// grid size in state was validated when it was set
		e.log.Error().Err(err).Msg("reset failed")
	}
	snapshot := e.state.Clone()
	e.mu.Unlock()

	e.notify(snapshot)
	return snapshot
}

// SetGridSize validates raw input and, when accepted with a different size,
// starts a new game. Rejected input is logged and leaves the game untouched.
func (e *GameEngine) SetGridSize(raw string) SettingResult {
	res := SettingResult{Setting: "grid_size", Raw: raw}

	size, err := ParseGridSize(raw)
	if err != nil {
		res.Reason = err.Error()
		e.log.Warn().Err(err).Str("raw", raw).Msg(e.messages().InvalidGridSize)
		return res
	}
	res.Accepted, res.Value = true, size

	e.mu.Lock()
	if size == e.state.GridSize {
		e.mu.Unlock()
		return res
	}
	if err := e.deal(size); err != nil {
		e.mu.Unlock()
		res.Accepted, res.Reason = false, err.Error()
		return res
	}
	snapshot := e.state.Clone()
	e.mu.Unlock()

	res.NewGame = true
	e.log.Info().Int("grid_size", size).Msg("grid size changed")
	e.notify(snapshot)
	return res
}

// SetMaxMoves validates raw input and updates the move budget without
// touching the board. The outcome is re-evaluated against the new budget.
func (e *GameEngine) SetMaxMoves(raw string) SettingResult {
	res := SettingResult{Setting: "max_moves", Raw: raw}

	moves, err := ParseMaxMoves(raw)
	if err != nil {
		res.Reason = err.Error()
		e.log.Warn().Err(err).Str("raw", raw).Msg(e.messages().InvalidMaxMoves)
		return res
	}

	e.mu.Lock()
	t := e.state.Apply(Event{Type: EventSetMaxMoves, MaxMoves: moves})
	snapshot := e.snapshotIfApplied(t)
	e.mu.Unlock()

	res.Accepted, res.Value = t.Applied, moves
	if !t.Applied {
		res.Reason = t.Reason
		return res
	}
	e.log.Info().Int("max_moves", moves).Str("outcome", string(t.Outcome)).Msg("max moves changed")
	e.notify(snapshot)
	return res
}

// IsWon returns whether every pair has been matched
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Outcome == Won
}

// IsLost returns whether the move budget ran out
func (e *GameEngine) IsLost() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Outcome == Lost
}

// IsPending returns whether a mismatch is waiting to be turned back over
func (e *GameEngine) IsPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Pending
}

// GetMoveCount returns the number of mismatched pairs so far
func (e *GameEngine) GetMoveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.MoveCount
}

// GetConfig returns the preset the engine was created with
func (e *GameEngine) GetConfig() *GameConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// SetConfig switches to a new preset and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.mu.Lock()
	prev := e.state
	e.config = config
	e.state = NewGameState(config)
	// the next deal must outrank any resolve scheduled for the old game
	e.state.Generation = prev.Generation
	e.state.DealCount = prev.DealCount
	e.state.TotalReveals = prev.TotalReveals
	if err := e.deal(config.GridSize); err != nil {
		e.mu.Unlock()
		return err
	}
	snapshot := e.state.Clone()
	e.mu.Unlock()

	e.notify(snapshot)
	return nil
}

// GetHistory returns the reveals of the current deal
func (e *GameEngine) GetHistory() []RevealEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RevealEntry(nil), e.state.History...)
}

// OnChange replaces the state listener
func (e *GameEngine) OnChange(fn ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Close detaches the engine: a pending resolve becomes a no-op and the
// listener is dropped.
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.onChange = nil
}

// deal generates a deck and applies it. Caller holds mu.
func (e *GameEngine) deal(gridSize int) error {
	deck, err := NewDeck(gridSize, e.rng)
	if err != nil {
		return fmt.Errorf("failed to deal deck: %w", err)
	}
	t := e.state.Apply(Event{
		Type:     EventDeal,
		Deck:     deck,
		GridSize: gridSize,
		GameID:   uuid.NewString(),
	})
	if !t.Applied {
		return fmt.Errorf("failed to deal deck: %s", t.Reason)
	}
	e.log.Debug().Str("game_id", e.state.GameID).Int("grid_size", gridSize).Uint64("generation", t.Generation).Msg("new deal")
	return nil
}

// mismatchDelay returns the preset delay; zero selects the default. Caller holds mu.
func (e *GameEngine) mismatchDelay() time.Duration {
	ms := e.config.MismatchDelayMs
	if ms == 0 {
		ms = DefaultMismatchDelayMs
	}
	return time.Duration(ms) * time.Millisecond
}

func (e *GameEngine) snapshotIfApplied(t Transition) *GameState {
	if !t.Applied || e.onChange == nil {
		return nil
	}
	return e.state.Clone()
}

func (e *GameEngine) notify(snapshot *GameState) {
	if snapshot == nil {
		return
	}
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (e *GameEngine) messages() Messages {
	e.mu.Lock()
	defer e.mu.Unlock()
	return withDefaultMessages(e.config.Messages)
}

var _ Engine = (*GameEngine)(nil)
