package engine

// Outcome is the terminal or non-terminal status of a game
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Won        Outcome = "won"
	Lost       Outcome = "lost"
)

// Phase tracks where the game is within a pick cycle
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseOneRevealed Phase = "one_revealed"
	PhaseResolving   Phase = "resolving"
	PhaseFinished    Phase = "finished"
)

const (
	// Validation constants
	MinGridSize = 2
	MaxGridSize = 10

	DefaultGridSize        = 4
	DefaultMaxMoves        = 20
	DefaultMismatchDelayMs = 1000
	MaxMismatchDelayMs     = 10000
	WebSocketBufferSize    = 256
)

// Card is a single tile on the board
type Card struct {
	ID    int `json:"id"`
	Value int `json:"value"`
}

// Messages holds the text shown to the player for game events
type Messages struct {
	Welcome         string `json:"welcome"`
	FirstPick       string `json:"first_pick"`
	Match           string `json:"match"`
	Mismatch        string `json:"mismatch"`
	Victory         string `json:"victory"`
	OutOfMoves      string `json:"out_of_moves"`
	InvalidGridSize string `json:"invalid_grid_size"`
	InvalidMaxMoves string `json:"invalid_max_moves"`
}

// GameConfig is a named game preset loaded from JSON
type GameConfig struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	GridSize        int      `json:"grid_size"`
	MaxMoves        int      `json:"max_moves"`
	MismatchDelayMs int      `json:"mismatch_delay_ms"`
	Messages        Messages `json:"messages"`
}

// RevealKind classifies an applied reveal
type RevealKind string

const (
	RevealIgnored   RevealKind = "ignored"
	RevealFirstPick RevealKind = "first_pick"
	RevealMatch     RevealKind = "match"
	RevealMismatch  RevealKind = "mismatch"
)

// RevealEntry is one applied reveal in the history of the current deal
type RevealEntry struct {
	Seq       int        `json:"seq"`
	GameID    string     `json:"game_id"`
	CardID    int        `json:"card_id"`
	Value     int        `json:"value"`
	Kind      RevealKind `json:"kind"`
	MoveCount int        `json:"move_count"`
	Timestamp int64      `json:"timestamp"`
}

// GameState is the complete state of one game.
// Every mutation goes through Apply.
type GameState struct {
	GameID     string       `json:"game_id"`
	Generation uint64       `json:"generation"`
	ConfigName string       `json:"config_name"`
	GridSize   int          `json:"grid_size"`
	MaxMoves   int          `json:"max_moves"`
	Deck       []Card       `json:"deck"`
	Revealed   []int        `json:"revealed"`
	Matched    map[int]bool `json:"matched"`
	MoveCount  int          `json:"move_count"`
	Outcome    Outcome      `json:"outcome"`
	Pending    bool         `json:"pending"`
	Message    string       `json:"message"`

	// History covers the current deal only; TotalReveals is cumulative across deals.
	History      []RevealEntry `json:"history"`
	TotalReveals int           `json:"total_reveals"`
	DealCount    int           `json:"deal_count"`

	msgs Messages
}
