package service

import (
	"time"

	"github.com/wricardo/memory-match/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Board          *engine.BoardView  `json:"board"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// RevealResult contains the result of a reveal
type RevealResult struct {
	Applied bool              `json:"applied"`
	CardID  int               `json:"card_id"`
	Kind    engine.RevealKind `json:"kind"`
	Reason  string            `json:"reason,omitempty"`
	Board   *engine.BoardView `json:"board"`
	Message string            `json:"message"`
	Events  []GameEvent       `json:"events,omitempty"`

	// ResolvesInMs is set when a mismatch will be turned back over
	ResolvesInMs int `json:"resolves_in_ms,omitempty"`
}

// SettingResult wraps an engine setting change with the resulting board.
// Rejection is reported through Accepted and Reason, not as an error.
type SettingResult struct {
	engine.SettingResult
	Board *engine.BoardView `json:"board"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "first_pick", "match", "mismatch", "victory", "game_over", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	CardID    int       `json:"card_id,omitempty"`
}

// HistoryOptions configures reveal history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated reveal history
type HistoryResponse struct {
	Reveals      []engine.RevealEntry `json:"reveals"`
	TotalReveals int                  `json:"total_reveals"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalPages   int                  `json:"total_pages"`
	HasNext      bool                 `json:"has_next"`
	HasPrevious  bool                 `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename        string `json:"filename"`
	ConfigID        string `json:"config_id"` // The identifier to use for session creation
	Name            string `json:"name"`      // Display name
	Description     string `json:"description"`
	GridSize        int    `json:"grid_size"`
	MaxMoves        int    `json:"max_moves"`
	MismatchDelayMs int    `json:"mismatch_delay_ms"`
}
