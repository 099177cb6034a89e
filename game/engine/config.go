package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrInvalidGridSize = errors.New("invalid grid size")
	ErrInvalidMaxMoves = errors.New("invalid max moves")
)

// ParseGridSize parses raw user input into a grid size.
// Accepted values are even integers between MinGridSize and MaxGridSize.
func ParseGridSize(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidGridSize, raw)
	}
	if err := ValidateGridSize(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateGridSize checks range and parity of a grid size
func ValidateGridSize(v int) error {
	if v < MinGridSize || v > MaxGridSize {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidGridSize, MinGridSize, MaxGridSize, v)
	}
	if v%2 != 0 {
		return fmt.Errorf("%w: must be even, got %d", ErrInvalidGridSize, v)
	}
	return nil
}

// ParseMaxMoves parses raw user input into a positive move budget
func ParseMaxMoves(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidMaxMoves, raw)
	}
	if err := ValidateMaxMoves(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateMaxMoves checks that a move budget is positive
func ValidateMaxMoves(v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: must be greater than 0, got %d", ErrInvalidMaxMoves, v)
	}
	return nil
}

// ValidateGameConfig validates a game preset
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if err := ValidateGridSize(config.GridSize); err != nil {
		return fmt.Errorf("config validation: grid_size: %w", err)
	}
	if err := ValidateMaxMoves(config.MaxMoves); err != nil {
		return fmt.Errorf("config validation: max_moves: %w", err)
	}
	if config.MismatchDelayMs < 0 || config.MismatchDelayMs > MaxMismatchDelayMs {
		return fmt.Errorf("config validation: mismatch_delay_ms must be between 0 and %d, got %d",
			MaxMismatchDelayMs, config.MismatchDelayMs)
	}

	// Format strings are optional but must carry their verb when present
	if config.Messages.Victory != "" && !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the move count")
	}
	if config.Messages.Mismatch != "" && strings.Count(config.Messages.Mismatch, "%d") != 2 {
		return fmt.Errorf("config validation: messages.mismatch must contain two %%d for moves used and allowed")
	}
	return nil
}

// LoadGameConfig loads and validates a preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultGameConfig returns the built-in preset: a 4x4 board with 20 moves
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "4x4 board, 20 mismatches allowed",
		GridSize:        DefaultGridSize,
		MaxMoves:        DefaultMaxMoves,
		MismatchDelayMs: DefaultMismatchDelayMs,
		Messages:        DefaultMessages(),
	}
}

// DefaultMessages returns the stock player-facing texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:         "Find all the pairs!",
		FirstPick:       "Pick a second card",
		Match:           "It's a match!",
		Mismatch:        "No match. Moves: %d / %d",
		Victory:         "You Won! Cleared the board with %d mismatches",
		OutOfMoves:      "Game Over! Out of moves",
		InvalidGridSize: "Please select an even number between 2 and 10.",
		InvalidMaxMoves: "Max moves must be a positive number.",
	}
}

// withDefaultMessages fills empty message templates from the defaults
func withDefaultMessages(m Messages) Messages {
	d := DefaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.FirstPick == "" {
		m.FirstPick = d.FirstPick
	}
	if m.Match == "" {
		m.Match = d.Match
	}
	if m.Mismatch == "" {
		m.Mismatch = d.Mismatch
	}
	if m.Victory == "" {
		m.Victory = d.Victory
	}
	if m.OutOfMoves == "" {
		m.OutOfMoves = d.OutOfMoves
	}
	if m.InvalidGridSize == "" {
		m.InvalidGridSize = d.InvalidGridSize
	}
	if m.InvalidMaxMoves == "" {
		m.InvalidMaxMoves = d.InvalidMaxMoves
	}
	return m
}
