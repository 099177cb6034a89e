// Package engine provides the core game logic for Memory Match.
//
// The engine package implements:
//   - Deck generation: a uniformly shuffled, paired deck sized to the grid
//   - The game state machine: reveals, matches, mismatches and the move budget
//   - Settings validation for grid size and max moves
//   - A player-facing projection of the state (BoardView)
//
// Core Types:
//
// GameState holds the whole game and changes only through its Apply
// transition function. GameEngine wraps a GameState with a mutex, a deck
// shuffler and the timer that turns a mismatched pair back over. GameConfig is
// a named preset loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	t := gameEngine.Reveal(0)
//	t = gameEngine.Reveal(5)
//	view := gameEngine.View()
//
// Game Rules:
//
// Cards are flipped two at a time. A matching pair stays face up and costs
// nothing. A mismatched pair costs one move and is turned back over after a
// short delay, during which input is ignored. The game is won when every card
// is matched and lost when the move count reaches the budget. Invalid or
// out-of-turn input is ignored rather than reported as an error.
//
// Deferred Resolution:
//
// Each deal increments a generation counter. The resolve scheduled by a
// mismatch carries the generation it was scheduled in, and a resolve from an
// earlier deal is a no-op, so a reset during the delay cannot resurrect the
// previous game's face-up pair.
package engine
