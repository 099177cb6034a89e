// Package config provides game preset management for Memory Match.
//
// Presets are JSON files in the configs directory. Each one defines:
//   - grid_size: even board side between 2 and 10
//   - max_moves: mismatch budget before the game is lost
//   - mismatch_delay_ms: how long a mismatched pair stays face up
//   - messages: optional player-facing texts
//
// The manager caches parsed presets and falls back to the built-in classic
// preset (4x4, 20 moves) when the directory holds no valid file.
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	preset, err := manager.LoadConfig("expert")
package config
