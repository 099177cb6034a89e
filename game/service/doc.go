// Package service provides the business logic layer for Memory Match.
//
// The service package implements:
//   - Multi-session game management
//   - Reveal processing and settings changes
//   - Paginated reveal history
//   - Configuration listing and loading
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine. Mismatches are turned back
// over by the engine on a timer, so transports that need to follow the board
// register a StateListener instead of polling.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithStateListener(hub.BroadcastBoard))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Reveal(ctx, info.ID, 5)
//
// Settings:
//
// SetGridSize and SetMaxMoves take the raw text the player typed. A rejected
// value is reported in the SettingResult and is not an error.
package service
