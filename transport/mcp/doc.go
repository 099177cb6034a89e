// Package mcp exposes Memory Match to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as text. It holds
// no game state of its own.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - board: render the board with face-down cards hidden
//   - reveal: turn one card face up (card_id = row * grid_size + col)
//   - reset_game: deal a new board with the current settings
//   - switch_config: move a session to another preset
//   - set_grid_size, set_max_moves: change settings; rejected values are
//     reported in the result text, not as tool errors
//   - reveal_history: paginated reveals of the current deal
//   - list_configs: available presets
//   - game_instructions: rules and strategy
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
