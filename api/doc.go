// Package api provides the HTTP REST API for Memory Match.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its board
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/board - Current board
//   - POST /api/sessions/{id}/reveal - Flip a card ({"card_id": 5})
//   - POST /api/sessions/{id}/reset - Deal a new board
//   - PUT /api/sessions/{id}/grid-size - Submit a grid size ({"value": "6"})
//   - PUT /api/sessions/{id}/max-moves - Submit a move budget ({"value": "30"})
//   - GET /api/sessions/{id}/history - Reveal history (?page&limit&order)
//   - PUT /api/sessions/{id}/config - Switch preset and deal ({"config_id": "tiny"})
//
// Configuration:
//   - GET /api/configs - List presets
//   - POST /api/configs - Save a preset
//   - GET /api/configs/{name} - Get a preset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket board stream
//
// A reveal that the rules ignore (pending mismatch, matched card, game over)
// still answers 200 with "applied": false and a reason. Settings behave the
// same way: an invalid grid size answers 200 with "accepted": false.
//
// Errors are returned as JSON:
//
//	{"error": "session not found: ..."}
package api
