// Package api provides the HTTP REST API for the board server.
//
// The api package implements:
//   - Session management endpoints
//   - Pawn moves, wall placement and new games
//   - Rule set listing, lookup and upload
//   - WebSocket upgrade handling for board views
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Board snapshot
//   - POST /api/sessions/{id}/move - Move the current pawn ({"row": 7, "col": 4})
//   - POST /api/sessions/{id}/wall - Place a wall ({"row": 3, "col": 3, "orientation": "h"})
//   - POST /api/sessions/{id}/new-game - Start over with the same rule set
//   - GET /api/sessions/{id}/legal-moves - Cells the current pawn may move to
//   - GET /api/sessions/{id}/history - Action log (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List rule sets
//   - POST /api/configs - Save a rule set
//   - GET /api/configs/{name} - Get a rule set
//
// A refused move or wall is not an HTTP error. The response is 200 with
// "success": false and a rejection code such as "jump_no_opponent".
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session not found: a1b2"}
//
// Unknown sessions and rule sets are 404, malformed input is 400 and
// actions on a finished game are 409.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
