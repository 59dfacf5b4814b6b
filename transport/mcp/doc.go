// Package mcp exposes the board server to AI agents over the Model Context Protocol.
//
// The Client registers one MCP tool per game operation and forwards every
// call to the REST API, so an agent and a human looking at the board view
// always see the same session.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: players, walls left, whose turn it is and an ASCII board
//   - legal_moves: destinations for the current pawn
//   - move: move the current pawn to (row, col)
//   - place_wall: place a wall at an anchor cell with an orientation
//   - new_game: start over with the session's rule set
//   - action_history: paginated log of accepted and refused actions
//   - list_configs: available rule sets
//   - game_instructions: full rules text
//
// Transport Modes:
//
// The same MCP server can be served over stdio for local agents or mounted
// as a streamable HTTP endpoint at /mcp next to the REST API.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
