// Package websocket pushes board updates to connected viewers.
//
// The package uses a hub-and-spoke model where a central Hub tracks every
// connection by session. Each client connection gets a read pump and a write
// pump goroutine; the hub goroutine owns registration and fan-out.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only listen. Every message is a
// JSON object:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...snapshot...}}
//
// A snapshot is sent on connect and again after every accepted action or new
// game in that session. Custom events carry a "data" field instead of "state".
// A client never receives a snapshot whose revision is older than one it has
// already seen.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID, func() *engine.Snapshot { return game.Snapshot() })
//	hub.BroadcastToSession(sessionID, game.Snapshot())
package websocket
