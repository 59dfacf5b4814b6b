// Package service provides the business logic layer for the board server.
//
// The service package implements:
//   - Multi-session game management
//   - Rule set selection per session
//   - Move and wall processing with input validation
//   - Action history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and validates rule sets.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine.Game; a service-wide lock
// serialises access to them, since a Game is not safe for concurrent use.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "blitz")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.Move(ctx, info.ID, engine.Coordinate{Row: 7, Col: 4})
//	if err == nil && !result.Success {
//		fmt.Println(result.Rejection.Code, result.Message)
//	}
//
// Errors:
//
// A rule violation is not an error: the ActionResult reports Success=false
// with the rejection code and the rule set's message for it. Errors are kept
// for requests that cannot be evaluated at all: ErrSessionNotFound,
// ErrInvalidCoordinate, ErrInvalidOrientation, and ErrGameOver once a player
// has reached their goal row.
package service
