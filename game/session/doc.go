// Package session provides in-memory session storage for the board server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short session ID generation
//   - Session expiry for idle games
//
// Core Types:
//
// Manager stores service.Session values, each owning an independent
// engine.Game created from the session's rule set.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Lookups are
// case-insensitive, so "A1B2" and "a1b2" name the same session.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions live only in memory and are gone when the process exits.
// CleanupExpiredSessions drops sessions nobody has touched for a given age.
package session
