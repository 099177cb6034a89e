// Package session provides session management for Memory Match.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns one game engine. Deleting or expiring a session closes
// its engine so a pending mismatch timer cannot touch it afterwards.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(
//		session.WithLogger(log.Logger),
//		session.WithEngineOptions(engine.WithSeed(42)),
//	)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//
// Sessions are not persisted. A restart starts from an empty manager.
package session
