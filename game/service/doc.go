// Package service provides the business logic layer for the sprite board server.
//
// The service package implements:
//   - Multi-session board management
//   - Ticking one session or every live session
//   - Sprite insertion, removal, nudging and input delivery
//   - Collision history with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level board operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the board engine. A board is not safe for concurrent use, so the service
// serialises every board access behind its own lock; the tick clock and the
// HTTP handlers only ever reach boards through it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "arena")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Advance it by one tick
//	report, err := gameService.Tick(ctx, sessionInfo.ID)
//
// Session Management:
//
// Sessions are identified by short random IDs and own an independent board.
// Each session keeps a bounded history of the collisions its ticks observed.
package service
