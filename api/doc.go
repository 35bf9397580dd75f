// Package api exposes the board service over a REST API built on
// gorilla/mux.
//
// Sessions:
//   - POST /api/sessions {"config_id": "arena"}
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N
//   - GET|DELETE /api/sessions/{id}
//   - POST /api/sessions/{id}/reset
//
// Layout and ticks:
//   - GET /api/sessions/{id}/board    resolved frame and sprite bounds
//   - POST /api/sessions/{id}/resize  {"width": 800, "height": 600}
//   - POST /api/sessions/{id}/tick    run one tick, returns its collisions
//   - GET /api/sessions/{id}/grid     grid cell placements
//
// Sprites and input:
//   - POST /api/sessions/{id}/sprites {"kind", "width", "height", "x", "y"}
//   - DELETE /api/sessions/{id}/sprites/{sprite}
//   - POST /api/sessions/{id}/sprites/{sprite}/nudge {"dx", "dy"}
//   - POST /api/sessions/{id}/input {"action": "up"}
//   - GET /api/sessions/{id}/collisions?page&limit&order
//
// Configuration:
//   - GET|POST /api/configs
//   - GET /api/configs/schema
//   - GET /api/configs/{name}
//
// Errors are returned as {"error": "..."} with 400 for bad input, 404 for
// unknown sessions, sprites and configs, 409 for duplicate session ids, and
// 500 otherwise. Mutations publish a board_update to the session's
// WebSocket clients; ticks publish collision and sprite_removed events.
//
// GET /health reports liveness and GET /ws?session=<id> upgrades to a
// WebSocket subscription.
package api
