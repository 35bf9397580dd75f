// Package mcp exposes the board REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one REST request
// against baseURL, and the JSON answer is rendered as text for the agent.
//
// Tools:
//   - create_session, list_sessions
//   - get_board, resize_board, tick
//   - insert_sprite, remove_sprite, nudge_sprite, send_input
//   - collision_history, list_configs, board_instructions
//
// Tool arguments arrive as loosely typed JSON and are coerced with
// spf13/cast, so "12", 12 and 12.0 are all accepted where a number is
// expected.
//
// The server can be served over stdio with server.ServeStdio or mounted on
// an HTTP mux through HTTPHandler. Probe waits for an API to come up before
// the stdio server starts proxying to it.
package mcp
