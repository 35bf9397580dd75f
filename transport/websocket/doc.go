// Package websocket fans board notifications out to WebSocket clients.
//
// A central Hub owns every connection. Clients join a session with
// /ws?session=<id> and receive JSON messages of the form
//
//	{"session_id": "ab12", "event": "collision", "data": {...}}
//
// Events:
//   - collision: one message per colliding pair, data is a collision record
//   - sprite_removed: a sprite was removed by a tick, data carries its id
//   - board_update: a full board view after a REST mutation
//
// The hub runs a single event loop (register, unregister, broadcast), so
// client bookkeeping is never touched from other goroutines. Every
// connected client of a session receives every broadcast for it; clients
// whose send queue fills up are dropped.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithSendBuffer(64))
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
