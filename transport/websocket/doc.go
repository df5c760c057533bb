// Package websocket provides live board updates for the Hashfront movement server.
//
// The hub keeps one subscriber set per board. Clients connect with
// /ws?board=<id> and receive JSON messages whenever that board changes:
//
//   - board_update: the full board (map, units) after a unit is placed,
//     removed or moved
//   - reachable_overlay: the reachable tiles of a unit after a reach query,
//     for highlighting a movement range
//
// Clients do not send commands over the socket; planning and moves go
// through the REST API or MCP tools. Incoming frames only keep the
// connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("board"))
//	})
//
//	hub.BroadcastBoard(boardID, info)
package websocket
