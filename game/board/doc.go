// Package board provides board management for the Hashfront movement server.
//
// A board is a loaded map plus the units currently standing on it. Boards
// are what the stateful API and MCP tools operate on: units are placed,
// moved and removed, and every unit blocks the others during planning.
//
// The board package implements:
//   - Thread-safe board storage and retrieval
//   - Short unique board ID generation
//   - Board lifecycle management and expiration
//   - Optional JSON file persistence
//
// Board Identifiers:
//
// Boards use the first 8 characters of a random UUID, which is short enough
// to type into a curl command. Lookups are case-insensitive.
//
// Persistence:
//
// FilePersistence stores one JSON file per board. The map is stored inline
// so a persisted board survives edits to, or removal of, its map file.
//
// Usage:
//
//	persistence, _ := board.NewFilePersistence("boards")
//	manager := board.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedBoards()
//
//	b, err := manager.Create("", "crossroads", cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop boards idle for an hour
//	removed := manager.CleanupExpiredBoards(time.Hour)
package board
