package board

import (
	"time"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/service"
)

// BoardPersistence defines the interface for persisting boards
type BoardPersistence interface {
	// Save persists a board to storage
	Save(b *service.Board) error

	// Load retrieves a board from storage by ID
	Load(id string) (*service.Board, error)

	// Delete removes a board from storage
	Delete(id string) error

	// ListAll returns all persisted board IDs
	ListAll() ([]string, error)

	// Exists checks if a board exists in storage
	Exists(id string) bool
}

// PersistedBoardData represents the JSON structure for persisted boards
type PersistedBoardData struct {
	ID             string          `json:"id"`
	MapID          string          `json:"map_id"`
	Map            *maps.MapConfig `json:"map"`
	Units          []service.Unit  `json:"units"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
}
