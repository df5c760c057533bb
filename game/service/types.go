package service

import (
	"time"

	"github.com/wricardo/hashfront-movement/game/movement"
)

// PathRequest asks for the cheapest path on a map
type PathRequest struct {
	MapID   string              `json:"map_id"`
	Start   movement.Position   `json:"start"`
	Goal    movement.Position   `json:"goal"`
	Budget  int                 `json:"budget"`
	Class   string              `json:"class"`
	Blocked []movement.Position `json:"blocked,omitempty"`
}

// ReachRequest asks for every tile reachable within a budget
type ReachRequest struct {
	MapID   string              `json:"map_id"`
	Start   movement.Position   `json:"start"`
	Budget  int                 `json:"budget"`
	Class   string              `json:"class"`
	Blocked []movement.Position `json:"blocked,omitempty"`
}

// PathResult contains the outcome of a path query
type PathResult struct {
	Found    bool                `json:"found"`
	Path     []movement.Position `json:"path"`
	Cost     int                 `json:"cost"`
	Budget   int                 `json:"budget"`
	Class    movement.UnitClass  `json:"class"`
	Start    movement.Position   `json:"start"`
	Goal     movement.Position   `json:"goal"`
	Expanded int                 `json:"expanded"`
	Layout   []string            `json:"layout,omitempty"` // terrain rows, for overlays
}

// ReachableTile is a reachable position with its cheapest movement cost
type ReachableTile struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Cost int `json:"cost"`
}

// Position returns the tile coordinates
func (t ReachableTile) Position() movement.Position {
	return movement.Position{X: t.X, Y: t.Y}
}

// ReachResult contains the outcome of a reachable-set query.
// Tiles are ordered by cost, then row, then column.
type ReachResult struct {
	Start  movement.Position  `json:"start"`
	Budget int                `json:"budget"`
	Class  movement.UnitClass `json:"class"`
	Tiles  []ReachableTile    `json:"tiles"`
	Count  int                `json:"count"`
	Layout []string           `json:"layout,omitempty"`
}

// BoardInfo provides information about a board
type BoardInfo struct {
	ID             string    `json:"id"`
	MapID          string    `json:"map_id"`
	MapName        string    `json:"map_name"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Layout         []string  `json:"layout"`
	Units          []Unit    `json:"units"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// MoveResult contains the result of moving a unit on a board
type MoveResult struct {
	Success bool                `json:"success"`
	UnitID  string              `json:"unit_id"`
	From    movement.Position   `json:"from"`
	To      movement.Position   `json:"to"`
	Path    []movement.Position `json:"path"`
	Cost    int                 `json:"cost"`
	Budget  int                 `json:"budget"`
	Message string              `json:"message"`
	Board   *BoardInfo          `json:"board"`
}
