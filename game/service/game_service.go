package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrBoardNotFound  = errors.New("board not found")
	ErrBoardExists    = errors.New("board already exists")
	ErrUnitNotFound   = errors.New("unit not found")
	ErrUnitExists     = errors.New("unit already exists")
	ErrTileOccupied   = errors.New("tile occupied")
	ErrNoPath         = errors.New("no path within budget")
)

// PlannerService defines all movement planning operations
type PlannerService interface {
	// Maps
	ListMaps(ctx context.Context) ([]*maps.MapInfo, error)
	GetMap(ctx context.Context, mapID string) (*maps.MapConfig, error)

	// Stateless planning
	FindPath(ctx context.Context, req PathRequest) (*PathResult, error)
	FindReachable(ctx context.Context, req ReachRequest) (*ReachResult, error)

	// Boards
	CreateBoard(ctx context.Context, mapID string) (*BoardInfo, error)
	GetBoard(ctx context.Context, boardID string) (*BoardInfo, error)
	ListBoards(ctx context.Context) ([]*BoardInfo, error)
	DeleteBoard(ctx context.Context, boardID string) error

	// Units on boards
	PlaceUnit(ctx context.Context, boardID string, unit maps.UnitPlacement) (*BoardInfo, error)
	RemoveUnit(ctx context.Context, boardID, unitID string) (*BoardInfo, error)
	UnitPath(ctx context.Context, boardID, unitID string, goal movement.Position, budget int) (*PathResult, error)
	UnitReach(ctx context.Context, boardID, unitID string, budget int) (*ReachResult, error)
	MoveUnit(ctx context.Context, boardID, unitID string, goal movement.Position, budget int) (*MoveResult, error)
}

// BoardManager defines board storage operations
type BoardManager interface {
	Create(id, mapID string, cfg *maps.MapConfig) (*Board, error)
	Get(id string) (*Board, error)
	List() []*Board
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles map loading
type MapManager interface {
	LoadMap(id string) (*maps.MapConfig, error)
	ListMaps() ([]*maps.MapInfo, error)
	GetDefault() *maps.MapConfig
}

// Unit is a unit standing on a board
type Unit struct {
	ID       string             `json:"id"`
	Class    movement.UnitClass `json:"class"`
	Player   int                `json:"player,omitempty"`
	Position movement.Position  `json:"position"`
}

// Board is a map with units placed on it
type Board struct {
	ID             string
	MapID          string
	Map            *maps.MapConfig
	Grid           *movement.Grid
	Units          map[string]*Unit
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Blocked returns the positions of every unit except exceptID
func (b *Board) Blocked(exceptID string) movement.BlockedSet {
	blocked := make(movement.BlockedSet, len(b.Units))
	for id, u := range b.Units {
		if id != exceptID {
			blocked.Add(u.Position)
		}
	}
	return blocked
}

// UnitAt returns the unit standing on p, or nil
func (b *Board) UnitAt(p movement.Position) *Unit {
	for _, u := range b.Units {
		if u.Position == p {
			return u
		}
	}
	return nil
}

// SortedUnits returns copies of the units ordered by id
func (b *Board) SortedUnits() []Unit {
	units := make([]Unit, 0, len(b.Units))
	for _, u := range b.Units {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

// NewBoard builds a board from a map, placing the map's units on it.
// Unit classes are normalized.
func NewBoard(id, mapID string, cfg *maps.MapConfig) (*Board, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: map is required", ErrInvalidRequest)
	}
	grid, err := cfg.Grid()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	now := time.Now()
	b := &Board{
		ID:             id,
		MapID:          mapID,
		Map:            cfg,
		Grid:           grid,
		Units:          make(map[string]*Unit, len(cfg.Units)),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	for _, p := range cfg.Units {
		b.Units[p.ID] = &Unit{
			ID:       p.ID,
			Class:    movement.NormalizeUnitClass(string(p.Class)),
			Player:   p.Player,
			Position: p.Position(),
		}
	}
	return b, nil
}
