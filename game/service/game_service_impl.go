package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
)

// plannerServiceImpl implements the PlannerService interface
type plannerServiceImpl struct {
	boards BoardManager
	maps   MapManager
	mu     sync.RWMutex
}

// NewPlannerService creates a new planner service instance
func NewPlannerService(boards BoardManager, mapMgr MapManager) PlannerService {
	return &plannerServiceImpl{
		boards: boards,
		maps:   mapMgr,
	}
}

// ListMaps returns every loadable map
func (s *plannerServiceImpl) ListMaps(ctx context.Context) ([]*maps.MapInfo, error) {
	return s.maps.ListMaps()
}

// GetMap loads a map by id. An empty id returns the default map.
func (s *plannerServiceImpl) GetMap(ctx context.Context, mapID string) (*maps.MapConfig, error) {
	return s.loadMap(mapID)
}

// FindPath finds the cheapest path on a map, ignoring board units
func (s *plannerServiceImpl) FindPath(ctx context.Context, req PathRequest) (*PathResult, error) {
	cfg, err := s.loadMap(req.MapID)
	if err != nil {
		return nil, err
	}
	grid, err := cfg.Grid()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", maps.ErrInvalidMap, err)
	}

	class := movement.NormalizeUnitClass(req.Class)
	result, err := planPath(grid, req.Start, req.Goal, req.Budget, class, movement.NewBlockedSet(req.Blocked...))
	if err != nil {
		return nil, err
	}
	result.Layout = cfg.Layout
	return result, nil
}

// FindReachable lists every tile reachable on a map within the budget
func (s *plannerServiceImpl) FindReachable(ctx context.Context, req ReachRequest) (*ReachResult, error) {
	cfg, err := s.loadMap(req.MapID)
	if err != nil {
		return nil, err
	}
	grid, err := cfg.Grid()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", maps.ErrInvalidMap, err)
	}

	class := movement.NormalizeUnitClass(req.Class)
	result, err := planReach(grid, req.Start, req.Budget, class, movement.NewBlockedSet(req.Blocked...))
	if err != nil {
		return nil, err
	}
	result.Layout = cfg.Layout
	return result, nil
}

// CreateBoard creates a board from a map. An empty map id uses the default map.
func (s *plannerServiceImpl) CreateBoard(ctx context.Context, mapID string) (*BoardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadMap(mapID)
	if err != nil {
		return nil, err
	}
	if mapID == "" {
		mapID = s.mapIDFor(cfg)
	}

	// Let the board manager generate the id
	b, err := s.boards.Create("", mapID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return boardInfo(b), nil
}

// GetBoard retrieves board information. It refreshes the access time, so it
// takes the write lock like every other board mutation.
func (s *plannerServiceImpl) GetBoard(ctx context.Context, boardID string) (*BoardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.getBoard(boardID)
	if err != nil {
		return nil, err
	}

	s.boards.UpdateLastAccessed(boardID)

	return boardInfo(b), nil
}

// ListBoards returns all boards ordered by creation time
func (s *plannerServiceImpl) ListBoards(ctx context.Context) ([]*BoardInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boards := s.boards.List()
	sort.Slice(boards, func(i, j int) bool {
		if boards[i].CreatedAt.Equal(boards[j].CreatedAt) {
			return boards[i].ID < boards[j].ID
		}
		return boards[i].CreatedAt.Before(boards[j].CreatedAt)
	})

	result := make([]*BoardInfo, 0, len(boards))
	for _, b := range boards {
		result = append(result, boardInfo(b))
	}
	return result, nil
}

// DeleteBoard removes a board
func (s *plannerServiceImpl) DeleteBoard(ctx context.Context, boardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.boards.Delete(boardID); err != nil {
		return fmt.Errorf("%w: %v", ErrBoardNotFound, err)
	}
	return nil
}

// PlaceUnit adds a unit to a board
func (s *plannerServiceImpl) PlaceUnit(ctx context.Context, boardID string, placement maps.UnitPlacement) (*BoardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.getBoard(boardID)
	if err != nil {
		return nil, err
	}

	if placement.ID == "" {
		return nil, fmt.Errorf("%w: unit id is required", ErrInvalidRequest)
	}
	if _, exists := b.Units[placement.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUnitExists, placement.ID)
	}

	pos := placement.Position()
	if !b.Grid.InBounds(pos) {
		return nil, fmt.Errorf("%w: %s is outside the %dx%d board", ErrInvalidRequest, pos, b.Grid.Width, b.Grid.Height)
	}
	class := movement.NormalizeUnitClass(string(placement.Class))
	if tile := b.Grid.At(pos); !movement.CanTraverse(class, tile) {
		return nil, fmt.Errorf("%w: %s cannot stand on %s", ErrInvalidRequest, class, tile)
	}
	if other := b.UnitAt(pos); other != nil {
		return nil, fmt.Errorf("%w: %s holds %s", ErrTileOccupied, pos, other.ID)
	}

	b.Units[placement.ID] = &Unit{
		ID:       placement.ID,
		Class:    class,
		Player:   placement.Player,
		Position: pos,
	}
	s.touch(b.ID)

	return boardInfo(b), nil
}

// RemoveUnit removes a unit from a board
func (s *plannerServiceImpl) RemoveUnit(ctx context.Context, boardID, unitID string) (*BoardInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.getBoard(boardID)
	if err != nil {
		return nil, err
	}
	if _, exists := b.Units[unitID]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitID)
	}

	delete(b.Units, unitID)
	s.touch(b.ID)

	return boardInfo(b), nil
}

// UnitPath plans a path for a board unit. Every other unit blocks.
func (s *plannerServiceImpl) UnitPath(ctx context.Context, boardID, unitID string, goal movement.Position, budget int) (*PathResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, unit, err := s.getUnit(boardID, unitID)
	if err != nil {
		return nil, err
	}

	result, err := planPath(b.Grid, unit.Position, goal, budget, unit.Class, b.Blocked(unit.ID))
	if err != nil {
		return nil, err
	}
	result.Layout = b.Map.Layout
	return result, nil
}

// UnitReach lists the tiles a board unit can reach. Every other unit blocks.
func (s *plannerServiceImpl) UnitReach(ctx context.Context, boardID, unitID string, budget int) (*ReachResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, unit, err := s.getUnit(boardID, unitID)
	if err != nil {
		return nil, err
	}

	result, err := planReach(b.Grid, unit.Position, budget, unit.Class, b.Blocked(unit.ID))
	if err != nil {
		return nil, err
	}
	result.Layout = b.Map.Layout
	return result, nil
}

// MoveUnit moves a board unit along the cheapest path to goal.
// The move is rejected if the goal is not reachable within the budget.
func (s *plannerServiceImpl) MoveUnit(ctx context.Context, boardID, unitID string, goal movement.Position, budget int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, unit, err := s.getUnit(boardID, unitID)
	if err != nil {
		return nil, err
	}

	from := unit.Position
	if goal == from {
		return nil, fmt.Errorf("%w: unit %s is already at %s", ErrInvalidRequest, unit.ID, goal)
	}
	if other := b.UnitAt(goal); other != nil {
		return nil, fmt.Errorf("%w: %s holds %s", ErrTileOccupied, goal, other.ID)
	}

	planned, err := planPath(b.Grid, from, goal, budget, unit.Class, b.Blocked(unit.ID))
	if err != nil {
		return nil, err
	}
	if !planned.Found {
		return nil, fmt.Errorf("%w: %s from %s to %s with budget %d", ErrNoPath, unit.ID, from, goal, budget)
	}

	unit.Position = goal
	s.touch(b.ID)

	return &MoveResult{
		Success: true,
		UnitID:  unit.ID,
		From:    from,
		To:      goal,
		Path:    planned.Path,
		Cost:    planned.Cost,
		Budget:  budget,
		Message: fmt.Sprintf("%s moved %s -> %s (cost %d/%d)", unit.ID, from, goal, planned.Cost, budget),
		Board:   boardInfo(b),
	}, nil
}

// planPath validates a request and runs the goal-directed search
func planPath(grid *movement.Grid, start, goal movement.Position, budget int, class movement.UnitClass, blocked movement.BlockedSet) (*PathResult, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: budget must be non-negative, got %d", ErrInvalidRequest, budget)
	}
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("%w: start %s is outside the %dx%d map", ErrInvalidRequest, start, grid.Width, grid.Height)
	}
	if !grid.InBounds(goal) {
		return nil, fmt.Errorf("%w: goal %s is outside the %dx%d map", ErrInvalidRequest, goal, grid.Width, grid.Height)
	}

	route := movement.FindRoute(grid, start, goal, budget, class, blocked)
	path := route.Path
	if path == nil {
		path = []movement.Position{}
	}

	return &PathResult{
		Found:    route.Found(),
		Path:     path,
		Cost:     route.Cost,
		Budget:   budget,
		Class:    class,
		Start:    start,
		Goal:     goal,
		Expanded: route.Expanded,
	}, nil
}

// planReach validates a request and runs the uniform-cost flood
func planReach(grid *movement.Grid, start movement.Position, budget int, class movement.UnitClass, blocked movement.BlockedSet) (*ReachResult, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: budget must be non-negative, got %d", ErrInvalidRequest, budget)
	}
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("%w: start %s is outside the %dx%d map", ErrInvalidRequest, start, grid.Width, grid.Height)
	}

	costs := movement.ReachableCosts(grid, start, budget, class, blocked)
	tiles := make([]ReachableTile, 0, len(costs))
	for p, c := range costs {
		tiles = append(tiles, ReachableTile{X: p.X, Y: p.Y, Cost: c})
	}
	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return &ReachResult{
		Start:  start,
		Budget: budget,
		Class:  class,
		Tiles:  tiles,
		Count:  len(tiles),
	}, nil
}

func (s *plannerServiceImpl) loadMap(mapID string) (*maps.MapConfig, error) {
	if mapID == "" {
		return s.maps.GetDefault(), nil
	}
	cfg, err := s.maps.LoadMap(mapID)
	if err != nil {
		if errors.Is(err, maps.ErrMapNotFound) {
			return nil, fmt.Errorf("map '%s' not found. Use /api/maps to list available maps: %w", mapID, err)
		}
		return nil, fmt.Errorf("failed to load map %s: %w", mapID, err)
	}
	return cfg, nil
}

// mapIDFor returns the map id for a loaded map, used for consistent API responses
func (s *plannerServiceImpl) mapIDFor(cfg *maps.MapConfig) string {
	infos, err := s.maps.ListMaps()
	if err == nil {
		for _, info := range infos {
			if info.Name == cfg.Name {
				return info.MapID
			}
		}
	}
	return "default"
}

func (s *plannerServiceImpl) getBoard(boardID string) (*Board, error) {
	b, err := s.boards.Get(boardID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, boardID)
	}
	return b, nil
}

func (s *plannerServiceImpl) getUnit(boardID, unitID string) (*Board, *Unit, error) {
	b, err := s.getBoard(boardID)
	if err != nil {
		return nil, nil, err
	}
	unit, exists := b.Units[unitID]
	if !exists {
		return nil, nil, fmt.Errorf("%w: %s on board %s", ErrUnitNotFound, unitID, boardID)
	}
	return b, unit, nil
}

// touch refreshes the access time and persists the board.
// Persistence failures are not fatal.
func (s *plannerServiceImpl) touch(boardID string) {
	s.boards.UpdateLastAccessed(boardID)
	s.boards.Save(boardID)
}

func boardInfo(b *Board) *BoardInfo {
	return &BoardInfo{
		ID:             b.ID,
		MapID:          b.MapID,
		MapName:        b.Map.Name,
		Width:          b.Grid.Width,
		Height:         b.Grid.Height,
		Layout:         b.Map.Layout,
		Units:          b.SortedUnits(),
		CreatedAt:      b.CreatedAt,
		LastAccessedAt: b.LastAccessedAt,
	}
}
