// Package service provides the business logic layer for the Hashfront movement server.
//
// The service package implements:
//   - Stateless movement planning (paths and reachable sets) on named maps
//   - Board management: a map plus the units currently standing on it
//   - Unit placement and movement on boards, with other units as blockers
//   - Map discovery, loading and saving
//
// Core Interfaces:
//
// PlannerService is the main service interface providing high-level planning
// operations. BoardManager handles board creation, retrieval, and lifecycle.
// MapManager loads and validates map files.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the movement engine. The engine itself is stateless; the service resolves
// map ids into grids, unit type names into movement classes, and board unit
// positions into blocked sets before each search.
//
// Usage:
//
//	boardMgr := board.NewManager()
//	mapMgr, _ := maps.NewManager("configs/maps")
//	planner := service.NewPlannerService(boardMgr, mapMgr)
//
//	// Plan on a map without creating a board
//	result, err := planner.FindPath(ctx, service.PathRequest{
//		MapID:  "crossroads",
//		Start:  movement.Position{X: 1, Y: 1},
//		Goal:   movement.Position{X: 8, Y: 6},
//		Budget: 6,
//		Class:  "tank",
//	})
//
//	// Or create a board and move its units
//	info, _ := planner.CreateBoard(ctx, "crossroads")
//	move, err := planner.MoveUnit(ctx, info.ID, "p1-tank", movement.Position{X: 5, Y: 1}, 4)
package service
