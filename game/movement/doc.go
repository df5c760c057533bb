// Package movement computes unit movement on a Hashfront terrain grid.
//
// The package implements the movement rules of the tactics game:
//   - Terrain traversability and base movement cost per tile type
//   - The road bonus: tanks and artillery starting on a road get two free
//     movement points, spendable only while they keep moving along road tiles
//   - Goal-directed shortest paths (A*) bounded by a movement budget
//   - Budget-bounded reachable sets (uniform-cost expansion)
//
// Search State:
//
// Because the road bonus depends on recent terrain history, two visits to the
// same tile with different unused bonus are not interchangeable. Every search
// therefore runs over (position, bonus remaining) states rather than raw tiles.
//
// Heuristic:
//
// A* orders states by cost so far plus max(0, manhattan distance - bonus
// remaining). Plain Manhattan distance overestimates when unused bonus can
// pay for road steps, so the discount keeps the estimate admissible and the
// returned path optimal. Classes without the bonus always carry zero bonus and
// see plain Manhattan distance.
//
// Usage:
//
//	grid, err := movement.NewGrid(width, height, tiles)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	blocked := movement.NewBlockedSet(movement.Position{X: 3, Y: 1})
//	path := movement.FindPath(grid, start, goal, 4, movement.Tank, blocked)
//	tiles := movement.FindReachable(grid, start, 4, movement.Tank, blocked)
//
// Determinism:
//
// Frontier entries with equal priority are expanded in insertion order and
// neighbors are generated right, left, down, up. Given identical inputs the
// results are identical, including which of several equal-cost paths is
// returned.
//
// All functions are pure: they allocate call-local state only and are safe to
// call concurrently with shared, unmodified grids.
package movement
