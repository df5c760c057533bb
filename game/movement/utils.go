package movement

import "fmt"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// PathCost replays a path from start and returns the movement points it
// spends, applying the road bonus the same way the searches do. It reports an
// error for steps that are not orthogonally adjacent, leave the grid, or
// enter terrain the class cannot cross. Occupancy and budget are not checked.
func PathCost(grid *Grid, start Position, path []Position, class UnitClass) (int, error) {
	if !grid.InBounds(start) {
		return 0, fmt.Errorf("start %s is outside the %dx%d grid", start, grid.Width, grid.Height)
	}

	total := 0
	bonus := InitialBonus(class, grid.At(start))
	prev := start
	for i, p := range path {
		if ManhattanDistance(prev, p) != 1 {
			return 0, fmt.Errorf("step %d: %s is not adjacent to %s", i+1, p, prev)
		}
		if !grid.InBounds(p) {
			return 0, fmt.Errorf("step %d: %s is outside the grid", i+1, p)
		}
		tile := grid.At(p)
		if !CanTraverse(class, tile) {
			return 0, fmt.Errorf("step %d: %s cannot enter %s at %s", i+1, class, tile, p)
		}
		var cost int
		cost, bonus = StepCost(tile, class, bonus)
		total += cost
		prev = p
	}
	return total, nil
}
