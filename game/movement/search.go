package movement

// stateKey identifies a search state. Two arrivals at the same tile with
// different unused bonus have different futures and are tracked separately.
type stateKey struct {
	pos   Position
	bonus int
}

// directions lists neighbor offsets in expansion order: right, left, down, up
var directions = [4]Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// Route is the outcome of a goal-directed search
type Route struct {
	Path     []Position `json:"path"`
	Cost     int        `json:"cost"`
	Expanded int        `json:"expanded"`
}

// Found reports whether the search reached the goal
func (r Route) Found() bool {
	return len(r.Path) > 0
}

// stepRules bundles the per-call inputs every expansion consults
type stepRules struct {
	grid    *Grid
	class   UnitClass
	budget  int
	blocked BlockedSet
}

// successors calls visit for every legal neighbor state of n
func (r stepRules) successors(n *searchNode, visit func(pos Position, bonus, g int)) {
	for _, d := range directions {
		next := Position{X: n.pos.X + d.X, Y: n.pos.Y + d.Y}
		if !r.grid.InBounds(next) {
			continue
		}
		tile := r.grid.At(next)
		if !CanTraverse(r.class, tile) {
			continue
		}
		if r.blocked.Has(next) {
			continue
		}
		cost, bonus := StepCost(tile, r.class, n.bonus)
		g := n.g + cost
		if g > r.budget {
			continue
		}
		visit(next, bonus, g)
	}
}

// heuristic is the Manhattan distance discounted by the unused road bonus.
// The discount keeps it a lower bound for bonus carriers, whose road steps
// can cost nothing; for every other unit it is plain Manhattan distance.
func heuristic(from, goal Position, bonus int) int {
	return max(0, ManhattanDistance(from, goal)-bonus)
}

// FindPath returns the cheapest path from start to goal whose cost stays
// within budget. The path excludes start and ends at goal. It is empty when
// start equals goal, the goal is off the grid, not enterable by class or
// occupied, or when no path fits the budget.
func FindPath(grid *Grid, start, goal Position, budget int, class UnitClass, blocked BlockedSet) []Position {
	return FindRoute(grid, start, goal, budget, class, blocked).Path
}

// FindRoute is FindPath that also reports the path cost and the number of
// expanded search states.
func FindRoute(grid *Grid, start, goal Position, budget int, class UnitClass, blocked BlockedSet) Route {
	if start == goal || !grid.InBounds(start) || !grid.InBounds(goal) {
		return Route{}
	}
	if !CanTraverse(class, grid.At(goal)) || blocked.Has(goal) {
		return Route{}
	}

	rules := stepRules{grid: grid, class: class, budget: budget, blocked: blocked}
	startBonus := InitialBonus(class, grid.At(start))
	root := &searchNode{pos: start, bonus: startBonus, priority: heuristic(start, goal, startBonus)}

	open := &frontier{}
	open.push(root)
	best := map[stateKey]int{root.key(): 0}
	closed := make(map[stateKey]bool)
	expanded := 0

	for open.Len() > 0 {
		current := open.pop()
		if current.pos == goal {
			return Route{Path: current.path(), Cost: current.g, Expanded: expanded}
		}

		key := current.key()
		if closed[key] {
			continue
		}
		closed[key] = true
		expanded++

		rules.successors(current, func(pos Position, bonus, g int) {
			next := stateKey{pos: pos, bonus: bonus}
			if closed[next] {
				return
			}
			if prev, ok := best[next]; ok && g >= prev {
				return
			}
			best[next] = g
			open.push(&searchNode{
				pos:      pos,
				bonus:    bonus,
				g:        g,
				priority: g + heuristic(pos, goal, bonus),
				parent:   current,
			})
		})
	}

	return Route{Expanded: expanded}
}

// FindReachable returns every tile a unit can stop on from start within
// budget, in discovery order. The start tile is never included.
func FindReachable(grid *Grid, start Position, budget int, class UnitClass, blocked BlockedSet) []Position {
	order, _ := explore(grid, start, budget, class, blocked)
	return order
}

// ReachableCosts returns the minimum movement cost of every reachable tile,
// keyed by position. It covers exactly the tiles FindReachable returns.
func ReachableCosts(grid *Grid, start Position, budget int, class UnitClass, blocked BlockedSet) map[Position]int {
	_, costs := explore(grid, start, budget, class, blocked)
	return costs
}

// explore runs the uniform-cost expansion shared by the reachable queries
func explore(grid *Grid, start Position, budget int, class UnitClass, blocked BlockedSet) ([]Position, map[Position]int) {
	order := []Position{}
	costs := make(map[Position]int)
	if !grid.InBounds(start) {
		return order, costs
	}

	rules := stepRules{grid: grid, class: class, budget: budget, blocked: blocked}
	root := &searchNode{pos: start, bonus: InitialBonus(class, grid.At(start))}

	open := &frontier{}
	open.push(root)
	best := map[stateKey]int{root.key(): 0}

	for open.Len() > 0 {
		current := open.pop()
		if current.g > best[current.key()] {
			continue
		}

		rules.successors(current, func(pos Position, bonus, g int) {
			next := stateKey{pos: pos, bonus: bonus}
			if prev, ok := best[next]; ok && g >= prev {
				return
			}
			best[next] = g
			open.push(&searchNode{pos: pos, bonus: bonus, g: g, priority: g})

			if pos == start {
				return
			}
			if prev, seen := costs[pos]; !seen {
				order = append(order, pos)
				costs[pos] = g
			} else if g < prev {
				costs[pos] = g
			}
		})
	}

	return order, costs
}
