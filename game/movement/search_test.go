package movement

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindPath_ImmediateEmpty(t *testing.T) {
	grid := gridFromRows(t,
		"..M",
		".O.",
		"...",
	)
	start := Position{X: 0, Y: 0}

	tests := []struct {
		name    string
		goal    Position
		class   UnitClass
		blocked BlockedSet
	}{
		{"start equals goal", start, Rifle, nil},
		{"goal out of bounds", Position{X: 3, Y: 0}, Rifle, nil},
		{"goal negative", Position{X: -1, Y: 0}, Rifle, nil},
		{"goal is ocean", Position{X: 1, Y: 1}, Rifle, nil},
		{"goal is mountain for tank", Position{X: 2, Y: 0}, Tank, nil},
		{"goal occupied", Position{X: 2, Y: 2}, Rifle, NewBlockedSet(Position{X: 2, Y: 2})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := FindRoute(grid, start, tt.goal, 10, tt.class, tt.blocked)
			require.Empty(t, route.Path)
			require.False(t, route.Found())
			require.Zero(t, route.Expanded, "no search should run")
		})
	}
}

func TestFindPath_Straight(t *testing.T) {
	grid := gridFromRows(t, ".....")
	start := Position{X: 0, Y: 0}
	goal := Position{X: 3, Y: 0}

	path := FindPath(grid, start, goal, 3, Rifle, nil)
	require.Equal(t, []Position{{X: 1}, {X: 2}, {X: 3}}, path)

	require.Empty(t, FindPath(grid, start, goal, 2, Rifle, nil), "one point short of the budget")
}

func TestFindPath_MountainDetour(t *testing.T) {
	grid := gridFromRows(t,
		".M.",
		".M.",
		"...",
	)
	start := Position{X: 0, Y: 0}
	goal := Position{X: 2, Y: 0}

	rifle := FindRoute(grid, start, goal, 10, Rifle, nil)
	require.Equal(t, []Position{{X: 1}, {X: 2}}, rifle.Path)
	require.Equal(t, 3, rifle.Cost)

	tank := FindRoute(grid, start, goal, 10, Tank, nil)
	require.Len(t, tank.Path, 6)
	require.Equal(t, 6, tank.Cost)
	for _, p := range tank.Path {
		require.NotEqual(t, Mountain, grid.At(p))
	}

	require.Empty(t, FindPath(grid, start, goal, 5, Tank, nil), "detour does not fit the budget")
}

func TestFindPath_EndsAtGoalExcludesStart(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	for _, class := range allClasses {
		for _, start := range fieldStarts(grid, class) {
			for _, goal := range FindReachable(grid, start, 4, class, nil) {
				path := FindPath(grid, start, goal, 4, class, nil)
				require.NotEmpty(t, path)
				require.Equal(t, goal, path[len(path)-1])
				require.NotContains(t, path, start)
			}
		}
	}
}

func TestFindPath_Blocked(t *testing.T) {
	grid := gridFromRows(t,
		"MMMMM",
		".....",
		"MMMMM",
	)
	start := Position{X: 0, Y: 1}
	goal := Position{X: 4, Y: 1}

	require.Len(t, FindPath(grid, start, goal, 10, Tank, nil), 4)

	blocked := NewBlockedSet(Position{X: 1, Y: 1})
	require.Empty(t, FindPath(grid, start, goal, 10, Tank, blocked))
	require.Empty(t, FindReachable(grid, start, 10, Tank, blocked))

	// Rifles climb around the blocker
	path := FindPath(grid, start, goal, 20, Rifle, blocked)
	require.NotEmpty(t, path)
	require.NotContains(t, path, Position{X: 1, Y: 1})
}

func TestFindPath_DeterministicTieBreak(t *testing.T) {
	grid := gridFromRows(t,
		"...",
		"...",
		"...",
	)
	start := Position{X: 0, Y: 0}
	goal := Position{X: 2, Y: 2}

	expected := []Position{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	for i := 0; i < 5; i++ {
		require.Equal(t, expected, FindPath(grid, start, goal, 10, Rifle, nil))
	}
}

func TestFindPath_StartOutOfBounds(t *testing.T) {
	grid := gridFromRows(t, "...")
	require.Empty(t, FindPath(grid, Position{X: -1}, Position{X: 1}, 5, Rifle, nil))
	require.Empty(t, FindReachable(grid, Position{X: 5}, 5, Rifle, nil))
}

func TestFindReachable_ExcludesStart(t *testing.T) {
	// A tank can step off and back onto its start with less bonus, which is a
	// different search state on the same tile.
	grid := gridFromRows(t, "RRR")
	start := Position{X: 1, Y: 0}

	reach := FindReachable(grid, start, 0, Tank, nil)
	require.ElementsMatch(t, []Position{{X: 0}, {X: 2}}, reach)
	require.NotContains(t, ReachableCosts(grid, start, 0, Tank, nil), start)
}

func TestFindReachable_NoDuplicates(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	for _, class := range allClasses {
		for _, start := range fieldStarts(grid, class) {
			reach := FindReachable(grid, start, 5, class, nil)
			require.Len(t, positionSet(reach), len(reach))
		}
	}
}

func TestFindReachable_ZeroBudget(t *testing.T) {
	grid := gridFromRows(t, "...")
	reach := FindReachable(grid, Position{}, 0, Rifle, nil)
	require.NotNil(t, reach)
	require.Empty(t, reach)
}

func TestNoMountainsForHeavyClasses(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	for _, class := range []UnitClass{Tank, Artillery} {
		for _, start := range fieldStarts(grid, class) {
			for _, p := range FindReachable(grid, start, 8, class, nil) {
				require.NotEqual(t, Mountain, grid.At(p), "%s reached mountain %s from %s", class, p, start)
				for _, step := range FindPath(grid, start, p, 8, class, nil) {
					require.NotEqual(t, Mountain, grid.At(step))
				}
			}
		}
	}
}

func TestReachableMonotonicInBudget(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	for _, class := range allClasses {
		for _, start := range fieldStarts(grid, class) {
			prev := positionSet(FindReachable(grid, start, 0, class, nil))
			for budget := 1; budget <= 8; budget++ {
				cur := positionSet(FindReachable(grid, start, budget, class, nil))
				for p := range prev {
					require.True(t, cur[p], "%s from %s: %s lost going to budget %d", class, start, p, budget)
				}
				prev = cur
			}
		}
	}
}

func TestReachableConsistentWithFindPath(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	blocked := NewBlockedSet(Position{X: 4, Y: 3}, Position{X: 2, Y: 0})

	for _, class := range allClasses {
		for _, start := range fieldStarts(grid, class) {
			for budget := 0; budget <= 6; budget++ {
				costs := ReachableCosts(grid, start, budget, class, blocked)
				reach := FindReachable(grid, start, budget, class, blocked)
				require.Len(t, costs, len(reach))

				for _, p := range reach {
					route := FindRoute(grid, start, p, budget, class, blocked)
					require.True(t, route.Found(), "%s from %s to %s within %d", class, start, p, budget)
					require.LessOrEqual(t, route.Cost, budget)
					require.Equal(t, costs[p], route.Cost, "%s from %s to %s", class, start, p)

					replayed, err := PathCost(grid, start, route.Path, class)
					require.NoError(t, err)
					require.Equal(t, route.Cost, replayed)
					for _, step := range route.Path {
						require.False(t, blocked.Has(step))
					}
				}
			}
		}
	}
}

func TestFindPath_UnreachableWithinBudgetMatchesReachable(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	start := Position{X: 2, Y: 2}
	reach := positionSet(FindReachable(grid, start, 3, Rifle, nil))

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := Position{X: x, Y: y}
			if p == start {
				continue
			}
			found := len(FindPath(grid, start, p, 3, Rifle, nil)) > 0
			require.Equal(t, reach[p], found, "goal %s", p)
		}
	}
}

func TestSearchConcurrentCalls(t *testing.T) {
	grid := gridFromRows(t, fieldRows...)
	start := Position{X: 0, Y: 2}
	expected := FindReachable(grid, start, 6, Tank, nil)

	var wg sync.WaitGroup
	results := make([][]Position, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = FindReachable(grid, start, 6, Tank, nil)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, expected, r)
	}
}

func TestPathCost(t *testing.T) {
	grid := gridFromRows(t,
		"RRR.M",
		".....",
	)
	start := Position{X: 0, Y: 0}

	cost, err := PathCost(grid, start, []Position{{X: 1}, {X: 2}, {X: 3}}, Tank)
	require.NoError(t, err)
	require.Equal(t, 1, cost)

	cost, err = PathCost(grid, start, []Position{{X: 1}, {X: 2}, {X: 3}}, Rifle)
	require.NoError(t, err)
	require.Equal(t, 3, cost)

	cost, err = PathCost(grid, start, nil, Tank)
	require.NoError(t, err)
	require.Zero(t, cost)

	_, err = PathCost(grid, start, []Position{{X: 2}}, Rifle)
	require.ErrorContains(t, err, "not adjacent")

	_, err = PathCost(grid, Position{X: 3}, []Position{{X: 4}}, Tank)
	require.ErrorContains(t, err, "cannot enter")

	_, err = PathCost(grid, Position{X: 9}, nil, Tank)
	require.Error(t, err)
}

func TestManhattanDistance(t *testing.T) {
	require.Equal(t, 0, ManhattanDistance(Position{X: 2, Y: 2}, Position{X: 2, Y: 2}))
	require.Equal(t, 7, ManhattanDistance(Position{X: 0, Y: 0}, Position{X: 3, Y: 4}))
	require.Equal(t, 7, ManhattanDistance(Position{X: 3, Y: 4}, Position{X: 0, Y: 0}))
}

func TestHeuristic(t *testing.T) {
	origin := Position{X: 0, Y: 0}
	require.Equal(t, 7, heuristic(origin, Position{X: 3, Y: 4}, 0))
	require.Equal(t, 5, heuristic(origin, Position{X: 3, Y: 4}, RoadBonusCredit))
	require.Equal(t, 0, heuristic(origin, Position{X: 1, Y: 0}, RoadBonusCredit))
	require.Equal(t, 0, heuristic(origin, origin, 0))
}

func TestHeuristicNeverExceedsRoadCost(t *testing.T) {
	grid := gridFromRows(t,
		"RRRR.",
		"R.D..",
		"RRRRR",
	)
	start := Position{X: 0, Y: 0}
	bonus := InitialBonus(Tank, grid.At(start))
	require.Equal(t, RoadBonusCredit, bonus)

	costs := ReachableCosts(grid, start, 6, Tank, nil)
	require.NotEmpty(t, costs)
	for pos, cost := range costs {
		require.LessOrEqual(t, heuristic(start, pos, bonus), cost, "estimate for %s", pos)
	}

	// Plain Manhattan distance is 3 here, above the budget of 1
	route := FindRoute(grid, start, Position{X: 3, Y: 0}, 1, Tank, nil)
	require.Equal(t, 1, route.Cost)
	require.Len(t, route.Path, 3)
}
