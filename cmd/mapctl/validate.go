package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
)

// ValidationResult captures the outcome of validating a single map file.
// Info lines are prefixed with "✓" and only printed for valid maps.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// validateMapFile loads and validates a single map JSON file. On top of
// the structural checks it verifies that no unit is stranded and reports
// land tiles no unit can ever reach.
func validateMapFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var cfg maps.MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := maps.ValidateMap(&cfg); err != nil {
		result.fail("%v", err)
		return result
	}

	grid, err := cfg.Grid()
	if err != nil {
		result.fail("%v", err)
		return result
	}

	counts := terrainCounts(grid)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Grid: %dx%d", grid.Width, grid.Height),
		fmt.Sprintf("✓ Terrain: %d road, %d mountain, %d ocean", counts[movement.Road]+counts[movement.DirtRoad], counts[movement.Mountain], counts[movement.Ocean]),
		fmt.Sprintf("✓ Units: %d", len(cfg.Units)),
	)

	checkMobility(grid, cfg.Units, &result)
	return result
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func terrainCounts(grid *movement.Grid) map[movement.TileType]int {
	counts := make(map[movement.TileType]int)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			counts[grid.At(movement.Position{X: x, Y: y})]++
		}
	}
	return counts
}

// checkMobility flags units that cannot take a single step on an empty map
// and warns about units boxed in by their neighbors. With no budget limit
// the union of every unit's reach is compared against the land tiles.
func checkMobility(grid *movement.Grid, units []maps.UnitPlacement, result *ValidationResult) {
	if len(units) == 0 {
		result.Warnings = append(result.Warnings, "Map has no units")
		return
	}

	occupied := movement.NewBlockedSet()
	for _, u := range units {
		occupied.Add(u.Position())
	}

	unlimited := grid.Width * grid.Height * 2
	covered := make(map[movement.Position]bool)
	for _, u := range units {
		class := movement.NormalizeUnitClass(string(u.Class))
		start := u.Position()
		covered[start] = true

		// A single step never costs more than 2
		if len(movement.FindReachable(grid, start, 2, class, nil)) == 0 {
			result.fail("Unit %q (%s) at %s is stranded", u.ID, class, start)
			continue
		}

		others := movement.NewBlockedSet()
		for p := range occupied {
			if p != start {
				others.Add(p)
			}
		}
		if len(movement.FindReachable(grid, start, 2, class, others)) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unit %q at %s is boxed in by other units", u.ID, start))
		}

		for p := range movement.ReachableCosts(grid, start, unlimited, class, nil) {
			covered[p] = true
		}
	}

	var unreachable []movement.Position
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := movement.Position{X: x, Y: y}
			if grid.At(p) != movement.Ocean && !covered[p] {
				unreachable = append(unreachable, p)
			}
		}
	}

	if len(unreachable) == 0 {
		result.Info = append(result.Info, "✓ All land tiles are reachable")
		return
	}
	sort.Slice(unreachable, func(i, j int) bool {
		if unreachable[i].Y != unreachable[j].Y {
			return unreachable[i].Y < unreachable[j].Y
		}
		return unreachable[i].X < unreachable[j].X
	})
	result.Warnings = append(result.Warnings, fmt.Sprintf("%d land tiles unreachable by any unit, first at %s", len(unreachable), unreachable[0]))
}

// validateDir validates every map file in dir and writes a report.
// It returns the number of invalid maps.
func validateDir(w io.Writer, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("finding map files: %w", err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no map files found in %s", dir)
	}

	invalid := 0
	for _, file := range files {
		result := validateMapFile(file)
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			invalid++
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid == 0 {
		fmt.Fprintln(w, "✅ All maps are valid!")
	} else {
		fmt.Fprintf(w, "❌ %d of %d maps have errors\n", invalid, len(files))
	}
	return invalid, nil
}
