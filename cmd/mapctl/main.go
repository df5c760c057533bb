// Command mapctl inspects Hashfront map files from the terminal. It can
// validate a directory of maps, plan a path or a reachable area on a map,
// and decode packed on-chain tile data into an ASCII layout.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "mapctl",
		Usage:  "validate and explore Hashfront movement maps",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "configs/maps",
				Usage:   "directory containing map JSON files",
				Sources: cli.EnvVars("MAPS_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate every map in a directory",
				ArgsUsage: "[dir]",
				Action:    runValidate,
			},
			{
				Name:   "path",
				Usage:  "find the cheapest path between two tiles",
				Flags:  append(planFlags(), &cli.StringFlag{Name: "to", Usage: "goal tile as x,y", Required: true}),
				Action: runPath,
			},
			{
				Name:   "reach",
				Usage:  "show every tile reachable within the budget",
				Flags:  planFlags(),
				Action: runReach,
			},
			{
				Name:      "decode",
				Usage:     "decode packed tile values into a layout",
				ArgsUsage: "<tile>...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Usage: "grid width", Required: true},
					&cli.IntFlag{Name: "height", Usage: "grid height", Required: true},
					&cli.StringFlag{Name: "units", Usage: "comma separated packed unit values"},
				},
				Action: runDecode,
			},
		},
	}
}

func planFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "map", Value: maps.DefaultMapName, Usage: "map id"},
		&cli.StringFlag{Name: "from", Usage: "start tile as x,y", Required: true},
		&cli.IntFlag{Name: "budget", Value: 4, Usage: "movement budget"},
		&cli.StringFlag{Name: "class", Value: string(movement.Rifle), Usage: "unit class: rifle, tank or artillery"},
		&cli.BoolFlag{Name: "units", Usage: "treat the map's units as obstacles"},
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cmd.String("maps-dir")
	}

	invalid, err := validateDir(cmd.Root().Writer, dir)
	if err != nil {
		return err
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid maps", invalid)
	}
	return nil
}

// plan holds the inputs shared by the path and reach commands
type plan struct {
	grid    *movement.Grid
	start   movement.Position
	budget  int
	class   movement.UnitClass
	blocked movement.BlockedSet
}

func loadPlan(cmd *cli.Command) (*plan, error) {
	manager, err := maps.NewManager(cmd.String("maps-dir"))
	if err != nil {
		return nil, err
	}
	cfg, err := manager.LoadMap(cmd.String("map"))
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", cmd.String("map"), err)
	}
	grid, err := cfg.Grid()
	if err != nil {
		return nil, err
	}

	start, err := parsePosition(cmd.String("from"))
	if err != nil {
		return nil, err
	}
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("start %s is outside the %dx%d map", start, grid.Width, grid.Height)
	}

	budget := cmd.Int("budget")
	if budget < 0 {
		return nil, fmt.Errorf("budget must not be negative, got %d", budget)
	}

	blocked := movement.NewBlockedSet()
	if cmd.Bool("units") {
		for _, u := range cfg.Units {
			if p := u.Position(); p != start {
				blocked.Add(p)
			}
		}
	}

	return &plan{
		grid:    grid,
		start:   start,
		budget:  budget,
		class:   movement.NormalizeUnitClass(cmd.String("class")),
		blocked: blocked,
	}, nil
}

func runPath(ctx context.Context, cmd *cli.Command) error {
	p, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	goal, err := parsePosition(cmd.String("to"))
	if err != nil {
		return err
	}

	route := movement.FindRoute(p.grid, p.start, goal, p.budget, p.class, p.blocked)
	w := cmd.Root().Writer

	marks := map[movement.Position]rune{}
	if route.Found() {
		fmt.Fprintf(w, "%s %s -> %s: cost %d of %d, %d steps, %d nodes expanded\n",
			p.class, p.start, goal, route.Cost, p.budget, len(route.Path), route.Expanded)
		for _, step := range route.Path {
			marks[step] = '*'
		}
	} else {
		fmt.Fprintf(w, "%s %s -> %s: no path within budget %d\n", p.class, p.start, goal, p.budget)
	}
	marks[p.start] = 'S'
	marks[goal] = 'G'

	writeRows(w, maps.Overlay(p.grid, marks))
	return nil
}

func runReach(ctx context.Context, cmd *cli.Command) error {
	p, err := loadPlan(cmd)
	if err != nil {
		return err
	}

	costs := movement.ReachableCosts(p.grid, p.start, p.budget, p.class, p.blocked)
	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s from %s with budget %d: %d tiles reachable\n", p.class, p.start, p.budget, len(costs))

	marks := map[movement.Position]rune{p.start: 'S'}
	for pos, cost := range costs {
		marks[pos] = maps.CostMark(cost)
	}
	writeRows(w, maps.Overlay(p.grid, marks))
	return nil
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	tiles, err := parsePacked(cmd.Args().Slice())
	if err != nil {
		return err
	}
	grid, err := maps.DecodePackedTiles(cmd.Int("width"), cmd.Int("height"), tiles)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	marks := map[movement.Position]rune{}
	if raw := cmd.String("units"); raw != "" {
		packed, err := parsePacked(strings.Split(raw, ","))
		if err != nil {
			return err
		}
		units, err := maps.DecodePackedUnits(packed)
		if err != nil {
			return err
		}
		for _, u := range units {
			fmt.Fprintf(w, "%s %s player %d at %s\n", u.ID, u.Class, u.Player, u.Position())
			marks[u.Position()] = maps.UnitMark(u.Class)
		}
	}

	writeRows(w, maps.Overlay(grid, marks))
	return nil
}

// parsePosition parses "x,y"
func parsePosition(s string) (movement.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return movement.Position{}, fmt.Errorf("invalid position %q, expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return movement.Position{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return movement.Position{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return movement.Position{X: x, Y: y}, nil
}

func parsePacked(values []string) ([]uint32, error) {
	packed := make([]uint32, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid packed value %q: %w", v, err)
		}
		packed = append(packed, uint32(n))
	}
	return packed, nil
}

func writeRows(w io.Writer, rows []string) {
	for y, row := range rows {
		fmt.Fprintf(w, "%2d %s\n", y, row)
	}
}
