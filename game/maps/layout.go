package maps

import (
	"fmt"
	"strings"

	"github.com/wricardo/hashfront-movement/game/movement"
)

// charToTile is the ASCII legend of map layouts
var charToTile = map[rune]movement.TileType{
	'.': movement.Grass,
	'M': movement.Mountain,
	'C': movement.City,
	'F': movement.Factory,
	'H': movement.HQ,
	'R': movement.Road,
	'T': movement.Tree,
	'D': movement.DirtRoad,
	'B': movement.Barracks,
	'O': movement.Ocean,
}

var tileToChar = func() map[movement.TileType]rune {
	m := make(map[movement.TileType]rune, len(charToTile))
	for ch, tile := range charToTile {
		m[tile] = ch
	}
	return m
}()

// TileChar returns the layout character for a tile, or '?' for unknown codes
func TileChar(tile movement.TileType) rune {
	if ch, ok := tileToChar[tile]; ok {
		return ch
	}
	return '?'
}

// ParseLayout converts ASCII rows into a movement grid. Every row must have
// the width of the first one and use only legend characters. Surrounding
// whitespace on each row is ignored.
func ParseLayout(rows []string) (*movement.Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout has no rows")
	}

	width := len(strings.TrimSpace(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("layout row 0 is empty")
	}

	tiles := make([]movement.TileType, 0, width*len(rows))
	for y, raw := range rows {
		row := strings.TrimSpace(raw)
		if len(row) != width {
			return nil, fmt.Errorf("row %d must have %d chars, got %d", y, width, len(row))
		}
		for x, ch := range row {
			tile, ok := charToTile[ch]
			if !ok {
				return nil, fmt.Errorf("unknown tile char '%c' at (%d,%d)", ch, x, y)
			}
			tiles = append(tiles, tile)
		}
	}

	return movement.NewGrid(width, len(rows), tiles)
}

// ParseASCII splits a multi-line map string and parses it
func ParseASCII(ascii string) (*movement.Grid, error) {
	return ParseLayout(strings.Split(strings.TrimSpace(ascii), "\n"))
}

// FormatLayout renders a grid back into layout rows
func FormatLayout(grid *movement.Grid) []string {
	rows := make([]string, grid.Height)
	var b strings.Builder
	for y := 0; y < grid.Height; y++ {
		b.Reset()
		for x := 0; x < grid.Width; x++ {
			b.WriteRune(TileChar(grid.At(movement.Position{X: x, Y: y})))
		}
		rows[y] = b.String()
	}
	return rows
}

// Overlay renders layout rows with marks drawn over selected positions.
// Positions outside the grid are ignored.
func Overlay(grid *movement.Grid, marks map[movement.Position]rune) []string {
	rows := FormatLayout(grid)
	for p, mark := range marks {
		if !grid.InBounds(p) {
			continue
		}
		row := []rune(rows[p.Y])
		row[p.X] = mark
		rows[p.Y] = string(row)
	}
	return rows
}

// CostMark renders a movement cost as one overlay character: the digit for
// 0..9 and '+' for anything else.
func CostMark(cost int) rune {
	if cost >= 0 && cost < 10 {
		return rune('0' + cost)
	}
	return '+'
}

// UnitMark is the overlay character for a unit of the given class
func UnitMark(class movement.UnitClass) rune {
	switch class {
	case movement.Tank:
		return 't'
	case movement.Artillery:
		return 'a'
	default:
		return 'r'
	}
}
