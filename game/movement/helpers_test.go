package movement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testLegend = map[rune]TileType{
	'.': Grass,
	'M': Mountain,
	'C': City,
	'F': Factory,
	'H': HQ,
	'R': Road,
	'T': Tree,
	'D': DirtRoad,
	'O': Ocean,
	'B': Barracks,
}

// gridFromRows builds a grid from ASCII rows using the map file legend
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	require.NotEmpty(t, rows)

	width := len(rows[0])
	tiles := make([]TileType, 0, width*len(rows))
	for y, row := range rows {
		require.Len(t, row, width, "row %d", y)
		for _, ch := range row {
			tile, ok := testLegend[ch]
			require.True(t, ok, "unknown tile char %q", ch)
			tiles = append(tiles, tile)
		}
	}

	grid, err := NewGrid(width, len(rows), tiles)
	require.NoError(t, err)
	return grid
}

// fieldRows is a mixed-terrain map shared by the property tests
var fieldRows = []string{
	"..RRR.M.",
	".MR.RTM.",
	"RRRM.R..",
	".T.DDDO.",
	"CM..FRRH",
	"..B.M.R.",
}

var allClasses = []UnitClass{Rifle, Tank, Artillery}

func positionSet(ps []Position) map[Position]bool {
	set := make(map[Position]bool, len(ps))
	for _, p := range ps {
		set[p] = true
	}
	return set
}

// fieldStarts returns every tile of g a unit of class could stand on
func fieldStarts(g *Grid, class UnitClass) []Position {
	var starts []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if CanTraverse(class, g.At(p)) {
				starts = append(starts, p)
			}
		}
	}
	return starts
}
