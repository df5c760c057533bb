package maps

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wricardo/hashfront-movement/game/movement"
)

func TestParseLayout(t *testing.T) {
	grid, err := ParseLayout([]string{
		".MCFH",
		"RTDBO",
	})
	require.NoError(t, err)
	require.Equal(t, 5, grid.Width)
	require.Equal(t, 2, grid.Height)
	require.Equal(t, []movement.TileType{
		movement.Grass, movement.Mountain, movement.City, movement.Factory, movement.HQ,
		movement.Road, movement.Tree, movement.DirtRoad, movement.Barracks, movement.Ocean,
	}, grid.Tiles)
}

func TestParseLayout_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		message string
	}{
		{"no rows", nil, "no rows"},
		{"empty first row", []string{"   "}, "empty"},
		{"ragged rows", []string{"...", ".."}, "row 1 must have 3 chars, got 2"},
		{"unknown char", []string{"..X"}, "unknown tile char 'X' at (2,0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout(tt.rows)
			require.ErrorContains(t, err, tt.message)
		})
	}
}

func TestParseASCII(t *testing.T) {
	grid, err := ParseASCII(`
		R..
		.M.
	`)
	require.NoError(t, err)
	require.Equal(t, movement.Road, grid.At(movement.Position{X: 0, Y: 0}))
	require.Equal(t, movement.Mountain, grid.At(movement.Position{X: 1, Y: 1}))
}

func TestFormatLayoutRoundTrip(t *testing.T) {
	rows := []string{"..R.M", "OHDDT", "CFB.."}
	grid, err := ParseLayout(rows)
	require.NoError(t, err)
	require.Equal(t, rows, FormatLayout(grid))
}

func TestOverlay(t *testing.T) {
	grid, err := ParseLayout([]string{"...", "..."})
	require.NoError(t, err)

	rows := Overlay(grid, map[movement.Position]rune{
		{X: 0, Y: 0}: '@',
		{X: 2, Y: 1}: '*',
		{X: 5, Y: 5}: '!',
	})
	require.Equal(t, []string{"@..", "..*"}, rows)
}

func TestCostMark(t *testing.T) {
	tests := []struct {
		cost     int
		expected rune
	}{
		{0, '0'},
		{1, '1'},
		{9, '9'},
		{10, '+'},
		{25, '+'},
		{-1, '+'},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, CostMark(test.cost), "cost %d", test.cost)
	}
}

func TestUnitMark(t *testing.T) {
	require.Equal(t, 't', UnitMark(movement.Tank))
	require.Equal(t, 'a', UnitMark(movement.Artillery))
	require.Equal(t, 'r', UnitMark(movement.Rifle))
	require.Equal(t, 'r', UnitMark(movement.UnitClass("infantry")))
}

func TestOverlay_CostAndUnitMarks(t *testing.T) {
	grid, err := ParseLayout([]string{"....", "...."})
	require.NoError(t, err)

	rows := Overlay(grid, map[movement.Position]rune{
		{X: 0, Y: 0}: UnitMark(movement.Tank),
		{X: 1, Y: 0}: CostMark(1),
		{X: 2, Y: 0}: CostMark(12),
	})
	require.Equal(t, []string{"t1+.", "...."}, rows)
}

func TestTileChar(t *testing.T) {
	require.Equal(t, 'R', TileChar(movement.Road))
	require.Equal(t, '?', TileChar(movement.TileType(200)))
}

func TestPackedTiles(t *testing.T) {
	grid, err := ParseLayout([]string{
		"..M",
		"RR.",
	})
	require.NoError(t, err)

	packed := EncodePackedTiles(grid)
	// index*256 + tile: (2,0) mountain, (0,1) road, (1,1) road
	require.Equal(t, []uint32{2*256 + 1, 3*256 + 5, 4*256 + 5}, packed)

	decoded, err := DecodePackedTiles(3, 2, packed)
	require.NoError(t, err)
	require.Equal(t, grid.Tiles, decoded.Tiles)

	_, err = DecodePackedTiles(3, 2, []uint32{6 * 256})
	require.ErrorContains(t, err, "outside")

	_, err = DecodePackedTiles(3, 2, []uint32{42})
	require.ErrorContains(t, err, "unknown tile type")

	_, err = DecodePackedTiles(0, 2, nil)
	require.Error(t, err)
}

func TestDecodePackedUnits(t *testing.T) {
	packed := []uint32{
		1*16777216 + 1*65536 + 3*256 + 4,
		2*16777216 + 3*65536 + 17*256 + 19,
		1*16777216 + 2*65536 + 0*256 + 9,
	}

	units, err := DecodePackedUnits(packed)
	require.NoError(t, err)
	require.Equal(t, []UnitPlacement{
		{ID: "p1-1", Class: movement.Rifle, Player: 1, X: 3, Y: 4},
		{ID: "p2-2", Class: movement.Tank, Player: 2, X: 17, Y: 19},
		{ID: "p1-3", Class: movement.Rifle, Player: 1, X: 0, Y: 9},
	}, units)

	_, err = DecodePackedUnits([]uint32{1*16777216 + 9*65536})
	require.ErrorContains(t, err, "unknown unit type 9")
}
