package movement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseCost(t *testing.T) {
	tests := []struct {
		tile     TileType
		expected int
	}{
		{Grass, 1},
		{Mountain, 2},
		{City, 1},
		{Factory, 1},
		{HQ, 1},
		{Road, 1},
		{Tree, 1},
		{DirtRoad, 1},
		{Ocean, Impassable},
		{Barracks, 1},
		{TileType(42), Impassable},
	}

	for _, tt := range tests {
		t.Run(tt.tile.String(), func(t *testing.T) {
			require.Equal(t, tt.expected, BaseCost(tt.tile))
		})
	}
}

func TestCanTraverse(t *testing.T) {
	tests := []struct {
		name     string
		class    UnitClass
		tile     TileType
		expected bool
	}{
		{"rifle crosses mountain", Rifle, Mountain, true},
		{"tank blocked by mountain", Tank, Mountain, false},
		{"artillery blocked by mountain", Artillery, Mountain, false},
		{"tank on grass", Tank, Grass, true},
		{"artillery on city", Artillery, City, true},
		{"rifle blocked by ocean", Rifle, Ocean, false},
		{"tank blocked by ocean", Tank, Ocean, false},
		{"unknown code", Rifle, TileType(99), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, CanTraverse(tt.class, tt.tile))
		})
	}
}

func TestIsRoad(t *testing.T) {
	for tile := range tileNames {
		expected := tile == Road || tile == DirtRoad
		require.Equal(t, expected, IsRoad(tile), tile.String())
	}
}

func TestTileTypeNames(t *testing.T) {
	for tile, name := range tileNames {
		parsed, err := ParseTileType(name)
		require.NoError(t, err)
		require.Equal(t, tile, parsed)
	}

	_, err := ParseTileType("lava")
	require.Error(t, err)
	require.Equal(t, "tile(77)", TileType(77).String())
}

func TestNormalizeUnitClass(t *testing.T) {
	require.Equal(t, Tank, NormalizeUnitClass("tank"))
	require.Equal(t, Tank, NormalizeUnitClass(" Tank "))
	require.Equal(t, Artillery, NormalizeUnitClass("artillery"))
	require.Equal(t, Rifle, NormalizeUnitClass("rifle"))
	require.Equal(t, Rifle, NormalizeUnitClass("infantry"))
	require.Equal(t, Rifle, NormalizeUnitClass("ranger"))
	require.Equal(t, Rifle, NormalizeUnitClass(""))
}

func TestNewGrid(t *testing.T) {
	_, err := NewGrid(0, 3, nil)
	require.Error(t, err)

	_, err = NewGrid(2, 2, []TileType{Grass, Grass, Grass})
	require.Error(t, err)

	g, err := NewGrid(2, 1, []TileType{Grass, Road})
	require.NoError(t, err)
	require.Equal(t, Road, g.At(Position{X: 1, Y: 0}))
	require.True(t, g.InBounds(Position{X: 1, Y: 0}))
	require.False(t, g.InBounds(Position{X: 2, Y: 0}))
	require.False(t, g.InBounds(Position{X: 0, Y: -1}))
}

func TestBlockedSet(t *testing.T) {
	var none BlockedSet
	require.False(t, none.Has(Position{}))

	set := NewBlockedSet(Position{X: 1, Y: 2})
	require.True(t, set.Has(Position{X: 1, Y: 2}))
	require.False(t, set.Has(Position{X: 2, Y: 1}))

	set.Add(Position{X: 2, Y: 1})
	require.True(t, set.Has(Position{X: 2, Y: 1}))
}
