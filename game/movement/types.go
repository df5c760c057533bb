package movement

import (
	"fmt"
	"strings"
)

// TileType is the terrain code stored in each grid cell
type TileType uint8

const (
	Grass TileType = iota
	Mountain
	City
	Factory
	HQ
	Road
	Tree
	DirtRoad
	Ocean
	Barracks
)

var tileNames = map[TileType]string{
	Grass:    "grass",
	Mountain: "mountain",
	City:     "city",
	Factory:  "factory",
	HQ:       "hq",
	Road:     "road",
	Tree:     "tree",
	DirtRoad: "dirt_road",
	Ocean:    "ocean",
	Barracks: "barracks",
}

// String returns the lowercase name of the tile type
func (t TileType) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// ParseTileType resolves a tile name produced by String
func ParseTileType(name string) (TileType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range tileNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tile type %q", name)
}

// UnitClass is the movement category of a unit
type UnitClass string

const (
	// Rifle is the light class. It is the only class that can cross mountains.
	Rifle UnitClass = "rifle"
	// Tank is a heavy class eligible for the road bonus.
	Tank UnitClass = "tank"
	// Artillery is a support class eligible for the road bonus.
	Artillery UnitClass = "artillery"
)

// NormalizeUnitClass maps an arbitrary unit type name onto a movement class.
// Anything that is not a tank or artillery moves like a rifle, which covers
// infantry and rangers.
func NormalizeUnitClass(unitType string) UnitClass {
	switch UnitClass(strings.ToLower(strings.TrimSpace(unitType))) {
	case Tank:
		return Tank
	case Artillery:
		return Artillery
	default:
		return Rifle
	}
}

// Position represents x,y coordinates on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the position as (x,y)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a row-major terrain map
type Grid struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  []TileType `json:"tiles"`
}

// NewGrid validates the dimensions and wraps the tiles in a Grid.
// The tiles slice is used as-is and must not be modified while searches run.
func NewGrid(width, height int, tiles []TileType) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if len(tiles) < width*height {
		return nil, fmt.Errorf("grid needs %d tiles for %dx%d, got %d", width*height, width, height, len(tiles))
	}
	return &Grid{Width: width, Height: height, Tiles: tiles}, nil
}

// InBounds reports whether p lies on the grid
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the tile at p. p must be in bounds.
func (g *Grid) At(p Position) TileType {
	return g.Tiles[p.Y*g.Width+p.X]
}

// BlockedSet holds positions occupied by other units. A nil set blocks nothing.
type BlockedSet map[Position]struct{}

// NewBlockedSet builds a set from the given positions
func NewBlockedSet(positions ...Position) BlockedSet {
	set := make(BlockedSet, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether p is occupied
func (b BlockedSet) Has(p Position) bool {
	_, ok := b[p]
	return ok
}

// Add marks p as occupied
func (b BlockedSet) Add(p Position) {
	b[p] = struct{}{}
}
