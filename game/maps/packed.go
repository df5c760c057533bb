package maps

import (
	"fmt"

	"github.com/wricardo/hashfront-movement/game/movement"
)

// Packed encodings used by the on-chain map registry.
//
// Tiles:  grid_index*256 + tile_type, grid_index = y*width + x. Grass tiles are omitted.
// Units:  player*16777216 + unit_type*65536 + x*256 + y.
const (
	tileShift   = 256
	unitXShift  = 256
	unitTypeMul = 65536
	playerMul   = 16777216
)

// Packed unit type codes
const (
	PackedInfantry = 1
	PackedRanger   = 2
	PackedTank     = 3
)

// DecodePackedTiles builds a grid from packed tile values. Cells without an
// entry are grass.
func DecodePackedTiles(width, height int, packed []uint32) (*movement.Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}

	tiles := make([]movement.TileType, width*height)
	for i, v := range packed {
		index := int(v / tileShift)
		tile := movement.TileType(v % tileShift)
		if index >= len(tiles) {
			return nil, fmt.Errorf("packed tile %d: index %d outside %dx%d grid", i, index, width, height)
		}
		if _, ok := tileToChar[tile]; !ok {
			return nil, fmt.Errorf("packed tile %d: unknown tile type %d", i, tile)
		}
		tiles[index] = tile
	}

	return movement.NewGrid(width, height, tiles)
}

// EncodePackedTiles is the inverse of DecodePackedTiles
func EncodePackedTiles(grid *movement.Grid) []uint32 {
	var packed []uint32
	for i, tile := range grid.Tiles[:grid.Width*grid.Height] {
		if tile == movement.Grass {
			continue
		}
		packed = append(packed, uint32(i*tileShift)+uint32(tile))
	}
	return packed
}

// DecodePackedUnits converts packed unit values into placements.
// Unit ids are assigned as p<player>-<n> in input order.
func DecodePackedUnits(packed []uint32) ([]UnitPlacement, error) {
	units := make([]UnitPlacement, 0, len(packed))
	for i, v := range packed {
		player := int(v / playerMul)
		unitType := int(v % playerMul / unitTypeMul)
		x := int(v % unitTypeMul / unitXShift)
		y := int(v % unitXShift)

		var class movement.UnitClass
		switch unitType {
		case PackedInfantry, PackedRanger:
			class = movement.Rifle
		case PackedTank:
			class = movement.Tank
		default:
			return nil, fmt.Errorf("packed unit %d: unknown unit type %d", i, unitType)
		}

		units = append(units, UnitPlacement{
			ID:     fmt.Sprintf("p%d-%d", player, i+1),
			Class:  class,
			Player: player,
			X:      x,
			Y:      y,
		})
	}
	return units, nil
}
