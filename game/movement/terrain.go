package movement

// Impassable is the base cost sentinel for terrain no unit can enter
const Impassable = -1

var baseCosts = [...]int{
	Grass:    1,
	Mountain: 2,
	City:     1,
	Factory:  1,
	HQ:       1,
	Road:     1,
	Tree:     1,
	DirtRoad: 1,
	Ocean:    Impassable,
	Barracks: 1,
}

// BaseCost returns the movement points needed to enter a tile.
// Unknown tile codes are Impassable.
func BaseCost(tile TileType) int {
	if int(tile) >= len(baseCosts) {
		return Impassable
	}
	return baseCosts[tile]
}

// CanTraverse reports whether a unit of the given class may enter the tile
func CanTraverse(class UnitClass, tile TileType) bool {
	if BaseCost(tile) == Impassable {
		return false
	}
	if tile == Mountain {
		return class == Rifle
	}
	return true
}

// IsRoad reports whether the tile counts as road for the road bonus
func IsRoad(tile TileType) bool {
	return tile == Road || tile == DirtRoad
}
