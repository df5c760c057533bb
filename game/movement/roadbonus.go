package movement

// RoadBonusCredit is the free movement granted to eligible units that start on a road
const RoadBonusCredit = 2

// BonusEligible reports whether the class receives the road bonus
func BonusEligible(class UnitClass) bool {
	return class == Tank || class == Artillery
}

// InitialBonus returns the road bonus a unit starts its move with
func InitialBonus(class UnitClass, start TileType) int {
	if !BonusEligible(class) || !IsRoad(start) {
		return 0
	}
	return RoadBonusCredit
}

// StepCost returns the movement points paid to enter tile and the bonus left
// afterwards. The bonus only offsets road tiles; stepping off the road
// forfeits whatever is left.
func StepCost(tile TileType, class UnitClass, bonus int) (cost, bonusAfter int) {
	cost = BaseCost(tile)
	if !BonusEligible(class) || bonus <= 0 {
		return cost, 0
	}
	if !IsRoad(tile) {
		return cost, 0
	}
	spend := min(cost, bonus)
	return cost - spend, bonus - spend
}
