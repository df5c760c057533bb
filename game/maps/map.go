package maps

import (
	"fmt"

	"github.com/wricardo/hashfront-movement/game/movement"
)

// Validation limits
const (
	MinMapSize = 1
	MaxMapSize = 64
)

// UnitPlacement is a unit standing on a map tile
type UnitPlacement struct {
	ID     string             `json:"id"`
	Class  movement.UnitClass `json:"class"`
	Player int                `json:"player,omitempty"`
	X      int                `json:"x"`
	Y      int                `json:"y"`
}

// Position returns the placement coordinates
func (u UnitPlacement) Position() movement.Position {
	return movement.Position{X: u.X, Y: u.Y}
}

// MapConfig represents a map file
type MapConfig struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Layout      []string        `json:"layout"`
	Units       []UnitPlacement `json:"units,omitempty"`
}

// Grid parses the layout into a movement grid
func (m *MapConfig) Grid() (*movement.Grid, error) {
	return ParseLayout(m.Layout)
}

// ValidateMap validates a map for correctness
func ValidateMap(m *MapConfig) error {
	if m == nil {
		return fmt.Errorf("map validation: map is nil")
	}
	if m.Name == "" {
		return fmt.Errorf("map validation: name is required")
	}

	if len(m.Layout) < MinMapSize || len(m.Layout) > MaxMapSize {
		return fmt.Errorf("map validation: layout must have between %d and %d rows, got %d", MinMapSize, MaxMapSize, len(m.Layout))
	}

	grid, err := ParseLayout(m.Layout)
	if err != nil {
		return fmt.Errorf("map validation: %v", err)
	}
	if grid.Width > MaxMapSize {
		return fmt.Errorf("map validation: layout must have at most %d columns, got %d", MaxMapSize, grid.Width)
	}

	ids := make(map[string]bool, len(m.Units))
	occupied := make(map[movement.Position]string, len(m.Units))
	for i, u := range m.Units {
		if u.ID == "" {
			return fmt.Errorf("map validation: unit %d has no id", i+1)
		}
		if ids[u.ID] {
			return fmt.Errorf("map validation: duplicate unit id %q", u.ID)
		}
		ids[u.ID] = true

		p := u.Position()
		if !grid.InBounds(p) {
			return fmt.Errorf("map validation: unit %q at %s is outside the %dx%d map", u.ID, p, grid.Width, grid.Height)
		}
		class := movement.NormalizeUnitClass(string(u.Class))
		if tile := grid.At(p); !movement.CanTraverse(class, tile) {
			return fmt.Errorf("map validation: unit %q (%s) cannot stand on %s at %s", u.ID, class, tile, p)
		}
		if other, ok := occupied[p]; ok {
			return fmt.Errorf("map validation: units %q and %q share %s", other, u.ID, p)
		}
		occupied[p] = u.ID
	}

	return nil
}
