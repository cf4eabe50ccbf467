package targeting

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// MassCenter returns the mean coordinate of tiles using integer division on
// the coordinate sums. An empty territory yields core.ErrNoOwnedTiles.
func MassCenter(tiles []core.Coordinate) (core.Coordinate, error) {
	if len(tiles) == 0 {
		return core.Coordinate{}, core.ErrNoOwnedTiles
	}
	var sx, sy int
	for _, c := range tiles {
		sx += c.X
		sy += c.Y
	}
	n := len(tiles)
	return core.Coordinate{X: sx / n, Y: sy / n}, nil
}

// TerritoryCenter computes the mass center of the controlled country for the
// current snapshot. It is never cached across turns.
func TerritoryCenter(s world.Snapshot) (core.Coordinate, error) {
	return MassCenter(s.TilesOf(s.MyCountry()))
}
