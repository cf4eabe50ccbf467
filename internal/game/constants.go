package game

import "github.com/mitchelldurbincs/TacticalCommander/internal/game/core"

// Weapon and sight ranges, in wrapped Manhattan distance
const (
	DistantAttackRange = 2
	IronDomeRadius     = 1

	DefaultSight   = 1
	SpySight       = 2
	TowerSight     = 3
	SatelliteSight = 4
)

// SightRadius is how far around itself a piece reveals tile money and enemy pieces
func SightRadius(t core.PieceType) int {
	switch t {
	case core.Spy:
		return SpySight
	case core.Tower:
		return TowerSight
	case core.Satellite:
		return SatelliteSight
	default:
		return DefaultSight
	}
}
