package targeting

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// Classify computes the danger flags of the tile at c as seen by the
// controlled country.
func Classify(s world.Snapshot, c core.Coordinate) core.Danger {
	tile := s.Tile(c)
	if tile == nil {
		return 0
	}
	me := s.MyCountry()

	var d core.Danger
	switch {
	case tile.IsOwnedBy(me):
		d |= core.DangerOurs
	case tile.IsUnclaimed():
		d |= core.DangerUnclaimed
	default:
		d |= core.DangerEnemy
	}

	for _, n := range c.Neighbors() {
		if nt := s.Tile(n); nt != nil && nt.Country != tile.Country {
			d |= core.DangerBorder
			break
		}
	}

	if !tile.MoneyKnown {
		d |= core.DangerUnknownMoney
	}

	if len(tile.Pieces) > 0 {
		all := s.AllPieces()
		for _, id := range tile.Pieces {
			p, ok := all[id]
			if !ok || p.Country == me {
				continue
			}
			d |= enemyPieceFlag(p.Type)
		}
	}
	return d
}

func enemyPieceFlag(t core.PieceType) core.Danger {
	switch t {
	case core.Tank:
		return core.DangerEnemyTank
	case core.Antitank:
		return core.DangerEnemyAntitank
	case core.Artillery:
		return core.DangerEnemyArtillery
	case core.Airplane, core.Helicopter:
		return core.DangerEnemyAir
	default:
		return 0
	}
}

// Overrides is danger reported from outside the snapshot, keyed by wrapped
// coordinate. An override replaces the classification of its tile.
type Overrides map[core.Coordinate]core.Danger

// ClassifyWith returns the override for c when there is one and Classify
// otherwise. A nil Overrides is valid.
func ClassifyWith(s world.Snapshot, o Overrides, c core.Coordinate) core.Danger {
	if d, ok := o[c.Wrap(s.Width(), s.Height())]; ok {
		return d
	}
	return Classify(s, c)
}

// Is adapts a danger predicate to a coordinate predicate for Search.
func Is(s world.Snapshot, pred func(core.Danger) bool) func(core.Coordinate) bool {
	return IsWith(s, nil, pred)
}

// IsWith is Is honoring reported danger
func IsWith(s world.Snapshot, o Overrides, pred func(core.Danger) bool) func(core.Coordinate) bool {
	return func(c core.Coordinate) bool { return pred(ClassifyWith(s, o, c)) }
}

// NotOurs accepts enemy or unclaimed tiles
func NotOurs(d core.Danger) bool { return !d.IsOurs() }

// Enemy accepts enemy tiles
func Enemy(d core.Danger) bool { return d.IsEnemy() }

// Unclaimed accepts unclaimed tiles
func Unclaimed(d core.Danger) bool { return d.IsUnclaimed() }

// UnknownMoney accepts tiles whose money is not visible
func UnknownMoney(d core.Danger) bool { return d.IsMoneyUnknown() }
