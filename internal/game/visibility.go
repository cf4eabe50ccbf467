package game

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// visibleTiles returns the board indexes country can see: its own tiles and
// everything within sight of its pieces.
func (e *Engine) visibleTiles(country string) map[int]struct{} {
	b := e.gs.Board
	visible := make(map[int]struct{})

	for i := range b.T {
		if b.T[i].IsOwnedBy(country) {
			visible[i] = struct{}{}
		}
	}
	for _, p := range e.gs.Pieces {
		if p.Country != country {
			continue
		}
		e.setVisibilityAround(visible, p.Coord, SightRadius(p.Type))
	}
	return visible
}

// setVisibilityAround marks every tile within radius of center
func (e *Engine) setVisibilityAround(visible map[int]struct{}, center core.Coordinate, radius int) {
	b := e.gs.Board
	for dy := -radius; dy <= radius; dy++ {
		rest := radius - abs(dy)
		for dx := -rest; dx <= rest; dx++ {
			c := core.Coordinate{X: center.X + dx, Y: center.Y + dy}.Wrap(b.W, b.H)
			visible[c.ToIndex(b.W)] = struct{}{}
		}
	}
}

// maskedBoard copies the board as country sees it. Ownership is public; money
// and occupants are only reported for visible tiles.
func (e *Engine) maskedBoard(visible map[int]struct{}) *core.Board {
	src := e.gs.Board
	b := &core.Board{W: src.W, H: src.H, T: make([]core.Tile, len(src.T))}
	for i, t := range src.T {
		masked := core.Tile{Coord: t.Coord, Country: t.Country}
		if _, ok := visible[i]; ok {
			masked.Money = t.Money
			masked.MoneyKnown = true
			masked.Pieces = append([]string(nil), t.Pieces...)
		}
		b.T[i] = masked
	}
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
