package game

import (
	"fmt"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// CountryView is one country's turn: a snapshot masked by its sight plus the
// order entry points. Pieces in the snapshot are copies; orders go to the
// engine queue.
type CountryView struct {
	e       *Engine
	country string
	turn    int
	board   *core.Board
	mine    map[string]*core.Piece
	all     map[string]*core.Piece
}

var _ world.Turn = (*CountryView)(nil)

// View builds the current turn for country
func (e *Engine) View(country string) (*CountryView, error) {
	if !e.gs.HasCountry(country) {
		return nil, fmt.Errorf("view %q: %w", country, core.ErrUnknownCountry)
	}
	visible := e.visibleTiles(country)
	v := &CountryView{
		e:       e,
		country: country,
		turn:    e.gs.Turn,
		board:   e.maskedBoard(visible),
		mine:    make(map[string]*core.Piece),
		all:     make(map[string]*core.Piece),
	}
	for id, p := range e.gs.Pieces {
		if p.Country != country {
			if _, seen := visible[p.Coord.ToIndex(e.gs.Board.W)]; !seen {
				continue
			}
		}
		cp := *p
		v.all[id] = &cp
		if p.Country == country {
			v.mine[id] = &cp
		}
	}
	return v, nil
}

func (v *CountryView) Turn() int           { return v.turn }
func (v *CountryView) Width() int          { return v.board.W }
func (v *CountryView) Height() int         { return v.board.H }
func (v *CountryView) MyCountry() string   { return v.country }
func (v *CountryView) Countries() []string { return v.e.gs.Countries }

func (v *CountryView) Tile(c core.Coordinate) *core.Tile { return v.board.TileAt(c) }

func (v *CountryView) TilesOf(country string) []core.Coordinate { return v.board.TilesOf(country) }

func (v *CountryView) MyPieces() map[string]*core.Piece  { return v.mine }
func (v *CountryView) AllPieces() map[string]*core.Piece { return v.all }

func (v *CountryView) Move(pieceID string, to core.Coordinate) error {
	return v.e.queue(order{kind: orderMove, pieceID: pieceID, country: v.country, target: to})
}

func (v *CountryView) Attack(pieceID string) error {
	return v.e.queue(order{kind: orderAttack, pieceID: pieceID, country: v.country})
}

func (v *CountryView) AttackAt(pieceID string, target core.Coordinate) error {
	return v.e.queue(order{kind: orderAttackAt, pieceID: pieceID, country: v.country, target: target})
}

func (v *CountryView) CollectMoney(pieceID string, amount int) error {
	return v.e.queue(order{kind: orderCollect, pieceID: pieceID, country: v.country, amount: amount})
}

func (v *CountryView) Build(pieceID string, pieceType core.PieceType) error {
	return v.e.queue(order{kind: orderBuild, pieceID: pieceID, country: v.country, pieceType: pieceType})
}

func (v *CountryView) TakeOff(pieceID string) error {
	return v.e.queue(order{kind: orderTakeOff, pieceID: pieceID, country: v.country})
}

func (v *CountryView) Land(pieceID string) error {
	return v.e.queue(order{kind: orderLand, pieceID: pieceID, country: v.country})
}

func (v *CountryView) SetProtection(pieceID string, on bool) error {
	return v.e.queue(order{kind: orderProtect, pieceID: pieceID, country: v.country, on: on})
}
