package game

import (
	"fmt"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

type orderKind int

const (
	orderMove orderKind = iota
	orderAttack
	orderAttackAt
	orderCollect
	orderBuild
	orderTakeOff
	orderLand
	orderProtect
)

var orderNames = [...]string{
	orderMove:     "move",
	orderAttack:   "attack",
	orderAttackAt: "attack_at",
	orderCollect:  "collect",
	orderBuild:    "build",
	orderTakeOff:  "take_off",
	orderLand:     "land",
	orderProtect:  "protect",
}

func (k orderKind) String() string {
	if int(k) < len(orderNames) {
		return orderNames[k]
	}
	return fmt.Sprintf("order(%d)", int(k))
}

// order is one queued instruction for one piece
type order struct {
	kind      orderKind
	pieceID   string
	country   string
	target    core.Coordinate
	amount    int
	pieceType core.PieceType
	on        bool
}

// queue validates o against the current state and stores it for the next
// Step. Each piece accepts a single order per turn.
func (e *Engine) queue(o order) error {
	if !e.machine.CurrentPhase().CanReceiveOrders() {
		return core.WrapTurnError(e.gs.Turn, o.kind.String(), core.ErrMatchOver)
	}
	p, ok := e.gs.Pieces[o.pieceID]
	if !ok {
		return core.WrapPieceError(o.pieceID, o.kind.String(), core.ErrUnknownPiece)
	}
	if p.Country != o.country {
		return core.WrapPieceError(o.pieceID, o.kind.String(), core.ErrNotOwned)
	}
	if _, dup := e.orders[o.pieceID]; dup {
		return core.WrapPieceError(o.pieceID, o.kind.String(), core.ErrAlreadyOrdered)
	}
	if err := e.validate(p, &o); err != nil {
		return core.WrapPieceError(o.pieceID, o.kind.String(), err)
	}
	e.orders[o.pieceID] = o
	return nil
}

func (e *Engine) validate(p *core.Piece, o *order) error {
	w, h := e.gs.Board.W, e.gs.Board.H
	role := p.Type.Role()

	switch o.kind {
	case orderMove:
		if !p.Type.CanMove() {
			return core.ErrRoleMismatch
		}
		o.target = o.target.Wrap(w, h)
		if !p.Coord.IsWrappedAdjacentTo(o.target, w, h) {
			return core.ErrNotAdjacent
		}
		if role == core.RoleFlyer && !p.InAir {
			return fmt.Errorf("grounded: %w", core.ErrInvalidOrder)
		}
	case orderAttack:
		if !p.Type.CanAttackTile() {
			return core.ErrRoleMismatch
		}
	case orderAttackAt:
		if !p.Type.CanAttackDistant() {
			return core.ErrRoleMismatch
		}
		o.target = o.target.Wrap(w, h)
		if p.Coord.WrappedDistanceTo(o.target, w, h) > e.config.AttackRange {
			return core.ErrOutOfRange
		}
	case orderCollect:
		if p.Type != core.Builder {
			return core.ErrRoleMismatch
		}
		if o.amount <= 0 {
			return fmt.Errorf("amount %d: %w", o.amount, core.ErrOutOfRange)
		}
		if !e.gs.Board.TileAt(p.Coord).IsOwnedBy(p.Country) {
			return core.ErrNotOwned
		}
	case orderBuild:
		if p.Type != core.Builder {
			return core.ErrRoleMismatch
		}
		cost, ok := e.config.Costs[o.pieceType]
		if !ok || !o.pieceType.Valid() {
			return fmt.Errorf("piece type %q: %w", o.pieceType, core.ErrUnknownPiece)
		}
		if p.Money < cost {
			return fmt.Errorf("need %d, have %d: %w", cost, p.Money, core.ErrInsufficientFunds)
		}
	case orderTakeOff, orderLand:
		if role != core.RoleFlyer {
			return core.ErrRoleMismatch
		}
		if p.InAir == (o.kind == orderTakeOff) {
			return fmt.Errorf("already %s: %w", flightState(p.InAir), core.ErrInvalidOrder)
		}
	case orderProtect:
		if p.Type != core.IronDome {
			return core.ErrRoleMismatch
		}
	}
	return nil
}

func flightState(inAir bool) string {
	if inAir {
		return "airborne"
	}
	return "landed"
}
