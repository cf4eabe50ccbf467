package controller

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
)

// rolePolicy is the role-specific part of a mover's step. Every hook may be
// nil. Hooks that send an order report whether the world accepted it.
type rolePolicy struct {
	// prepare runs first; true means it used the piece's order for the turn.
	prepare func() bool
	// reach is how close the piece has to get before it can act.
	reach int
	// terminal performs the action at the destination.
	terminal func() bool
	// legitimate reports whether the destination still justifies travel.
	legitimate func() bool
	// opportunistic acts in place when the destination stopped being
	// legitimate.
	opportunistic func() bool
}

// policyFor dispatches on the closed set of roles
func (d *Driver) policyFor(tc *turnCtx, in command.Intent, p *core.Piece) rolePolicy {
	pol := rolePolicy{reach: d.reach(p.Type, in.Kind, in.Radius)}
	dest := *in.Destination

	switch p.Type.Role() {
	case core.RoleAttacker:
		if in.Kind == command.KindAttack && p.Type.CanAttackTile() {
			pol.terminal = d.attackTile(tc, p)
			pol.legitimate = d.notOurs(tc, dest)
			pol.opportunistic = d.attackHere(tc, p)
		}
	case core.RoleAreaAttacker:
		if in.Kind == command.KindAttack {
			pol.terminal = d.attackAt(tc, p, dest)
			pol.legitimate = d.notOurs(tc, dest)
			pol.opportunistic = d.attackInRange(tc, p, pol.reach)
		}
	case core.RoleFlyer:
		pol.prepare = d.flight(tc, p)
		if in.Kind == command.KindAttack {
			pol.legitimate = d.notOurs(tc, dest)
			if p.Type.CanAttackDistant() {
				pol.terminal = d.attackAt(tc, p, dest)
				pol.opportunistic = d.attackInRange(tc, p, pol.reach)
			} else {
				pol.terminal = d.attackTile(tc, p)
				pol.opportunistic = d.attackHere(tc, p)
			}
		}
	case core.RoleDefender:
		if in.Kind == command.KindDefend && p.Type == core.IronDome {
			pol.terminal = d.protect(tc, p)
		}
	case core.RoleScout:
		// Arriving is the whole job: the snapshot reveals the area.
	}
	return pol
}

// reach returns how far from the destination a piece may act. Tile attackers
// must stand on the target; distant attackers act within the command radius
// up to their weapon range, defenders and scouts within the command radius.
func (d *Driver) reach(t core.PieceType, kind command.Kind, radius int) int {
	switch kind {
	case command.KindEscort, command.KindCollect, command.KindBuild:
		return 0
	case command.KindAttack:
		if !t.CanAttackDistant() {
			return 0
		}
		// never beyond weapon range
		radius = min(radius, d.settings.ArtilleryRadius)
	}
	if radius < 0 {
		return 0
	}
	return radius
}

// stepMover runs the shared lifecycle of every non-builder command
func (d *Driver) stepMover(tc *turnCtx, table *command.IntentTable, in command.Intent, p *core.Piece) {
	if in.Kind == command.KindEscort {
		var ok bool
		if in, ok = d.followEscorted(tc, table, in); !ok {
			return
		}
	}
	if !in.HasDestination() {
		d.fail(tc, table, in, "no target")
		return
	}

	pol := d.policyFor(tc, in, p)
	if pol.prepare != nil && pol.prepare() {
		d.advance(in.CommandID)
		return
	}

	dest := *in.Destination
	if d.distance(tc, p.Coord, dest) <= pol.reach {
		switch {
		case in.Kind == command.KindEscort:
			// Escorts hold next to their charge until it is gone
			d.advance(in.CommandID)
		case pol.terminal == nil || pol.terminal():
			d.succeed(table, in, "arrived")
		default:
			d.advance(in.CommandID)
		}
		return
	}

	if pol.legitimate != nil && !pol.legitimate() && pol.opportunistic != nil && pol.opportunistic() {
		d.advance(in.CommandID)
		return
	}

	if !p.Type.CanMove() {
		d.fail(tc, table, in, "piece cannot move")
		return
	}
	d.stepToward(tc, p, dest)
	d.advance(in.CommandID)
}

// followEscorted moves an escort's destination onto the escorted piece. The
// command succeeds once the escorted piece is gone.
func (d *Driver) followEscorted(tc *turnCtx, table *command.IntentTable, in command.Intent) (command.Intent, bool) {
	target, ok := tc.w.AllPieces()[in.Escorted]
	if !ok {
		d.succeed(table, in, "escorted piece gone")
		return in, false
	}
	dest := target.Coord
	in.Destination = &dest
	table.Update(in)
	return in, true
}

// stepToward sends a single axis-aligned move, x before y
func (d *Driver) stepToward(tc *turnCtx, p *core.Piece, dest core.Coordinate) bool {
	dir := p.Coord.StepToward(dest)
	if dir == core.NoDirection {
		return false
	}
	next := p.Coord.Move(dir)
	return d.order(tc, p.ID, "move", func() error { return tc.w.Move(p.ID, next) })
}

// distance is the travel distance used by the step rule. Movement never
// crosses the board edge, so it is plain Manhattan distance.
func (d *Driver) distance(tc *turnCtx, a, b core.Coordinate) int {
	return core.Distance(a, b, tc.w.Width(), tc.w.Height(), false)
}

func (d *Driver) notOurs(tc *turnCtx, c core.Coordinate) func() bool {
	return func() bool { return !tc.w.Tile(c).IsOwnedBy(tc.w.MyCountry()) }
}

func (d *Driver) attackTile(tc *turnCtx, p *core.Piece) func() bool {
	return func() bool {
		return d.order(tc, p.ID, "attack", func() error { return tc.w.Attack(p.ID) })
	}
}

func (d *Driver) attackAt(tc *turnCtx, p *core.Piece, target core.Coordinate) func() bool {
	return func() bool {
		return d.order(tc, p.ID, "attack_at", func() error { return tc.w.AttackAt(p.ID, target) })
	}
}

// attackHere takes the tile under the piece when it is not ours
func (d *Driver) attackHere(tc *turnCtx, p *core.Piece) func() bool {
	return func() bool {
		if tc.w.Tile(p.Coord).IsOwnedBy(tc.w.MyCountry()) {
			return false
		}
		return d.attackTile(tc, p)()
	}
}

// attackInRange fires at the closest foreign tile within reach
func (d *Driver) attackInRange(tc *turnCtx, p *core.Piece, reach int) func() bool {
	return func() bool {
		target, ok := targeting.Search{
			Width:     tc.w.Width(),
			Height:    tc.w.Height(),
			Center:    p.Coord,
			Reference: p.Coord,
			Ceiling:   reach,
			Accept:    targeting.Is(tc.w, targeting.NotOurs),
			Selection: targeting.SelectClosest,
		}.Run()
		if !ok {
			return false
		}
		return d.attackAt(tc, p, target)()
	}
}

func (d *Driver) protect(tc *turnCtx, p *core.Piece) func() bool {
	return func() bool {
		if p.Defending {
			return true
		}
		return d.order(tc, p.ID, "protect", func() error { return tc.w.SetProtection(p.ID, true) })
	}
}

// flight keeps flyers airborne and lands airplanes that ran out of time in
// the air.
func (d *Driver) flight(tc *turnCtx, p *core.Piece) func() bool {
	return func() bool {
		if !p.InAir {
			return d.order(tc, p.ID, "take_off", func() error { return tc.w.TakeOff(p.ID) })
		}
		if p.Type == core.Airplane && p.TimeInAir >= d.settings.MaxTurnsInAir {
			return d.order(tc, p.ID, "land", func() error { return tc.w.Land(p.ID) })
		}
		return false
	}
}
