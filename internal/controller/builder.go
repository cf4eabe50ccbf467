package controller

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// stepBuilder runs collect and build commands. Both draw money from the
// resource tiles until the builder holds enough.
func (d *Driver) stepBuilder(tc *turnCtx, table *command.IntentTable, in command.Intent, p *core.Piece) {
	switch in.Kind {
	case command.KindCollect:
		if p.Money >= in.Amount {
			d.succeed(table, in, "collected")
			return
		}
		d.gatherFunds(tc, table, in, p, in.Amount-p.Money)

	case command.KindBuild:
		cost, ok := d.production.Cost(in.PieceType)
		if !ok {
			d.fail(tc, table, in, "unknown piece type")
			return
		}
		if p.Money < cost {
			d.gatherFunds(tc, table, in, p, cost-p.Money)
			return
		}
		if d.order(tc, p.ID, "build", func() error { return tc.w.Build(p.ID, in.PieceType) }) {
			d.state.Built++
			delete(d.state.Turn.Reserved, in.CommandID)
			tc.log.Info().
				Str("piece_id", p.ID).
				Str("piece_type", string(in.PieceType)).
				Int("cost", cost).
				Int("built", d.state.Built).
				Msg("Build ordered")
			d.succeed(table, in, "built")
			return
		}
		d.advance(in.CommandID)
	}
}

// gatherFunds moves the builder toward its resource tile, or collects when it
// stands on it. The tile is claimed for the turn so other builders look
// elsewhere.
func (d *Driver) gatherFunds(tc *turnCtx, table *command.IntentTable, in command.Intent, p *core.Piece, missing int) {
	claims := d.state.Turn.Claims
	dest, ok := d.resourceTarget(tc, in, p)
	if !ok {
		d.fail(tc, table, in, "no owned tiles")
		return
	}
	if in.Destination == nil || *in.Destination != dest {
		in.Destination = &dest
		table.Update(in)
	}

	amount := claims.Residual(tc.w.Tile(dest))
	if amount > missing {
		amount = missing
	}
	if chunk := d.settings.CollectChunk; chunk > 0 && amount > chunk {
		amount = chunk
	}
	claims.Claim(dest, p.ID, amount)

	if p.Coord == dest {
		if amount > 0 {
			d.order(tc, p.ID, "collect", func() error { return tc.w.CollectMoney(p.ID, amount) })
		}
		d.advance(in.CommandID)
		return
	}
	d.stepToward(tc, p, dest)
	d.advance(in.CommandID)
}

// resourceTarget keeps the current destination while it still pays off and
// otherwise scores the surroundings again.
func (d *Driver) resourceTarget(tc *turnCtx, in command.Intent, p *core.Piece) (core.Coordinate, bool) {
	claims := d.state.Turn.Claims
	if in.HasDestination() {
		dest := *in.Destination
		tile := tc.w.Tile(dest)
		if tile.IsOwnedBy(tc.w.MyCountry()) && claims.Available(dest, p.ID) && claims.Residual(tile) > 0 {
			return dest, true
		}
	}

	dest, source, err := d.resourceScorer().Best(tc.w, p.Coord, p.ID, claims)
	if err != nil {
		tc.log.Warn().Err(err).Str("piece_id", p.ID).Msg("No resource tile or rally point")
		return core.Coordinate{}, false
	}
	tc.log.Debug().
		Str("piece_id", p.ID).
		Str("destination", dest.String()).
		Str("source", source.String()).
		Msg("Resource tile selected")
	return dest, true
}
