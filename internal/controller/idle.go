package controller

import (
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// idlePhase hands every piece without a command to the issuing policy. New
// commands take their first step right away.
func (d *Driver) idlePhase(tc *turnCtx) error {
	if err := d.checkContext(tc.ctx, tc.w.Turn(), "idle"); err != nil {
		return err
	}
	for _, id := range sortedIDs(tc.mine) {
		if d.state.Turn.Ordered[id] {
			continue
		}
		if _, _, busy := d.state.IntentOf(id); busy {
			continue
		}
		if d.assignIdle(tc, tc.mine[id]) {
			if in, table, ok := d.state.IntentOf(id); ok {
				d.resolve(tc, table, in)
			}
		}
	}
	return nil
}

// assignIdle picks a command for an idle piece and reports whether one was
// issued.
func (d *Driver) assignIdle(tc *turnCtx, p *core.Piece) bool {
	switch p.Type.Role() {
	case core.RoleAttacker:
		if p.Type == core.Antitank {
			return d.idleEscort(tc, p)
		}
		return d.idleAttack(tc, p)
	case core.RoleAreaAttacker, core.RoleFlyer:
		return d.idleAttack(tc, p)
	case core.RoleDefender:
		return d.idleDefend(tc, p)
	case core.RoleScout:
		return d.idleScout(tc, p)
	case core.RoleBuilder:
		return d.idleProduce(tc, p)
	default:
		return false
	}
}

func (d *Driver) idleAttack(tc *turnCtx, p *core.Piece) bool {
	dest, ok := d.findAttackTarget(tc.w, p)
	if !ok {
		tc.log.Debug().Err(core.ErrNoTarget).Str("piece_id", p.ID).Msg("No attack target this turn")
		return false
	}
	radius := 0
	if p.Type.CanAttackDistant() {
		radius = d.settings.ArtilleryRadius
	}
	d.issue(command.Spec{
		Kind:        command.KindAttack,
		Pieces:      []string{p.ID},
		Destination: &dest,
		Radius:      radius,
		Estimated:   d.estimateTravel([]*core.Piece{p}, dest, radius, command.KindAttack),
	})
	return true
}

// findAttackTarget looks for the closest enemy tile, then the closest
// unclaimed one. When both are exhausted the farthest foreign tile on the
// fallback ceiling ring is used.
func (d *Driver) findAttackTarget(s world.Snapshot, p *core.Piece) (core.Coordinate, bool) {
	base := targeting.Search{
		Width:     s.Width(),
		Height:    s.Height(),
		Center:    p.Coord,
		Reference: p.Coord,
		Selection: targeting.SelectClosest,
	}

	enemy := base
	enemy.Ceiling = d.settings.AttackCeiling
	enemy.Accept = targeting.IsWith(s, d.intel.attacks, targeting.Enemy)
	if c, ok := enemy.Run(); ok {
		return c, true
	}

	open := base
	open.Ceiling = d.settings.FallbackCeiling
	open.Accept = targeting.IsWith(s, d.intel.attacks, targeting.Unclaimed)
	open.Fallback = targeting.IsWith(s, d.intel.attacks, targeting.NotOurs)
	return open.Run()
}

// idleEscort assigns an antitank to the closest builder nobody escorts yet
func (d *Driver) idleEscort(tc *turnCtx, p *core.Piece) bool {
	escorted := make(map[string]bool)
	for _, in := range d.state.Movers.Intents() {
		if in.Kind == command.KindEscort {
			escorted[in.Escorted] = true
		}
	}

	var best *core.Piece
	bestDist := 0
	for _, id := range sortedIDs(tc.mine) {
		b := tc.mine[id]
		if b.Type != core.Builder || escorted[b.ID] {
			continue
		}
		if dist := d.distance(tc, p.Coord, b.Coord); best == nil || dist < bestDist {
			best, bestDist = b, dist
		}
	}
	if best == nil {
		return false
	}
	dest := best.Coord
	d.issue(command.Spec{
		Kind:        command.KindEscort,
		Pieces:      []string{p.ID},
		Destination: &dest,
		Escorted:    best.ID,
		Estimated:   bestDist + 1,
	})
	return true
}

// idleDefend sends iron domes to the territory mass center. Bunkers never move.
func (d *Driver) idleDefend(tc *turnCtx, p *core.Piece) bool {
	if !p.Type.CanMove() {
		return false
	}
	center, err := targeting.TerritoryCenter(tc.w)
	if err != nil {
		tc.log.Warn().Err(err).Str("piece_id", p.ID).Msg("Mass center unavailable")
		return false
	}
	const radius = 1
	if p.Defending && d.distance(tc, p.Coord, center) <= radius {
		return false
	}
	d.issue(command.Spec{
		Kind:        command.KindDefend,
		Pieces:      []string{p.ID},
		Destination: &center,
		Radius:      radius,
		Estimated:   d.estimateTravel([]*core.Piece{p}, center, radius, command.KindDefend),
	})
	return true
}

// idleScout sends spies and satellites to a random tile with unknown money
func (d *Driver) idleScout(tc *turnCtx, p *core.Piece) bool {
	if !p.Type.CanMove() {
		return false
	}
	dest, ok := targeting.Search{
		Width:     tc.w.Width(),
		Height:    tc.w.Height(),
		Center:    p.Coord,
		Reference: p.Coord,
		Ceiling:   d.settings.AttackCeiling,
		Accept:    targeting.Is(tc.w, targeting.UnknownMoney),
		Selection: targeting.SelectRandom,
		Rand:      d.rng,
	}.Run()
	if !ok {
		return false
	}
	d.issue(command.Spec{
		Kind:        command.KindIntelligence,
		Pieces:      []string{p.ID},
		Destination: &dest,
		Estimated:   d.estimateTravel([]*core.Piece{p}, dest, 0, command.KindIntelligence),
	})
	return true
}

// idleProduce builds the next scheduled piece type when the builder can pay
// for it and collects the missing money otherwise.
func (d *Driver) idleProduce(tc *turnCtx, p *core.Piece) bool {
	builders, funds := 0, 0
	for _, piece := range tc.mine {
		if piece.Type == core.Builder {
			builders++
			funds += piece.Money
		}
	}
	env := ScheduleEnv{
		Counter:  d.state.Counter(),
		Funds:    funds,
		Builders: builders,
		Pieces:   len(tc.mine),
		Turn:     tc.w.Turn(),
	}
	next, err := d.production.Next(env)
	if err != nil {
		tc.log.Warn().Err(err).Msg("Production schedule failed, using default type")
	}
	cost, _ := d.production.Cost(next)

	if p.Money >= cost {
		id := d.issue(command.Spec{
			Kind:      command.KindBuild,
			Pieces:    []string{p.ID},
			PieceType: next,
			Estimated: 1,
		})
		d.state.Turn.Reserved[id] = true
		return true
	}

	estimate, _ := d.estimateCollection(tc.w, p, cost-p.Money)
	d.issue(command.Spec{
		Kind:      command.KindCollect,
		Pieces:    []string{p.ID},
		Amount:    cost,
		PieceType: next,
		Estimated: estimate,
	})
	return true
}

func sortedIDs(pieces map[string]*core.Piece) []string {
	ids := make([]string, 0, len(pieces))
	for id := range pieces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
