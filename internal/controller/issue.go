package controller

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// issue supersedes whatever the pieces were doing, creates the command and
// records one intent per piece. Callers validate the pieces against the
// current view first.
func (d *Driver) issue(spec command.Spec) string {
	for _, id := range spec.Pieces {
		d.supersede(id)
	}
	id := d.state.Registry.Create(spec)

	mine := d.view.MyPieces()
	for _, pid := range spec.Pieces {
		p := mine[pid]
		in := command.Intent{
			PieceID:     pid,
			CommandID:   id,
			Kind:        spec.Kind,
			Destination: copyCoord(spec.Destination),
			Radius:      spec.Radius,
			Amount:      spec.Amount,
			PieceType:   spec.PieceType,
			Escorted:    spec.Escorted,
		}
		d.tableFor(p.Type, spec.Kind).Put(in)
	}
	return id
}

// supersede fails the active command of a piece before it gets a new one
func (d *Driver) supersede(pieceID string) {
	for _, t := range d.state.Tables() {
		in, ok := t.Get(pieceID)
		if !ok {
			continue
		}
		t.Drop(pieceID)
		if d.state.Registry.IsActive(in.CommandID) {
			_ = d.state.Registry.Fail(in.CommandID, "superseded")
			d.logger.Debug().
				Str("piece_id", pieceID).
				Str("command_id", in.CommandID).
				Msg("Command superseded")
		}
	}
}

// tableFor returns the intent table a piece of type t uses for kind
func (d *Driver) tableFor(t core.PieceType, kind command.Kind) *command.IntentTable {
	switch {
	case kind == command.KindCollect:
		return d.state.Collectors
	case kind == command.KindBuild:
		return d.state.Producers
	case t.Role() == core.RoleAreaAttacker:
		return d.state.AreaAttackers
	default:
		return d.state.Movers
	}
}

// estimateTravel is the slowest member's distance to acting range plus one
// turn for the action itself.
func (d *Driver) estimateTravel(pieces []*core.Piece, dest core.Coordinate, radius int, kind command.Kind) int {
	longest := 0
	for _, p := range pieces {
		dist := p.Coord.DistanceTo(dest) - d.reach(p.Type, kind, radius)
		if dist > longest {
			longest = dist
		}
	}
	return longest + 1
}

// estimateCollection is travel to the best resource tile plus the turns
// needed to draw missing money from it.
func (d *Driver) estimateCollection(s world.Snapshot, p *core.Piece, missing int) (int, error) {
	if missing <= 0 {
		return 0, nil
	}
	dest, _, err := d.resourceScorer().Best(s, p.Coord, p.ID, targeting.NewClaims())
	if err != nil {
		return 0, err
	}
	perTurn, _ := s.Tile(dest).KnownMoney()
	if chunk := d.settings.CollectChunk; chunk > 0 && perTurn > chunk {
		perTurn = chunk
	}
	if perTurn < 1 {
		perTurn = 1
	}
	travel := p.Coord.DistanceTo(dest)
	return travel + (missing+perTurn-1)/perTurn, nil
}

// resourceScorer is the configured scorer avoiding tiles reported dangerous
// to builders.
func (d *Driver) resourceScorer() targeting.ResourceScorer {
	rs := d.scorer
	rs.Danger = d.intel.builders
	return rs
}

func copyCoord(c *core.Coordinate) *core.Coordinate {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
