package controller

import (
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
)

// intelligence holds the danger reported for each command family
type intelligence struct {
	attacks  targeting.Overrides
	defends  targeting.Overrides
	builders targeting.Overrides
}

// TileRequest is a tile still needed to complete active commands
type TileRequest struct {
	Tile       core.Coordinate
	Importance int
}

// PieceRequest is a piece of Type still needed at Tile
type PieceRequest struct {
	Type       core.PieceType
	Tile       core.Coordinate
	Importance int
}

// BuilderStatus is the current command of a builder and the money it holds.
// CommandID is empty for an idle builder.
type BuilderStatus struct {
	CommandID string
	Money     int
}

func (d *Driver) reported(family string, tiles map[core.Coordinate]core.Danger) (targeting.Overrides, error) {
	if d.view == nil {
		return nil, ErrNoSnapshot
	}
	w, h := d.view.Width(), d.view.Height()
	out := make(targeting.Overrides, len(tiles))
	for c, danger := range tiles {
		out[c.Wrap(w, h)] = danger
	}
	d.logger.Debug().
		Str("family", family).
		Int("tiles", len(out)).
		Msg("Intelligence reported")
	return out, nil
}

// SetIntelligenceForAttacks replaces the danger reported for attack planning.
// Reported tiles override the snapshot when picking attack targets and when
// sizing attacks. An empty map clears the report.
func (d *Driver) SetIntelligenceForAttacks(tiles map[core.Coordinate]core.Danger) error {
	o, err := d.reported("attacks", tiles)
	if err != nil {
		return err
	}
	d.intel.attacks = o
	return nil
}

// SetIntelligenceForDefends replaces the danger reported for sizing defenses
func (d *Driver) SetIntelligenceForDefends(tiles map[core.Coordinate]core.Danger) error {
	o, err := d.reported("defends", tiles)
	if err != nil {
		return err
	}
	d.intel.defends = o
	return nil
}

// SetIntelligenceForBuilders replaces the danger reported to collectors.
// Tiles reported with enemy pieces are not used as resource tiles.
func (d *Driver) SetIntelligenceForBuilders(tiles map[core.Coordinate]core.Danger) error {
	o, err := d.reported("builders", tiles)
	if err != nil {
		return err
	}
	d.intel.builders = o
	return nil
}

// enemyStrength counts enemy pieces within radius of dest. A reported tile
// counts one piece per reported kind instead of what the snapshot shows.
func (d *Driver) enemyStrength(dest core.Coordinate, radius int, reported targeting.Overrides) int {
	me := d.view.MyCountry()
	w, h := d.view.Width(), d.view.Height()
	within := func(c core.Coordinate) bool { return core.Distance(c, dest, w, h, true) <= radius }

	n := 0
	for _, p := range d.view.AllPieces() {
		if p.Country == me || !within(p.Coord) {
			continue
		}
		if _, ok := reported[p.Coord.Wrap(w, h)]; ok {
			continue
		}
		n++
	}
	for c, danger := range reported {
		if within(c) {
			n += danger.EnemyPieceKinds()
		}
	}
	return n
}

// EstimatedRequiredAttackingPieces is one more than the enemy pieces seen
// within radius of dest.
func (d *Driver) EstimatedRequiredAttackingPieces(dest core.Coordinate, radius int) (int, error) {
	if d.view == nil {
		return 0, ErrNoSnapshot
	}
	return d.enemyStrength(dest, radius, d.intel.attacks) + 1, nil
}

// EstimatedRequiredDefendingPieces is one defender per enemy piece within
// one step of the defended area, and at least one.
func (d *Driver) EstimatedRequiredDefendingPieces(dest core.Coordinate, radius int) (int, error) {
	if d.view == nil {
		return 0, ErrNoSnapshot
	}
	return max(1, d.enemyStrength(dest, radius+1, d.intel.defends)), nil
}

// RequiredTilesForAttacks lists destinations of active attacks that are not
// ours yet. Importance is the danger level of the destination.
func (d *Driver) RequiredTilesForAttacks() []TileRequest {
	return d.requiredTiles(command.KindAttack, func(c command.Command) (int, bool) {
		danger := targeting.ClassifyWith(d.view, d.intel.attacks, *c.Destination)
		return danger.Level(), !danger.IsOurs()
	})
}

// RequiredTilesForDefends lists destinations of active defend commands that
// no piece of ours covers yet. Importance is the estimated defender count.
func (d *Driver) RequiredTilesForDefends() []TileRequest {
	return d.requiredTiles(command.KindDefend, func(c command.Command) (int, bool) {
		for _, p := range d.view.MyPieces() {
			if canDefend(p.Type) && p.Coord.DistanceTo(*c.Destination) <= c.Radius {
				return 0, false
			}
		}
		need, _ := d.EstimatedRequiredDefendingPieces(*c.Destination, c.Radius)
		return need, true
	})
}

// RequiredTilesForIntelligence lists tiles with unknown money inside the
// areas of active intelligence commands. Importance is the number of such
// commands covering the tile.
func (d *Driver) RequiredTilesForIntelligence() []TileRequest {
	if d.view == nil {
		return nil
	}
	counts := make(map[core.Coordinate]int)
	for _, c := range d.state.Registry.Active() {
		if c.Kind != command.KindIntelligence || c.Destination == nil {
			continue
		}
		for _, at := range d.unknownAround(*c.Destination, c.Radius) {
			counts[at]++
		}
	}
	return sortedRequests(counts)
}

// RequiredTilesForCollectingMoney lists the resource tiles collectors and
// producers are heading to. Importance is the money still missing there.
func (d *Driver) RequiredTilesForCollectingMoney() []TileRequest {
	if d.view == nil {
		return nil
	}
	mine := d.view.MyPieces()
	missing := make(map[core.Coordinate]int)
	for _, t := range []*command.IntentTable{d.state.Collectors, d.state.Producers} {
		for _, in := range t.Intents() {
			p, ok := mine[in.PieceID]
			if !ok || !in.HasDestination() {
				continue
			}
			target := in.Amount
			if in.Kind == command.KindBuild {
				target, _ = d.production.Cost(in.PieceType)
			}
			if short := target - p.Money; short > 0 {
				missing[*in.Destination] += short
			}
		}
	}
	return sortedRequests(missing)
}

// MissingIntelligenceForCollectingMoney maps every active collect or build
// command to the unknown-money tiles within the resource window of its
// builder. Tiles already reported to builders are left out.
func (d *Driver) MissingIntelligenceForCollectingMoney() map[string][]core.Coordinate {
	out := make(map[string][]core.Coordinate)
	if d.view == nil {
		return out
	}
	mine := d.view.MyPieces()
	for _, c := range d.state.Registry.Active() {
		if c.Kind != command.KindCollect && c.Kind != command.KindBuild {
			continue
		}
		seen := make(map[core.Coordinate]bool)
		for _, id := range d.state.Members(c.ID) {
			p, ok := mine[id]
			if !ok {
				continue
			}
			for _, at := range d.unknownAround(p.Coord, d.settings.ResourceWindow) {
				if _, known := d.intel.builders[at]; !known {
					seen[at] = true
				}
			}
		}
		if len(seen) > 0 {
			out[c.ID] = sortedCoords(seen)
		}
	}
	return out
}

// RequiredPiecesForAttacks asks for reinforcements where an active attack
// has fewer pieces than EstimatedRequiredAttackingPieces. Area attacks ask
// for artillery and the others for tanks. Importance is the shortfall.
func (d *Driver) RequiredPiecesForAttacks() []PieceRequest {
	return d.requiredPieces(command.KindAttack, func(c command.Command) (core.PieceType, int) {
		if targeting.ClassifyWith(d.view, d.intel.attacks, *c.Destination).IsOurs() {
			return "", 0
		}
		need, _ := d.EstimatedRequiredAttackingPieces(*c.Destination, c.Radius)
		kind := core.Tank
		if c.Radius > 0 {
			kind = core.Artillery
		}
		return kind, need - len(d.state.Members(c.ID))
	})
}

// RequiredPiecesForDefends asks for iron domes where an active defense has
// fewer pieces than EstimatedRequiredDefendingPieces.
func (d *Driver) RequiredPiecesForDefends() []PieceRequest {
	return d.requiredPieces(command.KindDefend, func(c command.Command) (core.PieceType, int) {
		need, _ := d.EstimatedRequiredDefendingPieces(*c.Destination, c.Radius)
		return core.IronDome, need - len(d.state.Members(c.ID))
	})
}

// RequiredPiecesForIntelligence asks for a scout wherever an active
// intelligence command still covers more unknown tiles than it has scouts.
// Wide areas ask for a satellite.
func (d *Driver) RequiredPiecesForIntelligence() []PieceRequest {
	return d.requiredPieces(command.KindIntelligence, func(c command.Command) (core.PieceType, int) {
		kind := core.Spy
		if c.Radius > 1 {
			kind = core.Satellite
		}
		unknown := len(d.unknownAround(*c.Destination, c.Radius))
		return kind, unknown - len(d.state.Members(c.ID))
	})
}

// Builders maps every builder of ours to its current command and money
func (d *Driver) Builders() map[string]BuilderStatus {
	if d.view == nil {
		return nil
	}
	assigned := d.state.Assignments(command.KindCollect, command.KindBuild)
	out := make(map[string]BuilderStatus)
	for id, p := range d.view.MyPieces() {
		if p.Type == core.Builder {
			out[id] = BuilderStatus{CommandID: assigned[id], Money: p.Money}
		}
	}
	return out
}

func (d *Driver) requiredTiles(kind command.Kind, need func(command.Command) (int, bool)) []TileRequest {
	if d.view == nil {
		return nil
	}
	best := make(map[core.Coordinate]int)
	for _, c := range d.state.Registry.Active() {
		if c.Kind != kind || c.Destination == nil {
			continue
		}
		importance, ok := need(c)
		if !ok {
			continue
		}
		if cur, seen := best[*c.Destination]; !seen || importance > cur {
			best[*c.Destination] = importance
		}
	}
	return sortedRequests(best)
}

func (d *Driver) requiredPieces(kind command.Kind, shortfall func(command.Command) (core.PieceType, int)) []PieceRequest {
	if d.view == nil {
		return nil
	}
	var out []PieceRequest
	for _, c := range d.state.Registry.Active() {
		if c.Kind != kind || c.Destination == nil {
			continue
		}
		t, n := shortfall(c)
		if n > 0 {
			out = append(out, PieceRequest{Type: t, Tile: *c.Destination, Importance: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// sortedRequests orders by importance, most important first, then by
// coordinate.
func sortedRequests(importance map[core.Coordinate]int) []TileRequest {
	out := make([]TileRequest, 0, len(importance))
	for c, n := range importance {
		out = append(out, TileRequest{Tile: c, Importance: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		if a.Tile.Y != b.Tile.Y {
			return a.Tile.Y < b.Tile.Y
		}
		return a.Tile.X < b.Tile.X
	})
	return out
}
