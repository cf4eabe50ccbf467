package controller

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
)

// The strategic surface lets an outer layer issue and inspect commands
// between turns. Invariant violations are returned as an empty command id
// and an error; nothing panics.

func canAttack(t core.PieceType) bool { return t.CanAttackTile() || t.CanAttackDistant() }

func canDefend(t core.PieceType) bool {
	r := t.Role()
	return r == core.RoleDefender || r == core.RoleAttacker
}

func canScout(t core.PieceType) bool { return t.Role() == core.RoleScout }

func canEscort(t core.PieceType) bool {
	switch t.Role() {
	case core.RoleAttacker, core.RoleFlyer, core.RoleDefender:
		return t.CanMove()
	default:
		return false
	}
}

func isBuilder(t core.PieceType) bool { return t == core.Builder }

// lookupPieces resolves ids against the latest view and checks their role
func (d *Driver) lookupPieces(op string, ids []string, allowed func(core.PieceType) bool) ([]*core.Piece, error) {
	if d.view == nil {
		return nil, ErrNoSnapshot
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: no pieces: %w", op, core.ErrUnknownPiece)
	}
	mine := d.view.MyPieces()
	out := make([]*core.Piece, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := mine[id]
		if !ok {
			return nil, core.WrapPieceError(id, op, core.ErrUnknownPiece)
		}
		if !allowed(p.Type) {
			d.logger.Warn().
				Str("piece_id", id).
				Str("piece_type", string(p.Type)).
				Str("operation", op).
				Msg("Piece role does not match command")
			return nil, core.WrapPieceError(id, op, core.ErrRoleMismatch)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func pieceIDs(pieces []*core.Piece) []string {
	ids := make([]string, len(pieces))
	for i, p := range pieces {
		ids[i] = p.ID
	}
	return ids
}

func (d *Driver) issueGroup(op string, kind command.Kind, ids []string, dest core.Coordinate, radius int, allowed func(core.PieceType) bool) (string, error) {
	pieces, err := d.lookupPieces(op, ids, allowed)
	if err != nil {
		return "", err
	}
	dest = dest.Wrap(d.view.Width(), d.view.Height())
	return d.issue(command.Spec{
		Kind:        kind,
		Pieces:      pieceIDs(pieces),
		Destination: &dest,
		Radius:      radius,
		Estimated:   d.estimateTravel(pieces, dest, radius, kind),
	}), nil
}

func (d *Driver) estimateGroup(op string, kind command.Kind, ids []string, dest core.Coordinate, radius int, allowed func(core.PieceType) bool) (int, error) {
	pieces, err := d.lookupPieces(op, ids, allowed)
	if err != nil {
		return 0, err
	}
	return d.estimateTravel(pieces, dest.Wrap(d.view.Width(), d.view.Height()), radius, kind), nil
}

func (d *Driver) statusOf(kind command.Kind, id string) (command.Status, error) {
	cmd, ok := d.state.Registry.Get(id)
	if !ok || cmd.Kind != kind {
		return command.Status{}, fmt.Errorf("%s command %q: %w", kind, id, core.ErrUnknownCommand)
	}
	return cmd.Status(), nil
}

// Attack sends pieces to attack dest. Distant attackers fire once within
// radius; the others attack the destination tile itself.
func (d *Driver) Attack(pieces []string, dest core.Coordinate, radius int) (string, error) {
	return d.issueGroup("attack", command.KindAttack, pieces, dest, radius, canAttack)
}

// EstimateAttackTime estimates the turns Attack would take
func (d *Driver) EstimateAttackTime(pieces []string, dest core.Coordinate, radius int) (int, error) {
	return d.estimateGroup("attack", command.KindAttack, pieces, dest, radius, canAttack)
}

// AttackStatus reports an attack command
func (d *Driver) AttackStatus(id string) (command.Status, error) {
	return d.statusOf(command.KindAttack, id)
}

// AttackingPieces maps every attacking piece to its command id
func (d *Driver) AttackingPieces() map[string]string {
	return d.state.Assignments(command.KindAttack)
}

// Defend sends pieces to hold the area around dest
func (d *Driver) Defend(pieces []string, dest core.Coordinate, radius int) (string, error) {
	return d.issueGroup("defend", command.KindDefend, pieces, dest, radius, canDefend)
}

// EstimateDefendTime estimates the turns Defend would take
func (d *Driver) EstimateDefendTime(pieces []string, dest core.Coordinate, radius int) (int, error) {
	return d.estimateGroup("defend", command.KindDefend, pieces, dest, radius, canDefend)
}

// DefenseStatus reports a defend command
func (d *Driver) DefenseStatus(id string) (command.Status, error) {
	return d.statusOf(command.KindDefend, id)
}

// DefendingPieces maps every defending piece to its command id
func (d *Driver) DefendingPieces() map[string]string {
	return d.state.Assignments(command.KindDefend)
}

// GatherIntelligence sends scouts to dest
func (d *Driver) GatherIntelligence(pieces []string, dest core.Coordinate, radius int) (string, error) {
	return d.issueGroup("gather_intelligence", command.KindIntelligence, pieces, dest, radius, canScout)
}

// EstimateGatheringTime estimates the turns GatherIntelligence would take
func (d *Driver) EstimateGatheringTime(pieces []string, dest core.Coordinate, radius int) (int, error) {
	return d.estimateGroup("gather_intelligence", command.KindIntelligence, pieces, dest, radius, canScout)
}

// GatheringStatus reports an intelligence command
func (d *Driver) GatheringStatus(id string) (command.Status, error) {
	return d.statusOf(command.KindIntelligence, id)
}

// IntelligencePieces maps every scouting piece to its command id
func (d *Driver) IntelligencePieces() map[string]string {
	return d.state.Assignments(command.KindIntelligence)
}

// EstimateTileDanger classifies a tile in the latest view
func (d *Driver) EstimateTileDanger(c core.Coordinate) (core.Danger, error) {
	if d.view == nil {
		return 0, ErrNoSnapshot
	}
	return targeting.Classify(d.view, c), nil
}

// MissingIntelligence lists tiles with unknown money inside the area of any
// active command.
func (d *Driver) MissingIntelligence() []core.Coordinate {
	if d.view == nil {
		return nil
	}
	seen := make(map[core.Coordinate]bool)
	for _, c := range d.state.Registry.Active() {
		if c.Destination == nil {
			continue
		}
		for _, at := range d.unknownAround(*c.Destination, c.Radius) {
			seen[at] = true
		}
	}
	return sortedCoords(seen)
}

// unknownAround lists tiles within radius of center whose money is unknown
func (d *Driver) unknownAround(center core.Coordinate, radius int) []core.Coordinate {
	w, h := d.view.Width(), d.view.Height()
	var out []core.Coordinate
	for r := 0; r <= radius; r++ {
		for _, at := range targeting.Ring(center, r, w, h) {
			if _, known := d.view.Tile(at).KnownMoney(); !known {
				out = append(out, at)
			}
		}
	}
	return out
}

// Escort makes pieces follow the escorted piece until it is gone
func (d *Driver) Escort(escorted string, pieces []string) (string, error) {
	group, err := d.lookupPieces("escort", pieces, canEscort)
	if err != nil {
		return "", err
	}
	target, ok := d.view.AllPieces()[escorted]
	if !ok {
		return "", core.WrapPieceError(escorted, "escort", core.ErrUnknownPiece)
	}
	for _, p := range group {
		if p.ID == escorted {
			return "", core.WrapPieceError(escorted, "escort", core.ErrRoleMismatch)
		}
	}
	dest := target.Coord
	return d.issue(command.Spec{
		Kind:        command.KindEscort,
		Pieces:      pieceIDs(group),
		Destination: &dest,
		Escorted:    escorted,
		Estimated:   d.estimateTravel(group, dest, 0, command.KindEscort),
	}), nil
}

// EscortingPieces maps every escorting piece to its command id
func (d *Driver) EscortingPieces() map[string]string {
	return d.state.Assignments(command.KindEscort)
}

// CollectMoney has a builder collect amount more money than it holds now
func (d *Driver) CollectMoney(builder string, amount int) (string, error) {
	pieces, err := d.lookupPieces("collect_money", []string{builder}, isBuilder)
	if err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", fmt.Errorf("collect_money: amount %d: %w", amount, core.ErrOutOfRange)
	}
	p := pieces[0]
	estimate, _ := d.estimateCollection(d.view, p, amount)
	return d.issue(command.Spec{
		Kind:      command.KindCollect,
		Pieces:    []string{builder},
		Amount:    p.Money + amount,
		Estimated: estimate,
	}), nil
}

// EstimateCollectionTime estimates the turns CollectMoney would take
func (d *Driver) EstimateCollectionTime(builder string, amount int) (int, error) {
	pieces, err := d.lookupPieces("collect_money", []string{builder}, isBuilder)
	if err != nil {
		return 0, err
	}
	return d.estimateCollection(d.view, pieces[0], amount)
}

// BuildPiece has a builder produce a piece of the given type, collecting the
// missing money first.
func (d *Driver) BuildPiece(builder string, pieceType core.PieceType) (string, error) {
	estimate, err := d.EstimateBuildingTime(builder, pieceType)
	if err != nil {
		return "", err
	}
	return d.issue(command.Spec{
		Kind:      command.KindBuild,
		Pieces:    []string{builder},
		PieceType: pieceType,
		Estimated: estimate,
	}), nil
}

// EstimateBuildingTime is the collection estimate for the missing money plus
// the build turn.
func (d *Driver) EstimateBuildingTime(builder string, pieceType core.PieceType) (int, error) {
	pieces, err := d.lookupPieces("build_piece", []string{builder}, isBuilder)
	if err != nil {
		return 0, err
	}
	cost, ok := d.production.Cost(pieceType)
	if !ok {
		return 0, fmt.Errorf("build_piece: piece type %q: %w", pieceType, core.ErrUnknownPiece)
	}
	p := pieces[0]
	collect, err := d.estimateCollection(d.view, p, cost-p.Money)
	if err != nil {
		return 0, err
	}
	return collect + 1, nil
}

// BuildStatus reports a build command
func (d *Driver) BuildStatus(id string) (command.Status, error) {
	return d.statusOf(command.KindBuild, id)
}

// CollectStatus reports a collect command
func (d *Driver) CollectStatus(id string) (command.Status, error) {
	return d.statusOf(command.KindCollect, id)
}

// TotalBuildersMoney sums the money held by our builders
func (d *Driver) TotalBuildersMoney() int {
	if d.view == nil {
		return 0
	}
	total := 0
	for _, p := range d.view.MyPieces() {
		if p.Type == core.Builder {
			total += p.Money
		}
	}
	return total
}

// TotalCountryTilesMoney sums the known money on our tiles
func (d *Driver) TotalCountryTilesMoney() int {
	if d.view == nil {
		return 0
	}
	total := 0
	for _, c := range d.view.TilesOf(d.view.MyCountry()) {
		if m, known := d.view.Tile(c).KnownMoney(); known {
			total += m
		}
	}
	return total
}

// RequiredPiecesForBuilds counts active build commands per piece type
func (d *Driver) RequiredPiecesForBuilds() map[core.PieceType]int {
	out := make(map[core.PieceType]int)
	for _, c := range d.state.Registry.Active() {
		if c.Kind == command.KindBuild {
			out[c.PieceType]++
		}
	}
	return out
}

func sortedCoords(set map[core.Coordinate]bool) []core.Coordinate {
	out := make([]core.Coordinate, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
