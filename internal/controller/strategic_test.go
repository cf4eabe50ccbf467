package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/testutil"
)

func TestStrategic_NoSnapshot(t *testing.T) {
	d := newTestDriver(t, manualSettings())

	id, err := d.Attack([]string{"t1"}, core.Coordinate{}, 0)
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = d.EstimateTileDanger(core.Coordinate{})
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Nil(t, d.Builders())
	assert.Zero(t, d.TotalBuildersMoney())
	assert.ErrorIs(t, d.SetIntelligenceForAttacks(map[core.Coordinate]core.Danger{{X: 1}: core.DangerEnemy}), ErrNoSnapshot)
	_, err = d.EstimatedRequiredDefendingPieces(core.Coordinate{}, 1)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Nil(t, d.RequiredPiecesForAttacks())
	assert.Empty(t, d.MissingIntelligenceForCollectingMoney())
}

func TestStrategic_RejectsBadPieces(t *testing.T) {
	w := ownedWorld(8, 8, 1)
	w.AddPiece("b1", core.Builder, "blue", core.Coordinate{X: 1, Y: 1})
	w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 2, Y: 2})
	w.AddPiece("x1", core.Antitank, "blue", core.Coordinate{X: 2, Y: 3})
	w.AddPiece("r1", core.Tank, "red", core.Coordinate{X: 5, Y: 5})

	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	tests := []struct {
		name  string
		issue func() (string, error)
		want  error
	}{
		{"builder cannot attack", func() (string, error) { return d.Attack([]string{"b1"}, core.Coordinate{}, 0) }, core.ErrRoleMismatch},
		{"antitank cannot attack", func() (string, error) { return d.Attack([]string{"x1"}, core.Coordinate{}, 0) }, core.ErrRoleMismatch},
		{"enemy piece", func() (string, error) { return d.Attack([]string{"r1"}, core.Coordinate{}, 0) }, core.ErrUnknownPiece},
		{"no pieces", func() (string, error) { return d.Defend(nil, core.Coordinate{}, 0) }, core.ErrUnknownPiece},
		{"tank cannot scout", func() (string, error) { return d.GatherIntelligence([]string{"t1"}, core.Coordinate{}, 0) }, core.ErrRoleMismatch},
		{"tank cannot collect", func() (string, error) { return d.CollectMoney("t1", 10) }, core.ErrRoleMismatch},
		{"non-positive amount", func() (string, error) { return d.CollectMoney("b1", 0) }, core.ErrOutOfRange},
		{"unknown build type", func() (string, error) { return d.BuildPiece("b1", core.PieceType("zeppelin")) }, core.ErrUnknownPiece},
		{"escort missing piece", func() (string, error) { return d.Escort("ghost", []string{"t1"}) }, core.ErrUnknownPiece},
		{"escort itself", func() (string, error) { return d.Escort("t1", []string{"t1"}) }, core.ErrRoleMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.issue()
			assert.Empty(t, id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, d.Registry().Len())
}

func TestStrategic_Estimates(t *testing.T) {
	w := ownedWorld(20, 20, 0)
	w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 0, Y: 0})
	w.AddPiece("t2", core.Tank, "blue", core.Coordinate{X: 4, Y: 4})
	w.AddPiece("a1", core.Artillery, "blue", core.Coordinate{X: 0, Y: 0})
	b := w.AddPiece("b1", core.Builder, "blue", core.Coordinate{X: 3, Y: 3})
	b.Money = 5
	w.SetMoney(core.Coordinate{X: 3, Y: 3}, 4)

	s := manualSettings()
	s.Costs = map[core.PieceType]int{core.Tank: 20, core.Builder: 20}
	s.Schedule = nil
	d := newTestDriver(t, s)
	d.Observe(w)

	est, err := d.EstimateAttackTime([]string{"t1", "t2"}, core.Coordinate{X: 6, Y: 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, est, "slowest member plus the attack turn")

	est, err = d.EstimateAttackTime([]string{"a1"}, core.Coordinate{X: 6, Y: 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, est, "area attackers stop at radius")

	est, err = d.EstimateAttackTime([]string{"a1"}, core.Coordinate{X: 6, Y: 0}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, est, "radius beyond weapon range does not shorten travel")

	est, err = d.EstimateCollectionTime("b1", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, est, "ceil(10/4) turns on the tile it stands on")

	est, err = d.EstimateBuildingTime("b1", core.Tank)
	require.NoError(t, err)
	assert.Equal(t, 5, est, "ceil(15/4) plus the build turn")

	id, err := d.Attack([]string{"t1", "t2"}, core.Coordinate{X: 6, Y: 0}, 0)
	require.NoError(t, err)
	status, err := d.AttackStatus(id)
	require.NoError(t, err)
	assert.Equal(t, 7, status.Estimated)
	assert.Equal(t, map[string]string{"t1": id, "t2": id}, d.AttackingPieces())
}

func TestStrategic_StatusKindMismatch(t *testing.T) {
	w := ownedWorld(8, 8, 1)
	w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 1, Y: 1})
	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	id, err := d.Defend([]string{"t1"}, core.Coordinate{X: 3, Y: 3}, 1)
	require.NoError(t, err)

	_, err = d.AttackStatus(id)
	assert.ErrorIs(t, err, core.ErrUnknownCommand)
	_, err = d.DefenseStatus("42")
	assert.ErrorIs(t, err, core.ErrUnknownCommand)

	status, err := d.DefenseStatus(id)
	require.NoError(t, err)
	assert.True(t, status.IsInProgress())
}

func TestStrategic_RequiredTilesAndIntelligence(t *testing.T) {
	w := ownedWorld(10, 10, 1)
	w.Own("red", 1, core.Coordinate{X: 8, Y: 8})
	w.Own("", 0, core.Coordinate{X: 2, Y: 7})
	unknown := w.Board.TileAt(core.Coordinate{X: 2, Y: 7})
	unknown.MoneyKnown = false
	w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 0, Y: 0})
	w.AddPiece("t2", core.Tank, "blue", core.Coordinate{X: 1, Y: 0})
	w.AddPiece("i1", core.IronDome, "blue", core.Coordinate{X: 5, Y: 5})
	w.AddPiece("s1", core.Spy, "blue", core.Coordinate{X: 0, Y: 9})

	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	_, err := d.Attack([]string{"t1"}, core.Coordinate{X: 8, Y: 8}, 0)
	require.NoError(t, err)
	_, err = d.Attack([]string{"t2"}, core.Coordinate{X: 3, Y: 3}, 0)
	require.NoError(t, err)
	_, err = d.Defend([]string{"i1"}, core.Coordinate{X: 5, Y: 6}, 1)
	require.NoError(t, err)
	_, err = d.Defend([]string{"i1"}, core.Coordinate{X: 1, Y: 8}, 0)
	require.NoError(t, err)
	_, err = d.GatherIntelligence([]string{"s1"}, core.Coordinate{X: 2, Y: 8}, 1)
	require.NoError(t, err)

	assert.Equal(t, []TileRequest{{Tile: core.Coordinate{X: 8, Y: 8}, Importance: 2}}, d.RequiredTilesForAttacks())
	assert.Equal(t, []TileRequest{{Tile: core.Coordinate{X: 1, Y: 8}, Importance: 1}}, d.RequiredTilesForDefends())
	assert.Equal(t, []TileRequest{{Tile: core.Coordinate{X: 2, Y: 7}, Importance: 1}}, d.RequiredTilesForIntelligence())
	assert.Equal(t, []core.Coordinate{{X: 2, Y: 7}}, d.MissingIntelligence())
	assert.Len(t, d.IntelligencePieces(), 1)

	danger, err := d.EstimateTileDanger(core.Coordinate{X: 8, Y: 8})
	require.NoError(t, err)
	assert.True(t, danger.IsEnemy())

	need, err := d.EstimatedRequiredAttackingPieces(core.Coordinate{X: 8, Y: 8}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, need)
}

func TestStrategic_BuilderQueries(t *testing.T) {
	w := builderWorld()
	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	assert.Equal(t, map[string]BuilderStatus{"b1": {Money: 7}, "b2": {Money: 10}}, d.Builders())
	assert.Equal(t, 17, d.TotalBuildersMoney())
	assert.Equal(t, 100*2, d.TotalCountryTilesMoney())

	_, err := d.BuildPiece("b1", core.Tank)
	require.NoError(t, err)
	_, err = d.BuildPiece("b2", core.Tank)
	require.NoError(t, err)
	assert.Equal(t, map[core.PieceType]int{core.Tank: 2}, d.RequiredPiecesForBuilds())

	id, err := d.CollectMoney("b1", 30)
	require.NoError(t, err)
	cmd, ok := d.Registry().Get(id)
	require.True(t, ok)
	assert.Equal(t, 37, cmd.Amount, "collect target is relative to current funds")
	assert.Equal(t, map[core.PieceType]int{core.Tank: 1}, d.RequiredPiecesForBuilds())
	assert.Equal(t, id, d.Builders()["b1"].CommandID)
	assert.NotEmpty(t, d.Builders()["b2"].CommandID)

	status, err := d.CollectStatus(id)
	require.NoError(t, err)
	assert.True(t, status.IsInProgress())
}

func TestStrategic_AttackIntelligenceOverridesSnapshot(t *testing.T) {
	w := ownedWorld(10, 10, 1)
	w.Own("red", 1, core.Coordinate{X: 1, Y: 0}, core.Coordinate{X: 4, Y: 0})
	tank := w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 0, Y: 0})
	w.AddPiece("r1", core.Tank, "red", core.Coordinate{X: 8, Y: 8})

	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	dest, ok := d.findAttackTarget(w, tank)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, dest)

	require.NoError(t, d.SetIntelligenceForAttacks(map[core.Coordinate]core.Danger{
		{X: 1, Y: 0}:  core.DangerOurs,
		{X: 18, Y: 9}: core.DangerEnemy | core.DangerEnemyTank | core.DangerEnemyAir,
	}))
	dest, ok = d.findAttackTarget(w, tank)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 8, Y: 9}, dest, "reported tiles are wrapped and beat the snapshot")

	need, err := d.EstimatedRequiredAttackingPieces(core.Coordinate{X: 8, Y: 8}, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, need, "one seen tank, two reported kinds, plus one")

	require.NoError(t, d.SetIntelligenceForAttacks(map[core.Coordinate]core.Danger{{X: 8, Y: 8}: core.DangerEnemy}))
	need, err = d.EstimatedRequiredAttackingPieces(core.Coordinate{X: 8, Y: 8}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, need, "a report without pieces hides the stale tank")

	require.NoError(t, d.SetIntelligenceForAttacks(nil))
	dest, ok = d.findAttackTarget(w, tank)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, dest, "an empty report clears the overrides")
}

func TestStrategic_EstimatedRequiredDefendingPieces(t *testing.T) {
	w := ownedWorld(10, 10, 1)
	w.AddPiece("r1", core.Tank, "red", core.Coordinate{X: 4, Y: 5})
	w.AddPiece("r2", core.Artillery, "red", core.Coordinate{X: 5, Y: 4})
	w.AddPiece("r3", core.Tank, "red", core.Coordinate{X: 4, Y: 7})

	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	tests := []struct {
		name   string
		dest   core.Coordinate
		radius int
		want   int
	}{
		{"one step around the area", core.Coordinate{X: 4, Y: 4}, 0, 2},
		{"wider area", core.Coordinate{X: 4, Y: 4}, 2, 3},
		{"quiet area needs one", core.Coordinate{X: 0, Y: 0}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.EstimatedRequiredDefendingPieces(tt.dest, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	require.NoError(t, d.SetIntelligenceForDefends(map[core.Coordinate]core.Danger{
		{X: 4, Y: 5}: core.DangerOurs,
		{X: 3, Y: 4}: core.DangerEnemy | core.DangerEnemyTank | core.DangerEnemyArtillery,
	}))
	got, err := d.EstimatedRequiredDefendingPieces(core.Coordinate{X: 4, Y: 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got, "artillery seen plus two reported kinds")
}

func TestStrategic_RequiredPieces(t *testing.T) {
	w := ownedWorld(10, 10, 1)
	w.Own("red", 1, core.Coordinate{X: 8, Y: 8})
	w.AddPiece("r1", core.Tank, "red", core.Coordinate{X: 8, Y: 8})
	w.AddPiece("r2", core.Tank, "red", core.Coordinate{X: 8, Y: 8})
	w.AddPiece("t1", core.Tank, "blue", core.Coordinate{X: 0, Y: 0})
	w.AddPiece("a1", core.Artillery, "blue", core.Coordinate{X: 1, Y: 1})
	w.AddPiece("i1", core.IronDome, "blue", core.Coordinate{X: 5, Y: 5})
	w.AddPiece("i2", core.IronDome, "blue", core.Coordinate{X: 7, Y: 6})
	w.AddPiece("s1", core.Spy, "blue", core.Coordinate{X: 0, Y: 9})
	for _, c := range []core.Coordinate{{X: 2, Y: 7}, {X: 1, Y: 8}, {X: 3, Y: 8}} {
		w.Board.TileAt(c).MoneyKnown = false
	}

	d := newTestDriver(t, manualSettings())
	d.Observe(w)

	_, err := d.Attack([]string{"t1"}, core.Coordinate{X: 8, Y: 8}, 0)
	require.NoError(t, err)
	_, err = d.Attack([]string{"a1"}, core.Coordinate{X: 8, Y: 8}, 2)
	require.NoError(t, err)
	_, err = d.Defend([]string{"i1"}, core.Coordinate{X: 5, Y: 6}, 1)
	require.NoError(t, err)
	_, err = d.Defend([]string{"i2"}, core.Coordinate{X: 8, Y: 7}, 0)
	require.NoError(t, err)
	_, err = d.GatherIntelligence([]string{"s1"}, core.Coordinate{X: 2, Y: 8}, 1)
	require.NoError(t, err)

	assert.Equal(t, []PieceRequest{
		{Type: core.Tank, Tile: core.Coordinate{X: 8, Y: 8}, Importance: 2},
		{Type: core.Artillery, Tile: core.Coordinate{X: 8, Y: 8}, Importance: 2},
	}, d.RequiredPiecesForAttacks())
	assert.Equal(t, []PieceRequest{
		{Type: core.IronDome, Tile: core.Coordinate{X: 8, Y: 7}, Importance: 1},
	}, d.RequiredPiecesForDefends())
	assert.Equal(t, []PieceRequest{
		{Type: core.Spy, Tile: core.Coordinate{X: 2, Y: 8}, Importance: 2},
	}, d.RequiredPiecesForIntelligence())

	assert.Equal(t, []TileRequest{{Tile: core.Coordinate{X: 8, Y: 7}, Importance: 2}}, d.RequiredTilesForDefends())
	assert.Equal(t, []TileRequest{
		{Tile: core.Coordinate{X: 2, Y: 7}, Importance: 1},
		{Tile: core.Coordinate{X: 1, Y: 8}, Importance: 1},
		{Tile: core.Coordinate{X: 3, Y: 8}, Importance: 1},
	}, d.RequiredTilesForIntelligence())
}

func TestStrategic_CollectingMoneyReports(t *testing.T) {
	w := builderWorld()
	w.Board.TileAt(core.Coordinate{X: 1, Y: 3}).MoneyKnown = false
	w.Board.TileAt(core.Coordinate{X: 2, Y: 1}).MoneyKnown = false
	w.Board.TileAt(core.Coordinate{X: 6, Y: 6}).MoneyKnown = false

	d := newTestDriver(t, manualSettings())
	d.Observe(w)
	require.NoError(t, d.SetIntelligenceForBuilders(map[core.Coordinate]core.Danger{{X: 2, Y: 1}: core.DangerOurs}))

	id, err := d.CollectMoney("b1", 30)
	require.NoError(t, err)
	playTurn(t, d, w)

	assert.Equal(t, []TileRequest{{Tile: core.Coordinate{X: 1, Y: 1}, Importance: 28}}, d.RequiredTilesForCollectingMoney(),
		"the builder collected 2 of 37 on its own tile")
	assert.Equal(t, map[string][]core.Coordinate{id: {{X: 1, Y: 3}}}, d.MissingIntelligenceForCollectingMoney(),
		"reported and distant tiles are left out")
	assert.Equal(t, map[string]BuilderStatus{"b1": {CommandID: id, Money: 9}, "b2": {Money: 10}}, d.Builders())
}

func TestStrategic_BuilderIntelligenceAvoidsReportedTiles(t *testing.T) {
	w := builderWorld()
	d := newTestDriver(t, manualSettings())
	d.Observe(w)
	require.NoError(t, d.SetIntelligenceForBuilders(map[core.Coordinate]core.Danger{
		{X: 1, Y: 1}: core.DangerOurs | core.DangerEnemyTank,
	}))

	_, err := d.CollectMoney("b1", 30)
	require.NoError(t, err)
	playTurn(t, d, w)

	in, ok := d.State().Collectors.Get("b1")
	require.True(t, ok)
	require.True(t, in.HasDestination())
	assert.NotEqual(t, core.Coordinate{X: 1, Y: 1}, *in.Destination)
	assert.Equal(t, []TileRequest{{Tile: *in.Destination, Importance: 30}}, d.RequiredTilesForCollectingMoney())
}

func builderWorld() *testutil.World {
	w := ownedWorld(10, 10, 2)
	w.AddPiece("b1", core.Builder, "blue", core.Coordinate{X: 1, Y: 1}).Money = 7
	w.AddPiece("b2", core.Builder, "blue", core.Coordinate{X: 2, Y: 2}).Money = 10
	w.AddPiece("r1", core.Builder, "red", core.Coordinate{X: 3, Y: 3}).Money = 50
	return w
}
