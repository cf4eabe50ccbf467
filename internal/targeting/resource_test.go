package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/testutil"
)

func newResourceWorld() *testutil.World {
	w := testutil.NewWorld(10, 10, "blue")
	w.OwnRect("blue", 0, 0, 0, 9, 9)
	return w
}

func TestResourceScorer_Score_DecaysWithRadius(t *testing.T) {
	rs := ResourceScorer{Decay: 3}
	for r := 1; r < 6; r++ {
		assert.Greater(t, rs.Score(10, r), rs.Score(10, r+1))
	}
	assert.Equal(t, 10, rs.Score(10, 1))
	assert.Equal(t, 4, rs.Score(10, 3))
}

func TestResourceScorer_Best_PrefersCloserTile(t *testing.T) {
	w := newResourceWorld()
	w.SetMoney(core.Coordinate{X: 6, Y: 5}, 10)
	w.SetMoney(core.Coordinate{X: 8, Y: 5}, 10)

	rs := ResourceScorer{Window: 5, FallbackWindow: 15, Decay: 3, Rand: testutil.NewTestRNG(1)}
	got, src, err := rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b1", NewClaims())

	require.NoError(t, err)
	assert.Equal(t, SourceScored, src)
	assert.Equal(t, core.Coordinate{X: 6, Y: 5}, got)
}

func TestResourceScorer_Best_SkipsReportedEnemies(t *testing.T) {
	w := newResourceWorld()
	w.SetMoney(core.Coordinate{X: 6, Y: 5}, 10)
	w.SetMoney(core.Coordinate{X: 8, Y: 5}, 10)

	rs := ResourceScorer{
		Window:         5,
		FallbackWindow: 15,
		Decay:          3,
		Danger: Overrides{
			{X: 6, Y: 5}: core.DangerOurs | core.DangerEnemyTank,
			{X: 8, Y: 5}: core.DangerOurs | core.DangerBorder,
		},
	}
	got, src, err := rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b1", NewClaims())

	require.NoError(t, err)
	assert.Equal(t, SourceScored, src)
	assert.Equal(t, core.Coordinate{X: 8, Y: 5}, got, "a border report alone does not exclude a tile")
}

func TestResourceScorer_Best_TieSetOnly(t *testing.T) {
	w := newResourceWorld()
	ties := []core.Coordinate{{X: 6, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 5}}
	for _, c := range ties {
		w.SetMoney(c, 9)
	}
	w.SetMoney(core.Coordinate{X: 7, Y: 5}, 9)
	w.SetMoney(core.Coordinate{X: 6, Y: 6}, 8)

	rs := ResourceScorer{Window: 5, FallbackWindow: 15, Decay: 1, Rand: testutil.NewTestRNG(3)}
	picked := make(map[core.Coordinate]bool)
	for i := 0; i < 100; i++ {
		got, _, err := rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b1", NewClaims())
		require.NoError(t, err)
		assert.Contains(t, ties, got)
		picked[got] = true
	}
	assert.Len(t, picked, len(ties))
}

func TestResourceScorer_Best_RespectsClaims(t *testing.T) {
	w := newResourceWorld()
	near := core.Coordinate{X: 6, Y: 5}
	far := core.Coordinate{X: 8, Y: 5}
	w.SetMoney(near, 10)
	w.SetMoney(far, 10)
	rs := ResourceScorer{Window: 5, FallbackWindow: 15, Decay: 3}

	claims := NewClaims()
	claims.Claim(near, "b2", 4)

	got, _, err := rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b1", claims)
	require.NoError(t, err)
	assert.Equal(t, far, got, "tile claimed by another collector")

	got, _, err = rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b2", claims)
	require.NoError(t, err)
	assert.Equal(t, near, got, "own claim stays usable")

	claims.Reset()
	claims.Claim(far, "b3", 10)
	got, _, err = rs.Best(w, core.Coordinate{X: 9, Y: 5}, "b1", claims)
	require.NoError(t, err)
	assert.Equal(t, near, got)
}

func TestResourceScorer_Best_FallbackIgnoresDecay(t *testing.T) {
	w := newResourceWorld()
	w.SetMoney(core.Coordinate{X: 8, Y: 5}, 10)
	w.SetMoney(core.Coordinate{X: 5, Y: 9}, 12)

	rs := ResourceScorer{Window: 5, FallbackWindow: 15, Decay: 20}
	got, src, err := rs.Best(w, core.Coordinate{X: 5, Y: 5}, "b1", NewClaims())

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, core.Coordinate{X: 5, Y: 9}, got)
}

func TestResourceScorer_Best_MassCenter(t *testing.T) {
	w := testutil.NewWorld(10, 10, "blue")
	w.OwnRect("blue", 0, 2, 2, 4, 4)
	rs := ResourceScorer{Window: 5, FallbackWindow: 15, Decay: 3}

	got, src, err := rs.Best(w, core.Coordinate{X: 8, Y: 8}, "b1", NewClaims())
	require.NoError(t, err)
	assert.Equal(t, SourceMassCenter, src)
	assert.Equal(t, core.Coordinate{X: 3, Y: 3}, got)

	empty := testutil.NewWorld(10, 10, "blue")
	_, _, err = rs.Best(empty, core.Coordinate{}, "b1", NewClaims())
	assert.ErrorIs(t, err, core.ErrNoOwnedTiles)
}

func TestClaims_Residual(t *testing.T) {
	tile := &core.Tile{Coord: core.Coordinate{X: 1, Y: 1}, Money: 10, MoneyKnown: true}
	claims := NewClaims()

	assert.Equal(t, 10, claims.Residual(tile))
	claims.Claim(tile.Coord, "b1", 4)
	claims.Claim(tile.Coord, "b2", 4)
	assert.Equal(t, 2, claims.Residual(tile))
	assert.Equal(t, 8, claims.Taken(tile.Coord))

	owner, ok := claims.ClaimedBy(tile.Coord)
	require.True(t, ok)
	assert.Equal(t, "b1", owner)

	claims.Claim(tile.Coord, "b3", 5)
	assert.Equal(t, 0, claims.Residual(tile))

	unknown := &core.Tile{Coord: core.Coordinate{X: 2, Y: 2}, Money: 50}
	assert.Equal(t, 0, claims.Residual(unknown))

	claims.Reset()
	assert.Equal(t, 0, claims.Len())
	assert.Equal(t, 10, claims.Residual(tile))
}
