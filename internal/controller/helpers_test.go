package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/testutil"
)

func newTestDriver(t *testing.T, s Settings) *Driver {
	t.Helper()
	d, err := NewDriver(Options{
		Settings: s,
		MatchID:  "test-match",
		Country:  "blue",
		Logger:   testutil.NopLogger(),
		Rand:     testutil.NewTestRNG(1),
	})
	require.NoError(t, err)
	return d
}

func manualSettings() Settings {
	s := DefaultSettings()
	s.AutoAssign = false
	return s
}

// ownedWorld is a w x h board fully owned by blue with the given tile money
func ownedWorld(w, h, money int) *testutil.World {
	world := testutil.NewWorld(w, h, "blue")
	world.OwnRect("blue", money, 0, 0, w-1, h-1)
	return world
}

// playTurn runs one driver turn and applies the recorded orders the way the
// game would.
func playTurn(t *testing.T, d *Driver, w *testutil.World) {
	t.Helper()
	w.NextTurn()
	require.NoError(t, d.DoTurn(context.Background(), w))
	applyOrders(w, d.settings.Costs)
}

func applyOrders(w *testutil.World, costs map[core.PieceType]int) {
	for _, o := range w.Orders {
		p := w.Pieces[o.PieceID]
		switch o.Kind {
		case "move":
			w.MovePiece(o.PieceID, o.To)
		case "collect":
			p.Money += o.Amount
			w.Board.TileAt(p.Coord).Money -= o.Amount
		case "build":
			p.Money -= costs[o.PieceType]
		case "take_off":
			p.InAir = true
			p.TimeInAir = 0
		case "land":
			p.InAir = false
		case "protect":
			p.Defending = o.On
		case "attack":
			w.Board.TileAt(p.Coord).Country = p.Country
		}
	}
	for _, p := range w.Pieces {
		if p.InAir {
			p.TimeInAir++
		}
	}
}
