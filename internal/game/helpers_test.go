package game

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/states"
)

var testCosts = map[core.PieceType]int{
	core.Tank:      20,
	core.Artillery: 25,
	core.Builder:   20,
}

// newTestEngine returns a running blue/red match on an empty w x h board
func newTestEngine(t *testing.T, w, h int, bus events.Publisher) *Engine {
	t.Helper()
	gs := NewGameState(core.NewBoard(w, h), []string{"blue", "red"})
	cfg := GameConfig{
		Width:        w,
		Height:       h,
		Countries:    gs.Countries,
		MaxTileMoney: 12,
		Costs:        testCosts,
		GameID:       "test",
		Publisher:    bus,
	}
	e := newEngine(gs, cfg, zerolog.Nop())
	require.NoError(t, e.machine.TransitionTo(states.PhaseRunning, "test"))
	return e
}

func own(e *Engine, country string, money int, coords ...core.Coordinate) {
	for _, c := range coords {
		t := e.gs.Board.TileAt(c)
		t.Country = country
		t.Money = money
		t.MoneyKnown = true
	}
}

func view(t *testing.T, e *Engine, country string) *CountryView {
	t.Helper()
	v, err := e.View(country)
	require.NoError(t, err)
	return v
}

// recorder collects published events by type
type recorder struct {
	bus    *events.EventBus
	events []events.Event
}

func newRecorder(types ...string) *recorder {
	r := &recorder{bus: events.NewEventBusWithLogger(zerolog.Nop())}
	for _, typ := range types {
		r.bus.SubscribeFunc(typ, func(ev events.Event) { r.events = append(r.events, ev) })
	}
	return r
}
