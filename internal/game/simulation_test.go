package game_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/controller"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

// TestControllersPlayAMatch drives both countries with a controller for a
// few dozen turns against the simulated world.
func TestControllersPlayAMatch(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	built, rejected := 0, 0
	bus.SubscribeFunc(events.TypePieceBuilt, func(events.Event) { built++ })
	bus.SubscribeFunc(events.TypeOrderRejected, func(events.Event) { rejected++ })

	settings := controller.DefaultSettings()
	e, err := game.NewGameEngine(ctx, game.GameConfig{
		Width:         20,
		Height:        14,
		Countries:     []string{"blue", "red"},
		StartRegion:   2,
		StartBuilders: 2,
		MoneyGrowth:   1,
		MaxTileMoney:  12,
		Costs:         settings.Costs,
		Seed:          3,
		Logger:        zerolog.Nop(),
		Publisher:     bus,
	})
	require.NoError(t, err)

	drivers := make(map[string]*controller.Driver)
	for i, country := range e.Countries() {
		d, err := controller.NewDriver(controller.Options{
			Settings:  settings,
			MatchID:   e.GameID(),
			Country:   country,
			Publisher: bus,
			Logger:    zerolog.Nop(),
			Rand:      rand.New(rand.NewSource(int64(i + 1))),
		})
		require.NoError(t, err)
		drivers[country] = d
	}

	for turn := 0; turn < 40 && !e.IsGameOver(); turn++ {
		for _, country := range e.Countries() {
			v, err := e.View(country)
			require.NoError(t, err)
			require.NoError(t, drivers[country].DoTurn(ctx, v))
		}
		require.NoError(t, e.Step(ctx))
	}

	for country, d := range drivers {
		assert.Positive(t, d.Registry().Len(), "%s issued commands", country)
	}
	assert.Positive(t, built, "builders funded at least one piece")
	t.Logf("turn %d: %d pieces built, %d orders rejected", e.Turn(), built, rejected)
}
