package game

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/rules"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/states"
)

// Engine runs a simulated match. Countries queue orders through their
// CountryView; Step resolves them and advances the turn. An Engine is not
// safe for concurrent use.
type Engine struct {
	gs     *GameState
	config GameConfig
	logger zerolog.Logger

	publisher events.Publisher
	gameID    string

	machine           *states.Machine
	winCondition      *rules.WinConditionChecker
	productionManager *ProductionManager
	turnProcessor     *TurnProcessor

	// orders queued for the current turn, keyed by piece id
	orders map[string]order
	stats  []CountryStats

	gameOver bool
	winner   string
}

// NewGameEngine creates a match from cfg
func NewGameEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Step resolves the queued orders and advances the match by one turn
func (e *Engine) Step(ctx context.Context) error {
	return e.turnProcessor.ProcessTurn(ctx)
}

// Public accessors
func (e *Engine) Turn() int                    { return e.gs.Turn }
func (e *Engine) IsGameOver() bool             { return e.gameOver }
func (e *Engine) Countries() []string          { return e.gs.Countries }
func (e *Engine) Phase() states.MatchPhase     { return e.machine.CurrentPhase() }
func (e *Engine) GameID() string               { return e.gameID }
func (e *Engine) PendingOrders() int           { return len(e.orders) }
func (e *Engine) State() *GameState            { return e.gs }
func (e *Engine) History() []states.Transition { return e.machine.GetHistory() }

// Winner returns the winning country, or "" while the match runs or on a draw
func (e *Engine) Winner() string {
	if !e.gameOver {
		return ""
	}
	return e.winner
}

// Stop ends a running match early, e.g. when the turn limit is reached
func (e *Engine) Stop(reason string) error {
	if e.gameOver {
		return nil
	}
	e.gameOver = true
	return e.machine.TransitionTo(states.PhaseEnded, reason)
}

// checkMatchOver ends the match once at most one country is left
func (e *Engine) checkMatchOver(logger zerolog.Logger) {
	countries := make([]rules.Country, len(e.stats))
	for i := range e.stats {
		countries[i] = e.stats[i]
	}
	over, winner := e.winCondition.CheckMatchOver(countries)
	if !over {
		return
	}
	e.gameOver = true
	e.winner = winner
	if err := e.machine.TransitionTo(states.PhaseEnded, "match decided"); err != nil {
		logger.Error().Err(err).Msg("Failed to end match")
	}
	logger.Info().Str("winner", winner).Int("turn", e.gs.Turn).Msg("Match over")
}
