package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/mapgen"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/rules"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/states"
)

// GameConfig holds everything needed to set up a simulated match
type GameConfig struct {
	Width         int
	Height        int
	Countries     []string
	StartRegion   int
	StartBuilders int
	MoneyGrowth   int
	MaxTileMoney  int
	AttackRange   int // reach of attack_at; DistantAttackRange when zero
	Costs         map[core.PieceType]int
	Seed          int64
	Rng           *rand.Rand
	GameID        string
	Logger        zerolog.Logger
	Publisher     events.Publisher
}

// GameConfigFromSimulation converts the simulation section of the configuration
func GameConfigFromSimulation(sim config.SimulationConfig, costs map[core.PieceType]int) GameConfig {
	return GameConfig{
		Width:         sim.Width,
		Height:        sim.Height,
		Countries:     sim.Countries,
		StartRegion:   sim.StartRegion,
		StartBuilders: sim.StartBuilders,
		MoneyGrowth:   sim.MoneyGrowth,
		MaxTileMoney:  sim.MaxTileMoney,
		AttackRange:   sim.AttackRange,
		Costs:         costs,
		Seed:          sim.Seed,
	}
}

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "game_engine").Logger(),
	}
}

// Initialize generates the map, places every country and starts the match
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if err := ei.setupDefaults(); err != nil {
		return nil, err
	}

	mapCfg := mapgen.MapConfig{
		Width:           ei.config.Width,
		Height:          ei.config.Height,
		Countries:       ei.config.Countries,
		StartRegion:     ei.config.StartRegion,
		StartBuilders:   ei.config.StartBuilders,
		MaxTileMoney:    ei.config.MaxTileMoney,
		MinStartSpacing: (ei.config.Width + ei.config.Height) / 4,
		NoiseScale:      0.15,
		Seed:            ei.config.Seed,
	}
	board, placements, err := mapgen.NewGenerator(mapCfg, ei.config.Rng).GenerateMap()
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	gs := NewGameState(board, ei.config.Countries)
	for _, p := range placements {
		for _, at := range p.Builders {
			gs.AddPiece(core.Builder, p.Country, at)
		}
	}

	engine := newEngine(gs, ei.config, ei.logger)
	if err := engine.machine.TransitionTo(states.PhaseRunning, "map generated"); err != nil {
		return nil, fmt.Errorf("start match: %w", err)
	}

	ei.logger.Info().
		Int("width", ei.config.Width).
		Int("height", ei.config.Height).
		Strs("countries", ei.config.Countries).
		Int("pieces", len(gs.Pieces)).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in missing configuration
func (ei *EngineInitializer) setupDefaults() error {
	if len(ei.config.Countries) == 0 {
		return fmt.Errorf("no countries configured: %w", core.ErrUnknownCountry)
	}
	if ei.config.Rng == nil {
		ei.logger.Debug().Int64("seed", ei.config.Seed).Msg("No RNG provided, seeding from configuration")
		ei.config.Rng = rand.New(rand.NewSource(ei.config.Seed))
	}
	if ei.config.GameID == "" {
		ei.config.GameID = fmt.Sprintf("sim_%d", ei.config.Seed)
	}
	if ei.config.Publisher == nil {
		ei.config.Publisher = events.Discard
	}
	return nil
}

// newEngine wires the engine components around an existing state. The
// machine starts in PhaseSetup.
func newEngine(gs *GameState, cfg GameConfig, logger zerolog.Logger) *Engine {
	if cfg.Publisher == nil {
		cfg.Publisher = events.Discard
	}
	if cfg.AttackRange <= 0 {
		cfg.AttackRange = DistantAttackRange
	}
	e := &Engine{
		gs:           gs,
		config:       cfg,
		logger:       logger,
		publisher:    cfg.Publisher,
		gameID:       cfg.GameID,
		machine:      states.NewMachine(cfg.GameID, logger),
		winCondition: rules.NewWinConditionChecker(logger, len(gs.Countries)),
		orders:       make(map[string]order),
	}
	e.productionManager = NewProductionManager(cfg.MoneyGrowth, cfg.MaxTileMoney, logger)
	e.turnProcessor = NewTurnProcessor(e)
	e.updateCountryStats()
	return e
}
