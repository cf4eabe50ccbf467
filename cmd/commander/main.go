package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/TacticalCommander/internal/audit"
	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/controller"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events/subscribers"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	turns := flag.Int("turns", -1, "Turn limit (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Map seed (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (empty to use config default)")
	showBoard := flag.Bool("board", false, "Print the board after every turn")
	watch := flag.Bool("watch", true, "Reload controller settings when the config file changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	// the watcher rewrites the global config; the match runs on a copy
	cfg := *config.Get()

	if *turns == -1 {
		*turns = cfg.Simulation.Turns
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var reloads <-chan controller.Settings
	if *watch && config.ConfigFilePath() != "" {
		reloads = watchSettings()
	}

	if err := run(ctx, &cfg, *turns, *showBoard, reloads); err != nil {
		log.Fatal().Err(err).Msg("Match failed")
	}
}

// watchSettings delivers the controller settings of every valid config
// reload. Only the latest pending reload is kept.
func watchSettings() <-chan controller.Settings {
	reloads := make(chan controller.Settings, 1)
	config.WatchConfig(func(err error) {
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid config reload")
			return
		}
		s := controller.SettingsFromConfig(config.Get().Controller)
		select {
		case <-reloads:
		default:
		}
		reloads <- s
	})
	return reloads
}

func run(ctx context.Context, cfg *config.Config, turns int, showBoard bool, reloads <-chan controller.Settings) error {
	matchID := uuid.NewString()
	logger := log.Logger.With().Str("match_id", matchID).Logger()

	bus := events.NewEventBusWithLogger(logger)
	eventLogger := subscribers.NewLoggerSubscriber("event_logger", logger, zerolog.DebugLevel)
	bus.Subscribe(eventLogger)

	store, err := audit.Open(cfg.Audit, logger)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()
	recorder := audit.NewSubscriber("audit", store, logger)
	bus.Subscribe(recorder)

	settings := controller.SettingsFromConfig(cfg.Controller)
	gameCfg := game.GameConfigFromSimulation(cfg.Simulation, settings.Costs)
	gameCfg.GameID = matchID
	gameCfg.Logger = logger
	gameCfg.Publisher = bus

	engine, err := game.NewGameEngine(ctx, gameCfg)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	drivers := make(map[string]*controller.Driver, len(engine.Countries()))
	for i, country := range engine.Countries() {
		d, err := controller.NewDriver(controller.Options{
			Settings:  settings,
			MatchID:   matchID,
			Country:   country,
			Publisher: bus,
			Logger:    logger.With().Str("country", country).Logger(),
			Rand:      rand.New(rand.NewSource(cfg.Simulation.Seed + int64(i))),
		})
		if err != nil {
			return fmt.Errorf("create driver for %s: %w", country, err)
		}
		drivers[country] = d
		bus.Publish(events.NewMatchStartedEvent(matchID, country, cfg.Simulation.Width, cfg.Simulation.Height))
	}

	logger.Info().
		Strs("countries", engine.Countries()).
		Int("turns", turns).
		Int64("seed", cfg.Simulation.Seed).
		Str("audit", cfg.Audit.Type).
		Msg("Starting match")

	started := time.Now()
	for !engine.IsGameOver() && engine.Turn() <= turns {
		select {
		case s := <-reloads:
			applySettings(logger, drivers, s, gameCfg.AttackRange)
		default:
		}
		for _, country := range engine.Countries() {
			view, err := engine.View(country)
			if err != nil {
				return err
			}
			if err := drivers[country].DoTurn(ctx, view); err != nil {
				return fmt.Errorf("turn %d for %s: %w", engine.Turn(), country, err)
			}
		}
		if err := engine.Step(ctx); err != nil {
			return err
		}
		if showBoard {
			fmt.Printf("Turn %d:\n%s\n", engine.Turn()-1, engine.Render(""))
		}
	}

	if !engine.IsGameOver() {
		if err := engine.Stop("turn limit reached"); err != nil {
			return err
		}
	}
	if err := recorder.Flush(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush audit records")
	}

	printSummary(engine, drivers, recorder.Written(), started)
	return nil
}

// applySettings hands reloaded settings to every driver. The world was built
// with a fixed attack range, so artillery may not be retuned beyond it.
func applySettings(logger zerolog.Logger, drivers map[string]*controller.Driver, s controller.Settings, attackRange int) {
	if attackRange <= 0 {
		attackRange = game.DistantAttackRange
	}
	if s.ArtilleryRadius > attackRange {
		logger.Warn().
			Int("artillery_radius", s.ArtilleryRadius).
			Int("attack_range", attackRange).
			Msg("Reloaded artillery radius exceeds the world's attack range, keeping current settings")
		return
	}
	for country, d := range drivers {
		if err := d.UpdateSettings(s); err != nil {
			logger.Warn().Err(err).Str("country", country).Msg("Failed to apply reloaded settings")
		}
	}
}

func printSummary(engine *game.Engine, drivers map[string]*controller.Driver, audited int, started time.Time) {
	fmt.Printf("\nFinal board:\n%s\n", engine.Render(""))

	if winner := engine.Winner(); winner != "" {
		fmt.Printf("Match over after %d turns: %s wins\n", engine.Turn()-1, winner)
	} else {
		fmt.Printf("Match stopped after %d turns with no winner\n", engine.Turn()-1)
	}

	for _, s := range engine.Stats() {
		fmt.Printf("  %-8s tiles %-5s money %-7s funds %-7s pieces %-4s commands %s\n",
			s.Country,
			humanize.Comma(int64(s.Tiles)),
			humanize.Comma(int64(s.TileMoney)),
			humanize.Comma(int64(s.Funds)),
			humanize.Comma(int64(s.Pieces)),
			humanize.Comma(int64(drivers[s.Country].Registry().Len())),
		)
	}
	fmt.Printf("%s transitions audited, started %s\n", humanize.Comma(int64(audited)), humanize.Time(started))
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
