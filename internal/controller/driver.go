// Package controller drives the controlled country one turn at a time. It
// resumes the commands recorded in the intent tables against the fresh
// snapshot, issues commands for idle pieces and exposes the strategic
// command surface used by an outer orchestration layer.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// ErrNoSnapshot is returned by the strategic surface before the first turn
var ErrNoSnapshot = errors.New("no snapshot observed yet")

// Options configure a Driver
type Options struct {
	Settings Settings
	MatchID  string
	// Country owns the registry; it tags every command transition.
	Country   string
	Publisher events.Publisher
	Logger    zerolog.Logger
	Rand      *rand.Rand
}

// Driver is the turn driver. It is not safe for concurrent use; a match is
// processed one turn at a time.
type Driver struct {
	state      *State
	settings   Settings
	production *ProductionPolicy
	scorer     targeting.ResourceScorer
	rng        *rand.Rand

	matchID   string
	publisher events.Publisher
	logger    zerolog.Logger

	// view is the latest snapshot, used by the strategic surface between turns.
	view world.Snapshot
	// intel is danger reported by the outer layer. It outlives snapshots
	// until replaced.
	intel intelligence
}

// NewDriver creates a driver with a fresh registry and empty intent tables
func NewDriver(opts Options) (*Driver, error) {
	s := opts.Settings
	production, err := NewProductionPolicy(s.Costs, s.DefaultType, s.Schedule)
	if err != nil {
		return nil, fmt.Errorf("production policy: %w", err)
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Discard
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger.With().Str("component", "controller").Logger()

	return &Driver{
		state:      NewState(command.NewRegistry(opts.MatchID, opts.Country, publisher, opts.Logger)),
		settings:   s,
		production: production,
		scorer:     scorerFor(s, rng),
		rng:        rng,
		matchID:    opts.MatchID,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

func scorerFor(s Settings, rng *rand.Rand) targeting.ResourceScorer {
	return targeting.ResourceScorer{
		Window:         s.ResourceWindow,
		FallbackWindow: s.ResourceFallbackWindow,
		Decay:          s.ResourceDecay,
		Rand:           rng,
	}
}

// UpdateSettings swaps the tuning between turns. Commands, intents and the
// production counter are kept. On error the previous settings stay in force.
func (d *Driver) UpdateSettings(s Settings) error {
	production, err := NewProductionPolicy(s.Costs, s.DefaultType, s.Schedule)
	if err != nil {
		return fmt.Errorf("production policy: %w", err)
	}
	d.settings = s
	d.production = production
	d.scorer = scorerFor(s, d.rng)
	d.logger.Info().
		Int("attack_ceiling", s.AttackCeiling).
		Int("artillery_radius", s.ArtilleryRadius).
		Str("default_type", string(s.DefaultType)).
		Msg("Controller settings updated")
	return nil
}

// Settings returns the tuning currently in force
func (d *Driver) Settings() Settings { return d.settings }

// State exposes the driver bookkeeping
func (d *Driver) State() *State { return d.state }

// Registry returns the command registry
func (d *Driver) Registry() *command.Registry { return d.state.Registry }

// Observe records the snapshot the strategic surface works against. DoTurn
// calls it for every turn.
func (d *Driver) Observe(s world.Snapshot) {
	d.view = s
	d.state.Registry.SetTurn(s.Turn())
}

// turnCtx carries the per-turn inputs of one DoTurn call
type turnCtx struct {
	ctx  context.Context
	w    world.Turn
	log  zerolog.Logger
	mine map[string]*core.Piece
}

// DoTurn processes one turn: every tracked piece takes one step of its
// command, then idle pieces receive new commands. Per-piece failures are
// logged and never returned; the only error is a cancelled context.
func (d *Driver) DoTurn(ctx context.Context, w world.Turn) error {
	if err := d.checkContext(ctx, w.Turn(), "before starting"); err != nil {
		return err
	}

	d.Observe(w)
	d.state.Turn.Reset()

	tc := &turnCtx{
		ctx:  ctx,
		w:    w,
		log:  d.logger.With().Int("turn", w.Turn()).Logger(),
		mine: w.MyPieces(),
	}
	tc.log.Debug().Int("pieces", len(tc.mine)).Msg("Starting controller turn")

	start := time.Now()
	d.publisher.Publish(events.NewTurnStartedEvent(d.matchID, w.Turn()))

	if err := d.resolvePhase(tc); err != nil {
		return err
	}
	if d.settings.AutoAssign {
		if err := d.idlePhase(tc); err != nil {
			return err
		}
	}

	active := len(d.state.Registry.Active())
	d.publisher.Publish(events.NewTurnEndedEvent(d.matchID, w.Turn(), d.state.Turn.Orders, active, time.Since(start)))
	tc.log.Debug().
		Int("orders", d.state.Turn.Orders).
		Int("active_commands", active).
		Msg("Controller turn finished")
	return nil
}

func (d *Driver) checkContext(ctx context.Context, turn int, phase string) error {
	select {
	case <-ctx.Done():
		d.logger.Warn().
			Err(ctx.Err()).
			Int("turn", turn).
			Str("phase", phase).
			Msg("Controller turn cancelled or timed out")
		return core.WrapTurnError(turn, "do_turn", ctx.Err())
	default:
		return nil
	}
}

// resolvePhase advances every intent recorded in the tables
func (d *Driver) resolvePhase(tc *turnCtx) error {
	for _, table := range d.state.Tables() {
		if err := d.checkContext(tc.ctx, tc.w.Turn(), table.Name()); err != nil {
			return err
		}
		for _, in := range table.Intents() {
			d.resolve(tc, table, in)
		}
	}
	return nil
}

// resolve reconciles one intent with the snapshot and takes its step
func (d *Driver) resolve(tc *turnCtx, table *command.IntentTable, in command.Intent) {
	if !d.state.Registry.IsActive(in.CommandID) {
		table.Drop(in.PieceID)
		return
	}

	p, ok := tc.mine[in.PieceID]
	if !ok {
		d.disappeared(tc, table, in)
		return
	}
	if d.state.Turn.Ordered[p.ID] {
		return
	}

	switch in.Kind {
	case command.KindCollect, command.KindBuild:
		d.stepBuilder(tc, table, in, p)
	default:
		d.stepMover(tc, table, in, p)
	}
}

// disappeared drops the intent of a piece missing from the snapshot. A
// command left with no members counts as succeeded: the snapshot cannot tell
// a destroyed piece from one that moved out of sight.
func (d *Driver) disappeared(tc *turnCtx, table *command.IntentTable, in command.Intent) {
	table.Drop(in.PieceID)
	d.publisher.Publish(events.NewPieceDisappearedEvent(d.matchID, in.PieceID, in.CommandID, tc.w.Turn()))
	tc.log.Debug().
		Str("piece_id", in.PieceID).
		Str("command_id", in.CommandID).
		Msg("Tracked piece disappeared")

	if len(d.state.Members(in.CommandID)) == 0 {
		_ = d.state.Registry.Succeed(in.CommandID, "pieces disappeared")
	}
}

func (d *Driver) advance(commandID string) {
	if d.state.Turn.Advanced[commandID] {
		return
	}
	d.state.Turn.Advanced[commandID] = true
	_ = d.state.Registry.Advance(commandID)
}

func (d *Driver) succeed(table *command.IntentTable, in command.Intent, reason string) {
	_ = d.state.Registry.Succeed(in.CommandID, reason)
	table.Drop(in.PieceID)
}

func (d *Driver) fail(tc *turnCtx, table *command.IntentTable, in command.Intent, reason string) {
	_ = d.state.Registry.Fail(in.CommandID, reason)
	table.Drop(in.PieceID)
	tc.log.Info().
		Str("piece_id", in.PieceID).
		Str("command_id", in.CommandID).
		Str("reason", reason).
		Msg("Command failed")
}

// order sends one world order for a piece and records it. A rejected order
// is logged and published; the piece simply does nothing this turn.
func (d *Driver) order(tc *turnCtx, pieceID, name string, send func() error) bool {
	if d.state.Turn.Ordered[pieceID] {
		return false
	}
	if err := send(); err != nil {
		tc.log.Warn().
			Err(err).
			Str("piece_id", pieceID).
			Str("order", name).
			Msg("Order rejected")
		d.publisher.Publish(events.NewOrderRejectedEvent(d.matchID, pieceID, name, tc.w.Turn(), err))
		return false
	}
	d.state.Turn.Ordered[pieceID] = true
	d.state.Turn.Orders++
	tc.log.Debug().Str("piece_id", pieceID).Str("order", name).Msg("Order issued")
	return true
}
