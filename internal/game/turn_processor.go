package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

// resolution order within a turn: toggles and economy first, then movement,
// then combat
var orderPriority = map[orderKind]int{
	orderProtect:  0,
	orderTakeOff:  1,
	orderLand:     1,
	orderCollect:  2,
	orderBuild:    3,
	orderMove:     4,
	orderAttack:   5,
	orderAttackAt: 6,
}

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn executes a complete game turn
func (tp *TurnProcessor) ProcessTurn(ctx context.Context) error {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return err
	}
	if err := tp.validateGameState(); err != nil {
		return err
	}

	gs := tp.engine.gs
	turnLogger := tp.logger.With().Int("turn", gs.Turn).Logger()
	turnLogger.Debug().Int("num_orders_queued", len(tp.engine.orders)).Msg("Starting game step")
	start := time.Now()

	if err := tp.processOrdersPhase(ctx, turnLogger); err != nil {
		return err
	}
	if err := tp.processProductionPhase(ctx, turnLogger); err != nil {
		return err
	}
	tp.processEndOfTurnPhase(turnLogger)

	turnLogger.Debug().Dur("took", time.Since(start)).Msg("Game step finished")
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.gs.Turn).
			Str("phase", phase).
			Msg("Game step cancelled or timed out")
		return core.WrapTurnError(tp.engine.gs.Turn, phase, ctx.Err())
	default:
		return nil
	}
}

// validateGameState ensures the match can still be stepped
func (tp *TurnProcessor) validateGameState() error {
	phase := tp.engine.machine.CurrentPhase()
	if tp.engine.gameOver || !phase.CanReceiveOrders() {
		tp.logger.Warn().
			Str("current_phase", phase.String()).
			Int("turn", tp.engine.gs.Turn).
			Msg("Attempted to step a match that is not running")
		return core.WrapTurnError(tp.engine.gs.Turn, "step", core.ErrMatchOver)
	}
	return nil
}

// processOrdersPhase resolves every queued order in a deterministic order
func (tp *TurnProcessor) processOrdersPhase(ctx context.Context, turnLogger zerolog.Logger) error {
	queued := make([]order, 0, len(tp.engine.orders))
	for _, o := range tp.engine.orders {
		queued = append(queued, o)
	}
	sort.Slice(queued, func(i, j int) bool {
		pi, pj := orderPriority[queued[i].kind], orderPriority[queued[j].kind]
		if pi != pj {
			return pi < pj
		}
		return queued[i].pieceID < queued[j].pieceID
	})

	for _, o := range queued {
		if err := tp.checkContext(ctx, "orders"); err != nil {
			return err
		}
		p, ok := tp.engine.gs.Pieces[o.pieceID]
		if !ok {
			turnLogger.Debug().Str("piece_id", o.pieceID).Str("order", o.kind.String()).Msg("Piece destroyed before its order resolved")
			continue
		}
		tp.engine.apply(p, o, turnLogger)
	}
	clear(tp.engine.orders)

	turnLogger.Debug().Int("orders_resolved", len(queued)).Msg("Finished processing orders")
	return nil
}

// processProductionPhase regrows tile money
func (tp *TurnProcessor) processProductionPhase(ctx context.Context, turnLogger zerolog.Logger) error {
	if err := tp.checkContext(ctx, "before production"); err != nil {
		return fmt.Errorf("production phase: %w", err)
	}
	grown := tp.engine.productionManager.ProcessTurnProduction(tp.engine.gs)
	turnLogger.Debug().Int("money_grown", grown).Msg("Production applied")
	return nil
}

// processEndOfTurnPhase advances flight clocks, refreshes stats and checks
// for a winner before moving to the next turn.
func (tp *TurnProcessor) processEndOfTurnPhase(turnLogger zerolog.Logger) {
	for _, p := range tp.engine.gs.Pieces {
		if p.InAir {
			p.TimeInAir++
		}
	}
	tp.engine.updateCountryStats()
	tp.engine.checkMatchOver(turnLogger)
	tp.engine.gs.Turn++
}

// apply resolves one order against the ground truth
func (e *Engine) apply(p *core.Piece, o order, log zerolog.Logger) {
	gs := e.gs
	switch o.kind {
	case orderMove:
		gs.MovePiece(p.ID, o.target)
	case orderAttack:
		e.attackTile(p, log)
	case orderAttackAt:
		e.attackAt(p, o.target, log)
	case orderCollect:
		tile := gs.Board.TileAt(p.Coord)
		amount := min(o.amount, tile.Money)
		if amount <= 0 {
			log.Debug().Str("piece_id", p.ID).Stringer("at", p.Coord).Msg("Nothing left to collect")
			return
		}
		tile.Money -= amount
		p.Money += amount
		e.publisher.Publish(events.NewMoneyCollectedEvent(e.gameID, p.ID, p.Coord, amount, gs.Turn))
	case orderBuild:
		cost := e.config.Costs[o.pieceType]
		if p.Money < cost {
			log.Warn().Str("piece_id", p.ID).Int("cost", cost).Int("money", p.Money).Msg("Build skipped, funds changed")
			return
		}
		p.Money -= cost
		built := gs.AddPiece(o.pieceType, p.Country, p.Coord)
		e.publisher.Publish(events.NewPieceBuiltEvent(e.gameID, p.ID, built.ID, built.Type, built.Coord, cost, gs.Turn))
		log.Debug().Str("builder_id", p.ID).Str("piece_id", built.ID).Str("piece_type", string(built.Type)).Msg("Piece built")
	case orderTakeOff:
		p.InAir = true
		p.TimeInAir = 0
	case orderLand:
		p.InAir = false
		p.TimeInAir = 0
	case orderProtect:
		p.Defending = o.on
	}
}

// attackTile takes the tile under the piece. Enemy ground pieces there are
// destroyed, except that an enemy antitank destroys an attacking tank.
func (e *Engine) attackTile(p *core.Piece, log zerolog.Logger) {
	defenders := e.enemyGroundPieces(p.Coord, p.Country)
	if p.Type == core.Tank {
		for _, d := range defenders {
			if d.Type == core.Antitank {
				log.Debug().Str("piece_id", p.ID).Str("antitank_id", d.ID).Msg("Tank destroyed by antitank")
				e.gs.RemovePiece(p.ID)
				return
			}
		}
	}
	for _, d := range defenders {
		e.gs.RemovePiece(d.ID)
	}
	e.capture(p.Coord, p, log)
}

// attackAt strikes a tile within range unless an enemy iron dome covers it
func (e *Engine) attackAt(p *core.Piece, target core.Coordinate, log zerolog.Logger) {
	if dome, ok := e.protector(target, p.Country); ok {
		log.Debug().Str("piece_id", p.ID).Str("dome_id", dome).Stringer("target", target).Msg("Strike intercepted")
		return
	}
	for _, d := range e.enemyGroundPieces(target, p.Country) {
		e.gs.RemovePiece(d.ID)
	}
	e.capture(target, p, log)
}

func (e *Engine) capture(at core.Coordinate, by *core.Piece, log zerolog.Logger) {
	tile := e.gs.Board.TileAt(at)
	if tile.Country == by.Country {
		return
	}
	previous := tile.Country
	tile.Country = by.Country
	e.publisher.Publish(events.NewTileCapturedEvent(e.gameID, tile.Coord, previous, by.Country, by.ID, e.gs.Turn))
	log.Debug().Stringer("at", tile.Coord).Str("previous", previous).Str("owner", by.Country).Msg("Tile captured")
}

func (e *Engine) enemyGroundPieces(at core.Coordinate, country string) []*core.Piece {
	var out []*core.Piece
	for _, q := range e.gs.PiecesAt(at) {
		if q.Country != country && !q.InAir {
			out = append(out, q)
		}
	}
	return out
}

// protector finds a defending enemy iron dome covering target
func (e *Engine) protector(target core.Coordinate, attacker string) (string, bool) {
	b := e.gs.Board
	var ids []string
	for id, q := range e.gs.Pieces {
		if q.Type == core.IronDome && q.Defending && q.Country != attacker &&
			q.Coord.WrappedDistanceTo(target, b.W, b.H) <= IronDomeRadius {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	sort.Strings(ids)
	return ids[0], true
}
