package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Str("country", e.Country).
			Int("map_width", e.Width).
			Int("map_height", e.Height)

	case *events.TurnStartedEvent:
		logEvent.Int("turn", e.TurnNumber)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Int("orders_issued", e.OrdersIssued).
			Int("active_commands", e.ActiveCommands).
			Dur("process_time", e.ProcessedTime)

	case *events.CommandEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("country", e.Country).
			Str("command_id", e.CommandID).
			Str("kind", e.Kind).
			Str("from", e.FromStatus).
			Str("to", e.ToStatus).
			Int("elapsed", e.Elapsed).
			Int("estimated", e.Estimated)
		if e.Destination != nil {
			logEvent.Stringer("destination", e.Destination).Int("radius", e.Radius)
		}
		if e.Reason != "" {
			logEvent.Str("reason", e.Reason)
		}

	case *events.OrderRejectedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("piece_id", e.PieceID).
			Str("order", e.Order).
			AnErr("cause", e.Err)

	case *events.PieceBuiltEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("builder_id", e.BuilderID).
			Str("piece_id", e.PieceID).
			Str("piece_type", string(e.PieceType)).
			Int("cost", e.Cost)

	case *events.MoneyCollectedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("builder_id", e.BuilderID).
			Stringer("location", e.Location).
			Int("amount", e.Amount)

	case *events.TileCapturedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Stringer("location", e.Location).
			Str("previous_owner", e.PreviousOwner).
			Str("new_owner", e.NewOwner).
			Str("piece_id", e.PieceID)

	case *events.PieceDisappearedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Str("piece_id", e.PieceID).
			Str("command_id", e.CommandID)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Controller event")
}
