package events

import (
	"time"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted     = "match.started"
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeCommandIssued    = "command.issued"
	TypeCommandAdvanced  = "command.advanced"
	TypeCommandSucceeded = "command.succeeded"
	TypeCommandFailed    = "command.failed"
	TypeOrderRejected    = "order.rejected"
	TypePieceBuilt       = "piece.built"
	TypeMoneyCollected   = "money.collected"
	TypeTileCaptured     = "tile.captured"
	TypePieceDisappeared = "piece.disappeared"
)

// MatchStartedEvent is published once when a controller starts driving a match
type MatchStartedEvent struct {
	BaseEvent
	Country string
	Width   int
	Height  int
}

// NewMatchStartedEvent creates a new MatchStartedEvent
func NewMatchStartedEvent(matchID, country string, width, height int) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent: newBase(TypeMatchStarted, matchID),
		Country:   country,
		Width:     width,
		Height:    height,
	}
}

// TurnStartedEvent is published at the beginning of each turn
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(matchID string, turn int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBase(TypeTurnStarted, matchID),
		TurnNumber: turn,
	}
}

// TurnEndedEvent is published once every piece has been handled for the turn
type TurnEndedEvent struct {
	BaseEvent
	TurnNumber     int
	OrdersIssued   int
	ActiveCommands int
	ProcessedTime  time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(matchID string, turn, ordersIssued, activeCommands int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:      newBase(TypeTurnEnded, matchID),
		TurnNumber:     turn,
		OrdersIssued:   ordersIssued,
		ActiveCommands: activeCommands,
		ProcessedTime:  processedTime,
	}
}

// CommandEvent reports one status transition of a registry command
type CommandEvent struct {
	BaseEvent
	Country     string // owner of the registry; ids are unique per country
	CommandID   string
	Kind        string
	TurnNumber  int
	FromStatus  string
	ToStatus    string
	Elapsed     int
	Estimated   int
	Destination *core.Coordinate
	Radius      int
	Reason      string
}

// NewCommandEvent creates a CommandEvent of the given type
func NewCommandEvent(eventType, matchID, commandID, kind string, turn int) *CommandEvent {
	return &CommandEvent{
		BaseEvent:  newBase(eventType, matchID),
		CommandID:  commandID,
		Kind:       kind,
		TurnNumber: turn,
	}
}

// OrderRejectedEvent is published when the world refuses a piece order
type OrderRejectedEvent struct {
	BaseEvent
	PieceID    string
	Order      string
	TurnNumber int
	Err        error
}

// NewOrderRejectedEvent creates a new OrderRejectedEvent
func NewOrderRejectedEvent(matchID, pieceID, order string, turn int, err error) *OrderRejectedEvent {
	return &OrderRejectedEvent{
		BaseEvent:  newBase(TypeOrderRejected, matchID),
		PieceID:    pieceID,
		Order:      order,
		TurnNumber: turn,
		Err:        err,
	}
}

// PieceBuiltEvent is published when a builder spawns a new piece
type PieceBuiltEvent struct {
	BaseEvent
	BuilderID  string
	PieceID    string
	PieceType  core.PieceType
	Location   core.Coordinate
	Cost       int
	TurnNumber int
}

// NewPieceBuiltEvent creates a new PieceBuiltEvent
func NewPieceBuiltEvent(matchID, builderID, pieceID string, pieceType core.PieceType, at core.Coordinate, cost, turn int) *PieceBuiltEvent {
	return &PieceBuiltEvent{
		BaseEvent:  newBase(TypePieceBuilt, matchID),
		BuilderID:  builderID,
		PieceID:    pieceID,
		PieceType:  pieceType,
		Location:   at,
		Cost:       cost,
		TurnNumber: turn,
	}
}

// MoneyCollectedEvent is published when a builder takes money from a tile
type MoneyCollectedEvent struct {
	BaseEvent
	BuilderID  string
	Location   core.Coordinate
	Amount     int
	TurnNumber int
}

// NewMoneyCollectedEvent creates a new MoneyCollectedEvent
func NewMoneyCollectedEvent(matchID, builderID string, at core.Coordinate, amount, turn int) *MoneyCollectedEvent {
	return &MoneyCollectedEvent{
		BaseEvent:  newBase(TypeMoneyCollected, matchID),
		BuilderID:  builderID,
		Location:   at,
		Amount:     amount,
		TurnNumber: turn,
	}
}

// TileCapturedEvent is published when a tile changes owner
type TileCapturedEvent struct {
	BaseEvent
	Location      core.Coordinate
	PreviousOwner string
	NewOwner      string
	PieceID       string
	TurnNumber    int
}

// NewTileCapturedEvent creates a new TileCapturedEvent
func NewTileCapturedEvent(matchID string, at core.Coordinate, previous, owner, pieceID string, turn int) *TileCapturedEvent {
	return &TileCapturedEvent{
		BaseEvent:     newBase(TypeTileCaptured, matchID),
		Location:      at,
		PreviousOwner: previous,
		NewOwner:      owner,
		PieceID:       pieceID,
		TurnNumber:    turn,
	}
}

// PieceDisappearedEvent is published when a tracked piece is missing from the snapshot
type PieceDisappearedEvent struct {
	BaseEvent
	PieceID    string
	CommandID  string
	TurnNumber int
}

// NewPieceDisappearedEvent creates a new PieceDisappearedEvent
func NewPieceDisappearedEvent(matchID, pieceID, commandID string, turn int) *PieceDisappearedEvent {
	return &PieceDisappearedEvent{
		BaseEvent:  newBase(TypePieceDisappeared, matchID),
		PieceID:    pieceID,
		CommandID:  commandID,
		TurnNumber: turn,
	}
}
