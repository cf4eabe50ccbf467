package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNotAdjacent        = errors.New("tiles are not adjacent")
	ErrOutOfRange         = errors.New("target out of weapon range")
	ErrUnknownPiece       = errors.New("unknown piece")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrRoleMismatch       = errors.New("piece role does not support this command")
	ErrNoTarget           = errors.New("no target found")
	ErrNoOwnedTiles       = errors.New("country owns no tiles")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyOrdered     = errors.New("piece already received an order this turn")
	ErrNotOwned           = errors.New("piece not owned by country")
	ErrInvalidOrder       = errors.New("order not valid for piece state")
	ErrUnknownCountry     = errors.New("unknown country")
	ErrMatchOver          = errors.New("match is over")
)

// TurnError records the turn and operation during which an error occurred
type TurnError struct {
	Turn      int
	Operation string
	Err       error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// WrapTurnError attaches turn context to err. A nil err stays nil.
func WrapTurnError(turn int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &TurnError{Turn: turn, Operation: operation, Err: err}
}

// WrapPieceError prefixes err with the piece it concerns
func WrapPieceError(pieceID string, action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("piece %s: %s: %w", pieceID, action, err)
}
