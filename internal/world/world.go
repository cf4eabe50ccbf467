// Package world defines the per-turn view of the game that the controller
// consumes. The game server or a simulation provides the implementation.
package world

import "github.com/mitchelldurbincs/TacticalCommander/internal/game/core"

// Snapshot is the read-only state of the world for one turn.
type Snapshot interface {
	Turn() int
	Width() int
	Height() int
	MyCountry() string
	Countries() []string

	// Tile returns the tile at c, wrapped onto the board.
	Tile(c core.Coordinate) *core.Tile
	// TilesOf lists the coordinates owned by country. "" selects unclaimed tiles.
	TilesOf(country string) []core.Coordinate

	// MyPieces maps piece ids to pieces owned by MyCountry.
	MyPieces() map[string]*core.Piece
	// AllPieces maps piece ids to every piece visible this turn.
	AllPieces() map[string]*core.Piece
}

// Orders are the mutation entry points, one call per piece per turn.
// Implementations return core.ErrAlreadyOrdered on a second call for the same piece.
type Orders interface {
	Move(pieceID string, to core.Coordinate) error
	// Attack attacks the tile the piece stands on (tank, airplane).
	Attack(pieceID string) error
	// AttackAt attacks a tile within the piece's weapon range (artillery, helicopter).
	AttackAt(pieceID string, target core.Coordinate) error
	CollectMoney(pieceID string, amount int) error
	Build(pieceID string, pieceType core.PieceType) error
	TakeOff(pieceID string) error
	Land(pieceID string) error
	SetProtection(pieceID string, on bool) error
}

// Turn is what the controller receives each turn.
type Turn interface {
	Snapshot
	Orders
}
