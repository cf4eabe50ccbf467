package game

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// GameState is the ground truth of a simulated match
type GameState struct {
	Turn      int
	Board     *core.Board
	Pieces    map[string]*core.Piece
	Countries []string

	nextPieceID int
}

// NewGameState wraps a board with an empty piece table
func NewGameState(board *core.Board, countries []string) *GameState {
	return &GameState{
		Turn:      1,
		Board:     board,
		Pieces:    make(map[string]*core.Piece),
		Countries: countries,
	}
}

// AddPiece spawns a piece with a fresh id on the tile at
func (gs *GameState) AddPiece(t core.PieceType, country string, at core.Coordinate) *core.Piece {
	gs.nextPieceID++
	p := &core.Piece{
		ID:      fmt.Sprintf("%s-%d", country, gs.nextPieceID),
		Type:    t,
		Country: country,
		Coord:   at.Wrap(gs.Board.W, gs.Board.H),
	}
	gs.Pieces[p.ID] = p
	tile := gs.Board.TileAt(p.Coord)
	tile.Pieces = append(tile.Pieces, p.ID)
	return p
}

// MovePiece relocates a piece and keeps the tile occupant lists in sync
func (gs *GameState) MovePiece(id string, to core.Coordinate) {
	p, ok := gs.Pieces[id]
	if !ok {
		return
	}
	gs.Board.TileAt(p.Coord).RemovePiece(id)
	p.Coord = to.Wrap(gs.Board.W, gs.Board.H)
	tile := gs.Board.TileAt(p.Coord)
	tile.Pieces = append(tile.Pieces, id)
}

// RemovePiece destroys a piece
func (gs *GameState) RemovePiece(id string) {
	p, ok := gs.Pieces[id]
	if !ok {
		return
	}
	gs.Board.TileAt(p.Coord).RemovePiece(id)
	delete(gs.Pieces, id)
}

// PiecesAt returns the pieces on the tile at c, sorted by id
func (gs *GameState) PiecesAt(c core.Coordinate) []*core.Piece {
	tile := gs.Board.TileAt(c)
	out := make([]*core.Piece, 0, len(tile.Pieces))
	for _, id := range tile.Pieces {
		if p, ok := gs.Pieces[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasCountry reports whether country takes part in the match
func (gs *GameState) HasCountry(country string) bool {
	for _, c := range gs.Countries {
		if c == country {
			return true
		}
	}
	return false
}
