package testutil

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

var _ world.Turn = (*World)(nil)

// Order is one call recorded by a World
type Order struct {
	PieceID   string
	Kind      string
	To        core.Coordinate
	Amount    int
	PieceType core.PieceType
	On        bool
}

// World is a scripted world.Turn for controller tests. Orders are recorded but
// not applied; tests mutate the fixture between turns themselves.
type World struct {
	Board     *core.Board
	Me        string
	Others    []string
	Pieces    map[string]*core.Piece
	TurnCount int

	Orders  []Order
	ordered map[string]bool
	// Reject makes every order for the listed piece ids fail with the error.
	Reject map[string]error
}

// NewWorld creates a w x h board with every tile unclaimed and money unknown
func NewWorld(w, h int, me string) *World {
	return &World{
		Board:   core.NewBoard(w, h),
		Me:      me,
		Pieces:  make(map[string]*core.Piece),
		ordered: make(map[string]bool),
		Reject:  make(map[string]error),
	}
}

// Own assigns tiles to country with known money
func (w *World) Own(country string, money int, coords ...core.Coordinate) *World {
	for _, c := range coords {
		t := w.Board.TileAt(c)
		t.Country = country
		t.Money = money
		t.MoneyKnown = true
	}
	if country != w.Me && country != "" && !contains(w.Others, country) {
		w.Others = append(w.Others, country)
	}
	return w
}

// OwnRect assigns the inclusive rectangle (x0,y0)-(x1,y1) to country
func (w *World) OwnRect(country string, money, x0, y0, x1, y1 int) *World {
	var coords []core.Coordinate
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			coords = append(coords, core.Coordinate{X: x, Y: y})
		}
	}
	return w.Own(country, money, coords...)
}

// SetMoney makes the tile money known and sets it
func (w *World) SetMoney(c core.Coordinate, money int) *World {
	t := w.Board.TileAt(c)
	t.Money = money
	t.MoneyKnown = true
	return w
}

// AddPiece places a piece on the board
func (w *World) AddPiece(id string, typ core.PieceType, country string, at core.Coordinate) *core.Piece {
	at = at.Wrap(w.Board.W, w.Board.H)
	p := &core.Piece{ID: id, Type: typ, Country: country, Coord: at}
	w.Pieces[id] = p
	t := w.Board.TileAt(at)
	t.Pieces = append(t.Pieces, id)
	return p
}

// MovePiece relocates a piece
func (w *World) MovePiece(id string, to core.Coordinate) {
	p := w.Pieces[id]
	w.Board.TileAt(p.Coord).RemovePiece(id)
	p.Coord = to.Wrap(w.Board.W, w.Board.H)
	t := w.Board.TileAt(p.Coord)
	t.Pieces = append(t.Pieces, id)
}

// RemovePiece deletes a piece as if it was destroyed or left sight
func (w *World) RemovePiece(id string) {
	if p, ok := w.Pieces[id]; ok {
		w.Board.TileAt(p.Coord).RemovePiece(id)
		delete(w.Pieces, id)
	}
}

// NextTurn advances the turn counter and clears the recorded orders
func (w *World) NextTurn() {
	w.TurnCount++
	w.Orders = nil
	clear(w.ordered)
}

// OrdersFor returns the orders recorded for one piece this turn
func (w *World) OrdersFor(pieceID string) []Order {
	var out []Order
	for _, o := range w.Orders {
		if o.PieceID == pieceID {
			out = append(out, o)
		}
	}
	return out
}

func (w *World) Turn() int   { return w.TurnCount }
func (w *World) Width() int  { return w.Board.W }
func (w *World) Height() int { return w.Board.H }

func (w *World) MyCountry() string { return w.Me }

func (w *World) Countries() []string {
	out := append([]string{w.Me}, w.Others...)
	sort.Strings(out)
	return out
}

func (w *World) Tile(c core.Coordinate) *core.Tile { return w.Board.TileAt(c) }

func (w *World) TilesOf(country string) []core.Coordinate { return w.Board.TilesOf(country) }

func (w *World) MyPieces() map[string]*core.Piece {
	out := make(map[string]*core.Piece)
	for id, p := range w.Pieces {
		if p.Country == w.Me {
			out[id] = p
		}
	}
	return out
}

func (w *World) AllPieces() map[string]*core.Piece { return w.Pieces }

func (w *World) Move(pieceID string, to core.Coordinate) error {
	return w.record(Order{PieceID: pieceID, Kind: "move", To: to})
}

func (w *World) Attack(pieceID string) error {
	return w.record(Order{PieceID: pieceID, Kind: "attack"})
}

func (w *World) AttackAt(pieceID string, target core.Coordinate) error {
	return w.record(Order{PieceID: pieceID, Kind: "attack_at", To: target})
}

func (w *World) CollectMoney(pieceID string, amount int) error {
	return w.record(Order{PieceID: pieceID, Kind: "collect", Amount: amount})
}

func (w *World) Build(pieceID string, pieceType core.PieceType) error {
	return w.record(Order{PieceID: pieceID, Kind: "build", PieceType: pieceType})
}

func (w *World) TakeOff(pieceID string) error {
	return w.record(Order{PieceID: pieceID, Kind: "take_off"})
}

func (w *World) Land(pieceID string) error {
	return w.record(Order{PieceID: pieceID, Kind: "land"})
}

func (w *World) SetProtection(pieceID string, on bool) error {
	return w.record(Order{PieceID: pieceID, Kind: "protect", On: on})
}

func (w *World) record(o Order) error {
	if _, ok := w.Pieces[o.PieceID]; !ok {
		return fmt.Errorf("order %s: %w", o.Kind, core.ErrUnknownPiece)
	}
	if err := w.Reject[o.PieceID]; err != nil {
		return err
	}
	if w.ordered[o.PieceID] {
		return core.ErrAlreadyOrdered
	}
	w.ordered[o.PieceID] = true
	w.Orders = append(w.Orders, o)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
