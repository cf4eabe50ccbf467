package core

// Tile represents a single cell on the map.
// Country: "" means unclaimed.
// Money: balance on the tile, meaningful only when MoneyKnown is set.
// Pieces: ids of the pieces standing on the tile.
type Tile struct {
	Coord      Coordinate
	Country    string
	Money      int
	MoneyKnown bool
	Pieces     []string
}

// Board is a width x height torus of tiles stored in row-major order
type Board struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

func (t *Tile) IsUnclaimed() bool            { return t.Country == "" }
func (t *Tile) IsOwnedBy(country string) bool { return country != "" && t.Country == country }

// KnownMoney returns the tile balance and whether it is known to the observer
func (t *Tile) KnownMoney() (int, bool) { return t.Money, t.MoneyKnown }

// RemovePiece drops the piece id from the tile occupant list
func (t *Tile) RemovePiece(id string) {
	for i, p := range t.Pieces {
		if p == id {
			t.Pieces = append(t.Pieces[:i], t.Pieces[i+1:]...)
			return
		}
	}
}

func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, T: make([]Tile, w*h)}
	for i := range b.T {
		// All tiles start unclaimed with unknown money
		b.T[i].Coord = FromIndex(i, w)
	}
	return b
}

func (b *Board) Idx(x, y int) int { return y*b.W + x }

// TileAt returns the tile at c after wrapping it onto the board
func (b *Board) TileAt(c Coordinate) *Tile {
	w := c.Wrap(b.W, b.H)
	return &b.T[w.ToIndex(b.W)]
}

// TilesOf returns the coordinates of every tile owned by country, in row-major
// order. An empty country name selects unclaimed tiles.
func (b *Board) TilesOf(country string) []Coordinate {
	var out []Coordinate
	for i := range b.T {
		if b.T[i].Country == country {
			out = append(out, b.T[i].Coord)
		}
	}
	return out
}
