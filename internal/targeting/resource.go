package targeting

import (
	"math/rand"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/world"
)

// Claims is the per-turn shared resource state of all collectors: which tile
// each collector has taken and how much money has already been promised from
// each tile. It must be reset at the start of every turn.
type Claims struct {
	owner map[core.Coordinate]string
	taken map[core.Coordinate]int
}

// NewClaims creates empty claims
func NewClaims() *Claims {
	return &Claims{
		owner: make(map[core.Coordinate]string),
		taken: make(map[core.Coordinate]int),
	}
}

// Reset forgets every claim
func (c *Claims) Reset() {
	clear(c.owner)
	clear(c.taken)
}

// Claim records that pieceID collects amount from the tile at. The first
// claimer of a tile keeps it.
func (c *Claims) Claim(at core.Coordinate, pieceID string, amount int) {
	if _, ok := c.owner[at]; !ok {
		c.owner[at] = pieceID
	}
	if amount > 0 {
		c.taken[at] += amount
	}
}

// ClaimedBy returns the collector holding the tile
func (c *Claims) ClaimedBy(at core.Coordinate) (string, bool) {
	id, ok := c.owner[at]
	return id, ok
}

// Available reports whether pieceID may still use the tile at
func (c *Claims) Available(at core.Coordinate, pieceID string) bool {
	id, ok := c.owner[at]
	return !ok || id == pieceID
}

// Taken returns the money already promised from the tile this turn
func (c *Claims) Taken(at core.Coordinate) int { return c.taken[at] }

// Residual returns the tile's known money minus what was taken this turn.
// Unknown money counts as nothing.
func (c *Claims) Residual(tile *core.Tile) int {
	money, known := tile.KnownMoney()
	if !known {
		return 0
	}
	if r := money - c.taken[tile.Coord]; r > 0 {
		return r
	}
	return 0
}

// Len returns the number of claimed tiles
func (c *Claims) Len() int { return len(c.owner) }

// Source says which pass of ResourceScorer.Best produced a destination
type Source int

const (
	SourceScored Source = iota
	SourceFallback
	SourceMassCenter
)

func (s Source) String() string {
	switch s {
	case SourceScored:
		return "scored"
	case SourceFallback:
		return "fallback"
	case SourceMassCenter:
		return "mass_center"
	default:
		return "unknown"
	}
}

// ResourceScorer picks the tile a collector should draw money from.
//
// Candidate tiles are owned by the controlled country, hold positive residual
// money and are not claimed by another collector. Within Window rings the
// score is residual - Decay*(r-1); ties are broken uniformly at random. With
// no positive score the scan widens to FallbackWindow ignoring decay, and
// finally settles on the territory mass center. Tiles whose reported Danger
// carries enemy pieces are never candidates.
type ResourceScorer struct {
	Window         int
	FallbackWindow int
	Decay          int
	Rand           *rand.Rand
	Danger         Overrides
}

// Score is the decayed value of residual money found r rings away
func (rs ResourceScorer) Score(residual, r int) int {
	return residual - rs.Decay*(r-1)
}

// Best returns the destination for collector standing at from. The only error
// is core.ErrNoOwnedTiles when the mass center is needed and the country holds
// no tiles.
func (rs ResourceScorer) Best(s world.Snapshot, from core.Coordinate, collectorID string, claims *Claims) (core.Coordinate, Source, error) {
	w, h := s.Width(), s.Height()
	limit := MaxRadius(w, h)
	me := s.MyCountry()

	candidate := func(c core.Coordinate) (int, bool) {
		tile := s.Tile(c)
		if tile == nil || !tile.IsOwnedBy(me) || !claims.Available(tile.Coord, collectorID) {
			return 0, false
		}
		if reported, ok := rs.Danger[tile.Coord]; ok && reported.HasEnemyPieces() {
			return 0, false
		}
		residual := claims.Residual(tile)
		return residual, residual > 0
	}

	var ties []core.Coordinate
	best := 0
	for r := 0; r <= rs.Window && r <= limit; r++ {
		for _, c := range Ring(from, r, w, h) {
			residual, ok := candidate(c)
			if !ok {
				continue
			}
			score := rs.Score(residual, r)
			switch {
			case score <= 0 || score < best:
			case score > best:
				best, ties = score, append(ties[:0], c)
			default:
				ties = append(ties, c)
			}
		}
	}
	if len(ties) > 0 {
		return rs.choose(ties), SourceScored, nil
	}

	best = 0
	for r := 0; r <= rs.FallbackWindow && r <= limit; r++ {
		for _, c := range Ring(from, r, w, h) {
			residual, ok := candidate(c)
			if !ok || residual < best {
				continue
			}
			if residual > best {
				best, ties = residual, ties[:0]
			}
			ties = append(ties, c)
		}
	}
	if len(ties) > 0 {
		return rs.choose(ties), SourceFallback, nil
	}

	center, err := TerritoryCenter(s)
	if err != nil {
		return core.Coordinate{}, SourceMassCenter, err
	}
	return center, SourceMassCenter, nil
}

func (rs ResourceScorer) choose(ties []core.Coordinate) core.Coordinate {
	if len(ties) == 1 || rs.Rand == nil {
		return ties[0]
	}
	return ties[rs.Rand.Intn(len(ties))]
}
