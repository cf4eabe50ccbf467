// Package targeting decides where pieces should go: expanding ring searches
// over tile classifications, the territory mass center and resource-tile
// scoring for collectors.
package targeting

import (
	"math/rand"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// MaxRadius is the largest wrapped L1 distance reachable on a w x h torus
func MaxRadius(width, height int) int {
	return width/2 + height/2
}

// Ring returns the board coordinates whose wrapped L1 distance from center is
// exactly r. Each coordinate appears once; the order is deterministic.
func Ring(center core.Coordinate, r, width, height int) []core.Coordinate {
	if r < 0 || width <= 0 || height <= 0 {
		return nil
	}
	center = center.Wrap(width, height)
	if r == 0 {
		return []core.Coordinate{center}
	}

	seen := make(map[core.Coordinate]struct{}, 4*r)
	out := make([]core.Coordinate, 0, 4*r)
	add := func(dx, dy int) {
		c := core.Coordinate{X: center.X + dx, Y: center.Y + dy}.Wrap(width, height)
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		// On small boards a long way round can be a short way back
		if center.WrappedDistanceTo(c, width, height) != r {
			return
		}
		out = append(out, c)
	}

	for dx := -r; dx <= r; dx++ {
		rest := r - abs(dx)
		add(dx, -rest)
		if rest != 0 {
			add(dx, rest)
		}
	}
	return out
}

// Selection picks one tile out of a qualifying ring
type Selection int

const (
	// SelectClosest takes the tile nearest the reference, first wins ties
	SelectClosest Selection = iota
	// SelectRandom takes a uniformly random tile
	SelectRandom
	// SelectFarthest takes the tile farthest from the reference, first wins ties
	SelectFarthest
)

// Search is an expanding ring search. Rings of radius StartRadius..Ceiling
// around Center are scanned until one holds a tile accepted by Accept.
//
// When nothing qualifies and Fallback is set, the ring at the ceiling is
// scanned again with Fallback and the tile farthest from Reference is
// returned, so an exhausted search still yields a destination.
type Search struct {
	Width, Height int
	Center        core.Coordinate
	// Reference is the point selection distances are measured from.
	Reference core.Coordinate
	// WrappedReference measures reference distance on the torus instead of
	// as plain Manhattan distance.
	WrappedReference bool

	StartRadius int
	Ceiling     int

	Accept    func(core.Coordinate) bool
	Fallback  func(core.Coordinate) bool
	Selection Selection
	Rand      *rand.Rand
}

// Run executes the search. The boolean is false only when both passes are
// empty, which callers treat as "no target this turn".
func (s Search) Run() (core.Coordinate, bool) {
	ceiling := s.Ceiling
	if limit := MaxRadius(s.Width, s.Height); ceiling > limit {
		ceiling = limit
	}
	start := s.StartRadius
	if start < 0 {
		start = 0
	}

	if s.Accept != nil {
		for r := start; r <= ceiling; r++ {
			candidates := filter(Ring(s.Center, r, s.Width, s.Height), s.Accept)
			if len(candidates) > 0 {
				return s.pick(candidates, s.Selection), true
			}
		}
	}

	if s.Fallback == nil || ceiling < start {
		return core.Coordinate{}, false
	}
	candidates := filter(Ring(s.Center, ceiling, s.Width, s.Height), s.Fallback)
	if len(candidates) == 0 {
		return core.Coordinate{}, false
	}
	return s.pick(candidates, SelectFarthest), true
}

func (s Search) pick(candidates []core.Coordinate, sel Selection) core.Coordinate {
	if sel == SelectRandom && s.Rand != nil {
		return candidates[s.Rand.Intn(len(candidates))]
	}
	if sel == SelectRandom {
		return candidates[0]
	}

	best := candidates[0]
	bestDist := s.distance(best)
	for _, c := range candidates[1:] {
		d := s.distance(c)
		if (sel == SelectClosest && d < bestDist) || (sel == SelectFarthest && d > bestDist) {
			best, bestDist = c, d
		}
	}
	return best
}

func (s Search) distance(c core.Coordinate) int {
	return core.Distance(s.Reference, c, s.Width, s.Height, s.WrappedReference)
}

func filter(coords []core.Coordinate, keep func(core.Coordinate) bool) []core.Coordinate {
	out := coords[:0]
	for _, c := range coords {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
