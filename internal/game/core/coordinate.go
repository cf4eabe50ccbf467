package core

import "fmt"

// Coordinate represents a position on the game board
type Coordinate struct {
	X, Y int
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Wrap folds the coordinate onto a width x height torus.
func (c Coordinate) Wrap(width, height int) Coordinate {
	return Coordinate{X: mod(c.X, width), Y: mod(c.Y, height)}
}

// DistanceTo calculates the plain (unwrapped) Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// WrappedDistanceTo calculates the L1 distance on a width x height torus, taking
// the shorter way around on each axis.
func (c Coordinate) WrappedDistanceTo(other Coordinate, width, height int) int {
	a, b := c.Wrap(width, height), other.Wrap(width, height)
	return axisDistance(a.X, b.X, width) + axisDistance(a.Y, b.Y, height)
}

// Distance is the single entry point for L1 distance. Callers state explicitly
// whether the board topology is applied.
func Distance(a, b Coordinate, width, height int, wrapped bool) int {
	if wrapped {
		return a.WrappedDistanceTo(b, width, height)
	}
	return a.DistanceTo(b)
}

// IsWrappedAdjacentTo checks orthogonal adjacency on the torus.
func (c Coordinate) IsWrappedAdjacentTo(other Coordinate, width, height int) bool {
	return c.WrappedDistanceTo(other, width, height) == 1
}

// Neighbors returns the four orthogonal neighbors of this coordinate
func (c Coordinate) Neighbors() []Coordinate {
	return []Coordinate{
		{X: c.X, Y: c.Y - 1}, // North
		{X: c.X + 1, Y: c.Y}, // East
		{X: c.X, Y: c.Y + 1}, // South
		{X: c.X - 1, Y: c.Y}, // West
	}
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents a cardinal direction
type Direction int

const (
	North Direction = iota
	East
	South
	West
	NoDirection Direction = -1
)

// DirectionVectors provides coordinate offsets for each direction
var DirectionVectors = map[Direction]Coordinate{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(direction Direction) Coordinate {
	if offset, ok := DirectionVectors[direction]; ok {
		return c.Add(offset)
	}
	return c
}

// StepToward returns the direction of a single axis-aligned step from c toward
// dest. The x axis is always corrected before the y axis. NoDirection is
// returned when c already equals dest.
func (c Coordinate) StepToward(dest Coordinate) Direction {
	switch {
	case dest.X > c.X:
		return East
	case dest.X < c.X:
		return West
	case dest.Y > c.Y:
		return South
	case dest.Y < c.Y:
		return North
	default:
		return NoDirection
	}
}

func axisDistance(a, b, size int) int {
	d := abs(a - b)
	if size-d < d {
		return size - d
	}
	return d
}

func mod(v, m int) int {
	if m <= 0 {
		return v
	}
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
