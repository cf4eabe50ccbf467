package mapgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// ErrNoStartLocation is returned when a country cannot be placed
var ErrNoStartLocation = errors.New("no valid start location")

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width           int
	Height          int
	Countries       []string
	StartRegion     int // half-width of the square each country starts with
	StartBuilders   int
	MaxTileMoney    int
	MinStartSpacing int
	NoiseScale      float64
	Seed            int64
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h int, countries []string) MapConfig {
	return MapConfig{
		Width:           w,
		Height:          h,
		Countries:       countries,
		StartRegion:     2,
		StartBuilders:   2,
		MaxTileMoney:    12,
		MinStartSpacing: (w + h) / 4,
		NoiseScale:      0.15,
		Seed:            1,
	}
}

// StartPlacement records where a country starts
type StartPlacement struct {
	Country  string
	Center   core.Coordinate
	Builders []core.Coordinate
}

// Generator handles map generation with deterministic RNG and noise
type Generator struct {
	config MapConfig
	rng    *rand.Rand
	noise  opensimplex.Noise
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
		noise:  opensimplex.NewNormalized(config.Seed),
	}
}

// GenerateMap creates a board with tile money seeded and every country's
// start region claimed.
func (g *Generator) GenerateMap() (*core.Board, []StartPlacement, error) {
	if g.config.Width <= 0 || g.config.Height <= 0 {
		return nil, nil, fmt.Errorf("map size %dx%d: %w", g.config.Width, g.config.Height, core.ErrInvalidCoordinates)
	}
	board := core.NewBoard(g.config.Width, g.config.Height)

	g.seedMoney(board)
	placements, err := g.placeCountries(board)
	if err != nil {
		return nil, nil, err
	}
	return board, placements, nil
}

// seedMoney fills every tile from layered noise so rich and poor areas cluster
func (g *Generator) seedMoney(b *core.Board) {
	for i := range b.T {
		t := &b.T[i]
		x := float64(t.Coord.X) * g.config.NoiseScale
		y := float64(t.Coord.Y) * g.config.NoiseScale
		v := octaveNoise(g.noise, x, y, 3, 1.0, 0.5)
		t.Money = int(math.Round(v * float64(g.config.MaxTileMoney)))
		t.MoneyKnown = true
	}
}

func (g *Generator) placeCountries(b *core.Board) ([]StartPlacement, error) {
	placements := make([]StartPlacement, 0, len(g.config.Countries))

	for _, country := range g.config.Countries {
		center, err := g.findStartLocation(b, placements)
		if err != nil {
			return nil, fmt.Errorf("place %s: %w", country, err)
		}
		region := g.claimRegion(b, country, center)
		placements = append(placements, StartPlacement{
			Country:  country,
			Center:   center,
			Builders: g.builderSpots(region, center, b),
		})
	}
	return placements, nil
}

func (g *Generator) findStartLocation(b *core.Board, existing []StartPlacement) (core.Coordinate, error) {
	maxAttempts := b.W * b.H

	for attempts := 0; attempts < maxAttempts; attempts++ {
		c := core.Coordinate{X: g.rng.Intn(b.W), Y: g.rng.Intn(b.H)}
		if !b.TileAt(c).IsUnclaimed() {
			continue
		}

		valid := true
		for _, other := range existing {
			if c.WrappedDistanceTo(other.Center, b.W, b.H) < g.config.MinStartSpacing {
				valid = false
				break
			}
		}
		if valid {
			return c, nil
		}
	}

	// Spacing could not be honored; any unclaimed tile will do
	for i := range b.T {
		if b.T[i].IsUnclaimed() {
			return b.T[i].Coord, nil
		}
	}
	return core.Coordinate{}, ErrNoStartLocation
}

// claimRegion hands the unclaimed tiles of the square around center to country
func (g *Generator) claimRegion(b *core.Board, country string, center core.Coordinate) []core.Coordinate {
	r := g.config.StartRegion
	var region []core.Coordinate
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c := core.Coordinate{X: center.X + dx, Y: center.Y + dy}.Wrap(b.W, b.H)
			t := b.TileAt(c)
			if !t.IsUnclaimed() || containsCoord(region, c) {
				continue
			}
			t.Country = country
			region = append(region, c)
		}
	}
	return region
}

// builderSpots spreads the starting builders over the region, closest to the
// center first.
func (g *Generator) builderSpots(region []core.Coordinate, center core.Coordinate, b *core.Board) []core.Coordinate {
	if len(region) == 0 || g.config.StartBuilders <= 0 {
		return nil
	}
	sorted := make([]core.Coordinate, len(region))
	copy(sorted, region)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WrappedDistanceTo(center, b.W, b.H) < sorted[j].WrappedDistanceTo(center, b.W, b.H)
	})

	spots := make([]core.Coordinate, g.config.StartBuilders)
	for i := range spots {
		spots[i] = sorted[i%len(sorted)]
	}
	return spots
}

// octaveNoise layers several frequencies of normalized noise; the result stays in [0, 1]
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func containsCoord(cs []core.Coordinate, c core.Coordinate) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}
