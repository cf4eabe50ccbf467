package game

import (
	"github.com/rs/zerolog"
)

// ProductionManager regrows money on owned tiles
type ProductionManager struct {
	growth   int
	maxMoney int
	logger   zerolog.Logger
}

// NewProductionManager creates a new production manager
func NewProductionManager(growth, maxMoney int, logger zerolog.Logger) *ProductionManager {
	return &ProductionManager{
		growth:   growth,
		maxMoney: maxMoney,
		logger:   logger.With().Str("component", "production_manager").Logger(),
	}
}

// ProcessTurnProduction adds growth to every owned tile, capped at the maximum
// tile money, and returns the total added.
func (pm *ProductionManager) ProcessTurnProduction(gs *GameState) int {
	if pm.growth <= 0 {
		return 0
	}
	total := 0
	perCountry := make(map[string]int)

	for i := range gs.Board.T {
		t := &gs.Board.T[i]
		if t.IsUnclaimed() || t.Money >= pm.maxMoney {
			continue
		}
		added := min(pm.growth, pm.maxMoney-t.Money)
		t.Money += added
		total += added
		perCountry[t.Country] += added
	}

	ev := pm.logger.Debug().Int("turn", gs.Turn).Int("total_growth", total)
	for country, n := range perCountry {
		ev = ev.Int(country, n)
	}
	ev.Msg("Turn production complete")
	return total
}
