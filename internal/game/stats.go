package game

import "github.com/mitchelldurbincs/TacticalCommander/internal/game/core"

// CountryStats summarizes one country at the end of a turn
type CountryStats struct {
	Country   string
	Tiles     int
	TileMoney int // money lying on owned tiles
	Funds     int // money carried by builders
	Pieces    int
	ByType    map[core.PieceType]int
}

// GetName implements rules.Country
func (s CountryStats) GetName() string { return s.Country }

// IsAlive reports whether the country still holds tiles or pieces
func (s CountryStats) IsAlive() bool { return s.Tiles > 0 || s.Pieces > 0 }

// updateCountryStats recalculates every country from a full scan
func (e *Engine) updateCountryStats() {
	index := make(map[string]int, len(e.gs.Countries))
	stats := make([]CountryStats, len(e.gs.Countries))
	for i, c := range e.gs.Countries {
		index[c] = i
		stats[i] = CountryStats{Country: c, ByType: make(map[core.PieceType]int)}
	}

	for _, t := range e.gs.Board.T {
		if i, ok := index[t.Country]; ok {
			stats[i].Tiles++
			stats[i].TileMoney += t.Money
		}
	}
	for _, p := range e.gs.Pieces {
		i, ok := index[p.Country]
		if !ok {
			continue
		}
		stats[i].Pieces++
		stats[i].ByType[p.Type]++
		stats[i].Funds += p.Money
	}

	e.stats = stats
	e.logger.Debug().Int("countries", len(stats)).Msg("Country stats updated")
}

// Stats returns the statistics of every country in configuration order
func (e *Engine) Stats() []CountryStats {
	out := make([]CountryStats, len(e.stats))
	copy(out, e.stats)
	return out
}

// StatsOf returns the statistics of one country
func (e *Engine) StatsOf(country string) (CountryStats, bool) {
	for _, s := range e.stats {
		if s.Country == country {
			return s, true
		}
	}
	return CountryStats{}, false
}
