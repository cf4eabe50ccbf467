package rules

import "github.com/rs/zerolog"

// WinConditionChecker handles match over detection and winner determination
type WinConditionChecker struct {
	logger            zerolog.Logger
	originalCountries int
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger, originalCountries int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:            logger.With().Str("component", "win_condition").Logger(),
		originalCountries: originalCountries,
	}
}

// Country is what the checker needs to know about a country
type Country interface {
	GetName() string
	IsAlive() bool
}

// CheckMatchOver determines whether the match is over based on the countries
// still alive. The winner is "" on a draw or while the match goes on.
func (wc *WinConditionChecker) CheckMatchOver(countries []Country) (bool, string) {
	var alive []string
	for _, c := range countries {
		if c.IsAlive() {
			alive = append(alive, c.GetName())
		}
	}

	// A single-country match only ends when that country is gone
	var over bool
	if wc.originalCountries > 1 {
		over = len(alive) <= 1
	} else {
		over = len(alive) == 0
	}

	winner := ""
	if over && len(alive) == 1 && wc.originalCountries > 1 {
		winner = alive[0]
		wc.logger.Info().Str("winner", winner).Msg("Winner determined")
	} else if over {
		wc.logger.Info().Msg("No winner found (all countries eliminated)")
	}

	wc.logger.Debug().Bool("is_match_over", over).Strs("alive_countries", alive).Msg("Match over check complete")
	return over, winner
}
