package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Transition represents a phase change in the history
type Transition struct {
	From      MatchPhase
	To        MatchPhase
	Timestamp time.Time
	Reason    string
}

// Machine tracks the match phase and its transition history
type Machine struct {
	mu             sync.RWMutex
	currentPhase   MatchPhase
	history        []Transition
	maxHistorySize int
	logger         zerolog.Logger
}

// NewMachine creates a machine in PhaseSetup
func NewMachine(matchID string, logger zerolog.Logger) *Machine {
	return &Machine{
		currentPhase:   PhaseSetup,
		history:        make([]Transition, 0, 4),
		maxHistorySize: 100,
		logger:         logger.With().Str("component", "match_phase").Str("match_id", matchID).Logger(),
	}
}

// CurrentPhase returns the current match phase
func (m *Machine) CurrentPhase() MatchPhase {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (m *Machine) TransitionTo(target MatchPhase, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.currentPhase.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", m.currentPhase, target)
	}

	previous := m.currentPhase
	m.currentPhase = target
	m.history = append(m.history, Transition{
		From:      previous,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	if len(m.history) > m.maxHistorySize {
		m.history = m.history[len(m.history)-m.maxHistorySize:]
	}

	m.logger.Info().
		Str("from_phase", previous.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("Phase transition completed")
	return nil
}

// GetHistory returns a copy of the transition history
func (m *Machine) GetHistory() []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}
