package states

import "fmt"

// MatchPhase is the lifecycle phase of a simulated match
type MatchPhase int

const (
	// PhaseSetup - map generation and country placement
	PhaseSetup MatchPhase = iota

	// PhaseRunning - orders are accepted and turns are processed
	PhaseRunning

	// PhaseEnded - a winner was found or the match was stopped
	PhaseEnded

	// PhaseError - setup or a turn failed
	PhaseError
)

// String returns the string representation of a MatchPhase
func (p MatchPhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveOrders returns true if countries may queue orders in this phase
func (p MatchPhase) CanReceiveOrders() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseSetup:
		return []MatchPhase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []MatchPhase{PhaseEnded, PhaseError}
	default:
		return []MatchPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
