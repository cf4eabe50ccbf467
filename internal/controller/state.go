package controller

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/targeting"
)

// State is everything the driver carries between turns. The registry, the
// intent tables and the production counter persist for the whole match; Turn
// holds shared per-turn state and is reset at the start of every turn.
type State struct {
	Registry *command.Registry

	Movers        *command.IntentTable
	AreaAttackers *command.IntentTable
	Collectors    *command.IntentTable
	Producers     *command.IntentTable

	// Built counts build orders accepted by the world over the whole match.
	Built int

	Turn TurnState
}

// TurnState is shared by every piece evaluated within one turn. Evaluation
// order matters: the first collector to claim a tile keeps it.
type TurnState struct {
	Claims *targeting.Claims
	// Reserved holds build commands planned this turn whose order has not
	// been accepted yet.
	Reserved map[string]bool
	// Advanced holds the commands already advanced this turn.
	Advanced map[string]bool
	// Ordered holds the pieces that already received an order this turn.
	Ordered map[string]bool
	Orders  int
}

// NewState creates the state for a new match
func NewState(registry *command.Registry) *State {
	s := &State{
		Registry:      registry,
		Movers:        command.NewIntentTable("mover"),
		AreaAttackers: command.NewIntentTable("area_attacker"),
		Collectors:    command.NewIntentTable("collector"),
		Producers:     command.NewIntentTable("producer"),
	}
	s.Turn.Claims = targeting.NewClaims()
	s.Turn.Reserved = make(map[string]bool)
	s.Turn.Advanced = make(map[string]bool)
	s.Turn.Ordered = make(map[string]bool)
	return s
}

// Reset clears the per-turn state
func (t *TurnState) Reset() {
	t.Claims.Reset()
	clear(t.Reserved)
	clear(t.Advanced)
	clear(t.Ordered)
	t.Orders = 0
}

// Counter is the production counter: builds accepted over the match plus
// builds planned this turn.
func (s *State) Counter() int { return s.Built + len(s.Turn.Reserved) }

// Tables returns the intent tables in evaluation order
func (s *State) Tables() []*command.IntentTable {
	return []*command.IntentTable{s.Producers, s.Collectors, s.AreaAttackers, s.Movers}
}

// IntentOf finds the piece in any table
func (s *State) IntentOf(pieceID string) (command.Intent, *command.IntentTable, bool) {
	for _, t := range s.Tables() {
		if in, ok := t.Get(pieceID); ok {
			return in, t, true
		}
	}
	return command.Intent{}, nil, false
}

// Members returns the pieces still executing commandID across all tables
func (s *State) Members(commandID string) []string {
	var out []string
	for _, t := range s.Tables() {
		out = append(out, t.PiecesOf(commandID)...)
	}
	return out
}

// Assignments maps piece id to command id across all tables for the given
// command kinds. No kinds selects every kind.
func (s *State) Assignments(kinds ...command.Kind) map[string]string {
	out := make(map[string]string)
	for _, t := range s.Tables() {
		for _, in := range t.Intents() {
			if len(kinds) == 0 || containsKind(kinds, in.Kind) {
				out[in.PieceID] = in.CommandID
			}
		}
	}
	return out
}

func containsKind(kinds []command.Kind, k command.Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}
