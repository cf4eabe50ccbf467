// Package command tracks long-running piece instructions across turns.
//
// The world snapshot carries no notion of in-progress work, so every command
// lives in an append-only Registry and each piece executing one is recorded in
// an IntentTable keyed by piece id.
package command

import (
	"fmt"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// State is the externally observable lifecycle state of a command.
// Pending is folded into Active: a command is created already in progress.
type State int

const (
	StateActive State = iota
	StateSucceeded
	StateFailed

	// StateNone is the from-state of the creation transition
	StateNone State = -1
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateActive:
		return "in_progress"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition is possible
func (s State) IsTerminal() bool { return s == StateSucceeded || s == StateFailed }

// Status is the report returned for a command id
type Status struct {
	CommandID string
	State     State
	// Elapsed and Estimated are meaningful only while the command is in progress.
	Elapsed   int
	Estimated int
}

func (s Status) IsInProgress() bool { return s.State == StateActive }
func (s Status) IsSuccess() bool    { return s.State == StateSucceeded }
func (s Status) IsFailed() bool     { return s.State == StateFailed }

func (s Status) String() string {
	if s.IsInProgress() {
		return fmt.Sprintf("%s %s (%d/%d)", s.CommandID, s.State, s.Elapsed, s.Elapsed+s.Estimated)
	}
	return fmt.Sprintf("%s %s", s.CommandID, s.State)
}

// Kind names the capability group a command belongs to
type Kind string

const (
	KindAttack       Kind = "attack"
	KindDefend       Kind = "defend"
	KindIntelligence Kind = "intelligence"
	KindEscort       Kind = "escort"
	KindCollect      Kind = "collect"
	KindBuild        Kind = "build"
)

// Spec describes a command at creation time
type Spec struct {
	Kind        Kind
	Pieces      []string
	Destination *core.Coordinate
	Radius      int
	Estimated   int

	// KindCollect, KindBuild
	Amount    int
	PieceType core.PieceType

	// KindEscort
	Escorted string
}
