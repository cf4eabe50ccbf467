package controller

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// ScheduleEnv is the environment production schedule conditions are
// evaluated against.
type ScheduleEnv struct {
	// Counter is the global production counter: pieces built so far plus
	// builds already planned this turn.
	Counter  int
	Funds    int
	Builders int
	Pieces   int
	Turn     int
}

type scheduleRule struct {
	pieceType core.PieceType
	source    string
	program   *vm.Program
}

// ProductionPolicy chooses the piece type the next build produces and knows
// what each type costs.
type ProductionPolicy struct {
	costs       map[core.PieceType]int
	defaultType core.PieceType
	rules       []scheduleRule
}

// NewProductionPolicy compiles the schedule rules
func NewProductionPolicy(costs map[core.PieceType]int, defaultType core.PieceType, schedule []config.ScheduleRule) (*ProductionPolicy, error) {
	if _, ok := costs[defaultType]; !ok {
		return nil, fmt.Errorf("default piece type %q: %w", defaultType, core.ErrUnknownPiece)
	}
	p := &ProductionPolicy{costs: costs, defaultType: defaultType}
	for i, r := range schedule {
		t := core.PieceType(r.Type)
		if _, ok := costs[t]; !ok {
			return nil, fmt.Errorf("schedule rule %d: piece type %q has no cost", i, r.Type)
		}
		prog, err := expr.Compile(r.When, expr.Env(ScheduleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile schedule rule %d %q: %w", i, r.When, err)
		}
		p.rules = append(p.rules, scheduleRule{pieceType: t, source: r.When, program: prog})
	}
	return p, nil
}

// Next returns the type of the first rule whose condition holds, or the
// default type.
func (p *ProductionPolicy) Next(env ScheduleEnv) (core.PieceType, error) {
	for _, r := range p.rules {
		out, err := vm.Run(r.program, env)
		if err != nil {
			return p.defaultType, fmt.Errorf("schedule rule %q: %w", r.source, err)
		}
		if ok, _ := out.(bool); ok {
			return r.pieceType, nil
		}
	}
	return p.defaultType, nil
}

// Cost returns the build cost of t
func (p *ProductionPolicy) Cost(t core.PieceType) (int, bool) {
	c, ok := p.costs[t]
	return c, ok
}
