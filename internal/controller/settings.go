package controller

import (
	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// Settings tunes the driver. SettingsFromConfig builds it from the loaded
// configuration; tests usually start from DefaultSettings.
type Settings struct {
	AttackCeiling          int
	FallbackCeiling        int
	ResourceWindow         int
	ResourceFallbackWindow int
	ResourceDecay          int
	ArtilleryRadius        int
	MaxTurnsInAir          int

	Costs        map[core.PieceType]int
	DefaultType  core.PieceType
	Schedule     []config.ScheduleRule
	CollectChunk int

	// AutoAssign lets the driver issue commands for idle pieces. Without it
	// only commands issued through the strategic surface run.
	AutoAssign bool
}

// DefaultSettings mirrors the configuration defaults
func DefaultSettings() Settings {
	return Settings{
		AttackCeiling:          50,
		FallbackCeiling:        100,
		ResourceWindow:         5,
		ResourceFallbackWindow: 15,
		ResourceDecay:          3,
		ArtilleryRadius:        2,
		MaxTurnsInAir:          4,
		Costs: map[core.PieceType]int{
			core.Tank:       20,
			core.Airplane:   30,
			core.Artillery:  25,
			core.Helicopter: 30,
			core.Antitank:   15,
			core.IronDome:   35,
			core.Bunker:     10,
			core.Spy:        10,
			core.Tower:      15,
			core.Satellite:  40,
			core.Builder:    20,
		},
		DefaultType: core.Tank,
		Schedule: []config.ScheduleRule{
			{Type: string(core.Builder), When: "Builders < 2"},
			{Type: string(core.Artillery), When: "Counter % 4 == 3"},
			{Type: string(core.Airplane), When: "Counter % 6 == 5"},
		},
		AutoAssign: true,
	}
}

// SettingsFromConfig converts the controller section of the configuration
func SettingsFromConfig(c config.ControllerConfig) Settings {
	return Settings{
		AttackCeiling:          c.Targeting.AttackCeiling,
		FallbackCeiling:        c.Targeting.FallbackCeiling,
		ResourceWindow:         c.Targeting.ResourceWindow,
		ResourceFallbackWindow: c.Targeting.ResourceFallbackWindow,
		ResourceDecay:          c.Targeting.ResourceDecay,
		ArtilleryRadius:        c.Targeting.ArtilleryRadius,
		MaxTurnsInAir:          c.Air.MaxTurnsInAir,
		Costs:                  c.Production.PieceCosts(),
		DefaultType:            core.PieceType(c.Production.DefaultType),
		Schedule:               c.Production.Schedule,
		CollectChunk:           c.Production.CollectChunk,
		AutoAssign:             true,
	}
}
