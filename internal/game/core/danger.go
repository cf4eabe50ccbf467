package core

import "strings"

// Danger is a set of independent classification flags for one tile
type Danger uint16

const (
	DangerOurs Danger = 1 << iota
	DangerUnclaimed
	DangerEnemy
	DangerBorder
	DangerEnemyTank
	DangerEnemyAntitank
	DangerEnemyArtillery
	DangerEnemyAir
	DangerUnknownMoney
)

var dangerNames = []struct {
	flag Danger
	name string
}{
	{DangerOurs, "ours"},
	{DangerUnclaimed, "unclaimed"},
	{DangerEnemy, "enemy"},
	{DangerBorder, "border"},
	{DangerEnemyTank, "enemy_tank"},
	{DangerEnemyAntitank, "enemy_antitank"},
	{DangerEnemyArtillery, "enemy_artillery"},
	{DangerEnemyAir, "enemy_air"},
	{DangerUnknownMoney, "unknown_money"},
}

func (d Danger) Has(flag Danger) bool { return d&flag == flag }

func (d Danger) IsOurs() bool            { return d.Has(DangerOurs) }
func (d Danger) IsUnclaimed() bool       { return d.Has(DangerUnclaimed) }
func (d Danger) IsEnemy() bool           { return d.Has(DangerEnemy) }
func (d Danger) IsBorder() bool          { return d.Has(DangerBorder) }
func (d Danger) HasEnemyTank() bool      { return d.Has(DangerEnemyTank) }
func (d Danger) HasEnemyAntitank() bool  { return d.Has(DangerEnemyAntitank) }
func (d Danger) HasEnemyArtillery() bool { return d.Has(DangerEnemyArtillery) }
func (d Danger) HasEnemyAir() bool       { return d.Has(DangerEnemyAir) }
func (d Danger) IsMoneyUnknown() bool    { return d.Has(DangerUnknownMoney) }

// HasEnemyPieces reports whether any enemy piece flag is set
func (d Danger) HasEnemyPieces() bool {
	return d&(DangerEnemyTank|DangerEnemyAntitank|DangerEnemyArtillery|DangerEnemyAir) != 0
}

// Level collapses the flags into an ordinal for reporting: 0 ours, 1 unclaimed,
// 2 enemy, plus one per kind of enemy piece present.
func (d Danger) Level() int {
	level := 0
	switch {
	case d.IsEnemy():
		level = 2
	case d.IsUnclaimed():
		level = 1
	}
	return level + d.EnemyPieceKinds()
}

// EnemyPieceKinds counts the enemy piece flags that are set
func (d Danger) EnemyPieceKinds() int {
	n := 0
	for _, f := range []Danger{DangerEnemyTank, DangerEnemyAntitank, DangerEnemyArtillery, DangerEnemyAir} {
		if d.Has(f) {
			n++
		}
	}
	return n
}

func (d Danger) String() string {
	var parts []string
	for _, n := range dangerNames {
		if d.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
