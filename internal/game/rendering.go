package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var countryColors = []string{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple, ColorCyan}

var pieceSymbols = map[core.PieceType]byte{
	core.Tank:       'T',
	core.Airplane:   'A',
	core.Artillery:  'R',
	core.Helicopter: 'H',
	core.Antitank:   'X',
	core.IronDome:   'D',
	core.Bunker:     'K',
	core.Spy:        'S',
	core.Tower:      'W',
	core.Satellite:  'L',
	core.Builder:    'B',
}

// Render draws the board as viewer sees it. Tiles outside the viewer's sight
// are dimmed; an empty viewer shows the ground truth.
func (e *Engine) Render(viewer string) string {
	const (
		EmptySymbol = "·"
		FogSymbol   = "░"
	)

	b := e.gs.Board
	var visible map[int]struct{}
	if viewer != "" {
		visible = e.visibleTiles(viewer)
	}

	var sb strings.Builder
	sb.Grow((b.W*12 + 8) * (b.H + 4))

	sb.WriteString("   ")
	for x := 0; x < b.W; x++ {
		sb.WriteString(fmt.Sprintf("%2d", x))
	}
	sb.WriteString("\n")

	for y := 0; y < b.H; y++ {
		sb.WriteString(fmt.Sprintf("%2d ", y))
		for x := 0; x < b.W; x++ {
			idx := b.Idx(x, y)
			t := &b.T[idx]
			color := e.countryColor(t.Country)

			seen := true
			if visible != nil {
				_, seen = visible[idx]
			}

			var symbol string
			switch {
			case !seen:
				symbol = " " + FogSymbol
			case len(t.Pieces) > 0:
				symbol = e.occupantSymbol(t, viewer)
			default:
				symbol = " " + EmptySymbol
			}
			sb.WriteString(color + symbol + ColorReset)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for i, c := range e.gs.Countries {
		sb.WriteString(countryColors[i%len(countryColors)] + c + ColorReset + " ")
	}
	sb.WriteString(EmptySymbol + "=empty ")
	if visible != nil {
		sb.WriteString(FogSymbol + "=unseen ")
	}
	sb.WriteString("T/A/R/H/X/D/K/S/W/L/B=pieces, lowercase=enemy\n")
	return sb.String()
}

// occupantSymbol shows the first piece on the tile and a count when crowded
func (e *Engine) occupantSymbol(t *core.Tile, viewer string) string {
	pieces := e.gs.PiecesAt(t.Coord)
	if len(pieces) == 0 {
		return "  "
	}
	p := pieces[0]
	sym, ok := pieceSymbols[p.Type]
	if !ok {
		sym = '?'
	}
	if viewer != "" && p.Country != viewer {
		sym += 'a' - 'A'
	}
	count := " "
	if len(pieces) > 1 {
		count = "+"
	}
	return count + string(sym)
}

func (e *Engine) countryColor(country string) string {
	if country == "" {
		return ColorGray
	}
	for i, c := range e.gs.Countries {
		if c == country {
			return countryColors[i%len(countryColors)]
		}
	}
	return ColorWhite
}
