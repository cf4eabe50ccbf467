package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type country struct {
	name  string
	alive bool
}

func (c country) GetName() string { return c.name }
func (c country) IsAlive() bool   { return c.alive }

func TestCheckMatchOver(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		countries  []Country
		wantOver   bool
		wantWinner string
	}{
		{
			name:      "both alive",
			original:  2,
			countries: []Country{country{"blue", true}, country{"red", true}},
		},
		{
			name:       "one left",
			original:   2,
			countries:  []Country{country{"blue", true}, country{"red", false}},
			wantOver:   true,
			wantWinner: "blue",
		},
		{
			name:      "draw",
			original:  2,
			countries: []Country{country{"blue", false}, country{"red", false}},
			wantOver:  true,
		},
		{
			name:      "solo match keeps running",
			original:  1,
			countries: []Country{country{"blue", true}},
		},
		{
			name:      "solo match lost",
			original:  1,
			countries: []Country{country{"blue", false}},
			wantOver:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := NewWinConditionChecker(zerolog.Nop(), tt.original)
			over, winner := wc.CheckMatchOver(tt.countries)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantWinner, winner)
		})
	}
}
