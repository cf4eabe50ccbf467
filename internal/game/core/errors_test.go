package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapTurnError(t *testing.T) {
	assert.Nil(t, WrapTurnError(3, "step", nil))

	err := WrapTurnError(3, "step", ErrNoTarget)
	require.NotNil(t, err)
	assert.Equal(t, "turn 3: step: no target found", err.Error())
	assert.True(t, errors.Is(err, ErrNoTarget))

	var te *TurnError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Turn)
}

func TestWrapPieceError(t *testing.T) {
	assert.Nil(t, WrapPieceError("7", "move", nil))

	err := WrapPieceError("7", "move", ErrNotAdjacent)
	assert.Equal(t, "piece 7: move: tiles are not adjacent", err.Error())
	assert.ErrorIs(t, err, ErrNotAdjacent)
}
