package mate_test

import (
	"context"
	"testing"

	"github.com/herohde/morlockcore/pkg/board/fen"
	"github.com/herohde/morlockcore/pkg/mate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProveMateInOne(t *testing.T) {
	ctx := context.Background()

	// White to move, Rh8# is mate in one: the a8 king is boxed in by the white king on b6.
	b, err := fen.NewBoard("k7/8/1K6/8/8/8/8/7R w - - 0 1")
	require.NoError(t, err)

	result := mate.Prove(ctx, b, 1)

	d, ok := result.Score.MateDistance()
	require.True(t, ok, "expected a proven mate, got %v", result.Score)
	assert.Equal(t, 1, d)
	assert.Equal(t, "h1", result.Move.From.String())
	assert.Equal(t, "h8", result.Move.To.String())
}

func TestProveNoMateWithinBudget(t *testing.T) {
	ctx := context.Background()

	b, err := fen.NewBoard(fen.Initial)
	require.NoError(t, err)

	result := mate.Prove(ctx, b, 3)
	_, ok := result.Score.MateDistance()
	assert.False(t, ok)
}

func TestProveStalemateIsNotMate(t *testing.T) {
	ctx := context.Background()

	// Black to move, stalemated.
	b, err := fen.NewBoard("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)

	result := mate.Prove(ctx, b, 1)
	_, ok := result.Score.MateDistance()
	assert.False(t, ok)
}
