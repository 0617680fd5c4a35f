package mcts_test

import (
	"context"
	"testing"

	"github.com/herohde/morlockcore/pkg/board/fen"
	"github.com/herohde/morlockcore/pkg/mcts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsMateInOne(t *testing.T) {
	ctx := context.Background()

	// Rh8# is mate in one: the a8 king is boxed in by the white king on b6.
	b, err := fen.NewBoard("k7/8/1K6/8/8/8/8/7R w - - 0 1")
	require.NoError(t, err)

	result := mcts.Search(ctx, b, mcts.Config{Iterations: 50})

	assert.Equal(t, "h1", result.Move.From.String())
	assert.Equal(t, "h8", result.Move.To.String())
	assert.GreaterOrEqual(t, result.Stats.Mates, 1)
}

func TestSearchReturnsLegalMoveFromInitialPosition(t *testing.T) {
	ctx := context.Background()

	b, err := fen.NewBoard(fen.Initial)
	require.NoError(t, err)

	result := mcts.Search(ctx, b, mcts.Config{Iterations: 30, RolloutDepth: 2})

	require.NotEqual(t, "", result.Move.String())
	assert.True(t, b.PushMove(result.Move), "expected a legal move, got %v", result.Move)
	assert.Equal(t, 30, result.Stats.Iterations)
}

func TestSearchStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := fen.NewBoard(fen.Initial)
	require.NoError(t, err)

	result := mcts.Search(ctx, b, mcts.Config{Iterations: 1000})
	assert.Less(t, result.Stats.Iterations, 1000)
}
