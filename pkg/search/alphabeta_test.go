package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlockcore/pkg/board/fen"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaBeta() search.AlphaBeta {
	return search.AlphaBeta{
		Eval: search.Quiescence{Eval: eval.Material{}},
	}
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	ctx := context.Background()

	// White mates with Rh8#: the a8 king is boxed in by the white king on b6.
	b, err := fen.NewBoard("k7/8/1K6/8/8/8/8/7R w - - 0 1")
	require.NoError(t, err)

	ab := newAlphaBeta()
	tt := search.NewTranspositionTable(ctx, 1<<20)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: tt}

	_, score, moves, err := ab.Search(ctx, sctx, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, moves)

	d, ok := score.MateDistance()
	assert.True(t, ok, "expected a mate score, got %v", score)
	assert.Equal(t, 1, d)
}

func TestAlphaBetaRespectsDepthLimitAndTerminates(t *testing.T) {
	ctx := context.Background()

	b, err := fen.NewBoard(fen.Initial)
	require.NoError(t, err)

	ab := newAlphaBeta()
	tt := search.NewTranspositionTable(ctx, 1<<20)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: tt}

	nodes, _, moves, err := ab.Search(ctx, sctx, b, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, moves)
	assert.Greater(t, nodes, uint64(0))
}

func TestAlphaBetaStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := fen.NewBoard(fen.Initial)
	require.NoError(t, err)

	ab := newAlphaBeta()
	tt := search.NewTranspositionTable(ctx, 1<<16)
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: tt}

	_, score, _, err := ab.Search(ctx, sctx, b, 4)
	assert.Equal(t, search.ErrHalted, err)
	assert.True(t, score.IsInvalid())
}
