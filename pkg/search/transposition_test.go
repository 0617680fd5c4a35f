package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable(t *testing.T) {
	ctx := context.Background()

	// (1) Test that we round size down to a power of two, bucketed entries.

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())
	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())

	// (2) Test probe/store.

	a := board.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Probe(a)
	assert.False(t, ok)

	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}
	s := eval.Score(2)
	tt.Store(a, search.ExactBound, 2, s, m)

	bound, depth, score, move, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 2, depth)
	assert.Equal(t, s, score)
	assert.Equal(t, m, move)

	_, _, _, _, ok = tt.Probe(a ^ 0xff0000)
	assert.False(t, ok)

	// (3) A strictly deeper same-generation entry in the bucket is not evicted by a
	// shallower store of a different position.

	b := board.ZobristHash(rand.Uint64())
	tt.Store(b, search.ExactBound, 9, eval.Score(5), m)
	tt.Store(board.ZobristHash(rand.Uint64()), search.ExactBound, 1, eval.Score(5), m)

	_, depth, _, _, ok = tt.Probe(b)
	assert.True(t, ok)
	assert.Equal(t, 9, depth)
}

func TestNoTranspositionTable(t *testing.T) {
	var tt search.NoTranspositionTable
	_, _, _, _, ok := tt.Probe(board.ZobristHash(1))
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tt.Size())
}
