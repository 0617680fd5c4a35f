package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/morlockcore/pkg/board"
)

// Random is a randomized noise generator. It adds a small amount of randomness to leaf
// evaluations so identically-scored moves are not always resolved the same way. The limit
// specifies how many millipawns to add/remove, in the range [-limit/2; limit/2]. The zero
// value always returns zero, so it is a safe default for deterministic searches (and for
// the forced-mate prover, which must never perturb scores).
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(_ context.Context, _ *board.Board) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit)-n.limit/2) / 1000
}
