// Package search contains search functionality and utilities: alpha-beta/PVS search over
// board positions, transposition tables, move ordering and the quiescence search used at
// the horizon.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
)

// ErrHalted is an error indicating that the search was halted.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation for some search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) String() string {
	pv := board.FormatMoves(p.Moves, func(m board.Move) string {
		return m.String()
	})
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), pv)
}

// Context carries the search window and shared, cross-call state for one root search: the
// transposition table, leaf noise and an optional ponder line to bias move ordering.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []board.Move
	// NMPEnabled controls whether AlphaBeta applies null-move pruning. The zero value
	// (false) disables it, matching the other Context fields' zero-means-off convention.
	NMPEnabled bool
}

// Search implements search of the game tree to a given depth. Thread-safe across
// independent calls as long as b is not shared concurrently.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error)
}

// QuietSearch implements a quiescence search from the current position, used at the search
// horizon to avoid misjudging positions with pending tactics.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score)
}
