package search

import (
	"context"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/see"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// maxQuiescencePly bounds quiescence recursion so a long forcing sequence cannot make the
// search non-terminating.
const maxQuiescencePly = 32

// Quiescence implements a configurable alpha-beta quiescence search: captures and
// promotions only, SEE-pruned, with a stand-pat cutoff against the static evaluation.
type Quiescence struct {
	Explore Exploration
	Eval    eval.Evaluator
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score) {
	run := &runQuiescence{explore: fullIfNotSet(q.Explore), eval: q.Eval, b: b}

	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score := run.search(ctx, 0, low, high)
	return run.nodes, score
}

type runQuiescence struct {
	explore Exploration
	eval    eval.Evaluator
	b       *board.Board
	nodes   uint64
}

// search returns the positive score for the mover.
func (r *runQuiescence) search(ctx context.Context, ply int, alpha, beta eval.Score) eval.Score {
	if contextx.IsCancelled(ctx) {
		return eval.ZeroScore
	}
	if r.b.Result().Outcome == board.Draw {
		return eval.ZeroScore
	}

	r.nodes++

	turn := r.b.Turn()
	inCheck := r.b.Position().IsChecked(turn)

	standPat := r.eval.Evaluate(ctx, r.b)
	if !inCheck {
		if beta.Less(standPat) || beta == standPat {
			return standPat
		}
		alpha = eval.Max(alpha, standPat)
	}

	if ply >= maxQuiescencePly {
		return alpha
	}

	hasLegalMoves := false
	_, explore := r.explore(ctx, r.b)

	moves := board.NewMoveList(r.b.Position().PseudoLegalMoves(turn), MVVLVA)
	for {
		m, ok := moves.Next()
		if !ok {
			break
		}

		// Only consider captures/promotions (and, while in check, any legal evasion) --
		// never quiet moves. Losing captures are SEE-pruned.
		tactical := m.Type.IsCapture() || m.Type.IsPromotion()
		if !inCheck && !tactical {
			continue
		}
		if !inCheck && !explore(m) {
			continue
		}
		if tactical && see.Evaluate(r.b.Position(), turn, m) < 0 {
			continue
		}

		if !r.b.PushMove(m) {
			continue // skip: not legal
		}
		hasLegalMoves = true

		score := r.search(ctx, ply+1, beta.Negate(), alpha.Negate())
		score = eval.IncrementMateDistance(score).Negate()
		alpha = eval.Max(alpha, score)

		r.b.PopMove()

		if alpha == beta || beta.Less(alpha) {
			break // cutoff
		}
	}

	if inCheck && !hasLegalMoves {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MateIn(0, false)
		}
		return eval.ZeroScore
	}
	return alpha
}
