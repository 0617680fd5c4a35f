// Package mate implements an exact forced-mate prover: a depth-limited search that proves
// or disproves a forced checkmate, as opposed to alpha-beta's best-move heuristic search.
package mate

import (
	"context"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Result is the outcome of a mate search: a proven forced mate, a proven non-mate
// (stalemate or a refutation found within budget), or unknown (budget exhausted without a
// decision either way -- reported the same as a proven non-mate, since the prover never
// guesses).
type Result struct {
	Score eval.Score // mate-sentinel convention: positive Mate-distance iff proven
	Move  board.Move // first move of the mating line, iff proven
	Nodes uint64
}

// Prove runs an exact forced-mate search from b's current position to at most maxDepth
// plies. At the side to move's ply, only checking moves are considered, since any
// non-checking move cannot be part of a forced mating sequence; at the opponent's ply every
// legal reply is considered, since a mate must survive every defense.
func Prove(ctx context.Context, b *board.Board, maxDepth int) Result {
	p := &prover{b: b}
	score, move := p.search(ctx, maxDepth, true)
	return Result{Score: score, Move: move, Nodes: p.nodes}
}

type prover struct {
	b     *board.Board
	nodes uint64
}

// search returns the mate-sentinel score for the mover at this node, along with the move
// that achieves it. attackingPly is true at the side to move's turn, where only checking
// moves are tried; it alternates with each ply. depthLeft is the number of plies still
// available to search; a position that is not yet decided at depthLeft 0 is unknown.
func (p *prover) search(ctx context.Context, depthLeft int, attackingPly bool) (eval.Score, board.Move) {
	if contextx.IsCancelled(ctx) || depthLeft < 0 {
		return eval.ZeroScore, board.Move{}
	}

	p.nodes++

	turn := p.b.Turn()
	inCheck := p.b.Position().IsChecked(turn)

	var (
		hasLegalMove bool
		found        bool
		bestScore    eval.Score
		bestMove     board.Move
	)

	for _, m := range p.b.Position().PseudoLegalMoves(turn) {
		if !p.b.PushMove(m) {
			continue // skip: not legal
		}
		hasLegalMove = true

		checking := p.b.Position().IsChecked(p.b.Turn())
		if attackingPly && !checking {
			p.b.PopMove()
			continue // restrict the mover's ply to checking moves only
		}

		score, _ := p.search(ctx, depthLeft-1, !attackingPly)
		score = eval.IncrementMateDistance(score).Negate()
		p.b.PopMove()

		if attackingPly {
			if !isWinningMate(score) {
				continue // this checking move does not force mate
			}
		} else if !isLosingMate(score) {
			return eval.ZeroScore, board.Move{} // this single reply escapes: refuted
		}

		if !found || bestScore.Less(score) {
			bestScore, bestMove, found = score, m, true
		}
	}

	if !hasLegalMove {
		if inCheck {
			return eval.MateIn(0, false), board.Move{} // the mover has just been mated
		}
		return eval.ZeroScore, board.Move{} // stalemate: proven non-mate
	}
	if attackingPly && !found {
		return eval.ZeroScore, board.Move{} // no checking move forces mate within budget
	}
	return bestScore, bestMove
}

func isWinningMate(s eval.Score) bool {
	_, ok := s.MateDistance()
	return ok && s > 0
}

func isLosingMate(s eval.Score) bool {
	_, ok := s.MateDistance()
	return ok && s < 0
}
