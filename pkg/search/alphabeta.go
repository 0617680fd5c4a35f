package search

import (
	"context"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/see"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// nullMoveReduction is the depth reduction R applied to the reduced-depth search that
// follows a null move.
const nullMoveReduction = 2

// maxExtensions bounds the total check-extension budget along a single search path, so a
// long series of checks cannot make the search non-terminating in practice.
const maxExtensions = 16

// AlphaBeta implements principal variation search (PVS) with null-move pruning, killer
// moves, the history heuristic and SEE-ordered captures on top of plain alpha-beta.
// Pseudo-code (plain alpha-beta):
//
// function alphabeta(node, depth, α, β, maximizingPlayer) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	if maximizingPlayer then
//	    value := −∞
//	    for each child of node do
//	        value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
//	        α := max(α, value)
//	        if α ≥ β then
//	            break (* β cutoff *)
//	    return value
//	else
//	    value := +∞
//	    for each child of node do
//	        value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
//	        β := min(β, value)
//	        if β ≤ α then
//	            break (* α cutoff *)
//	    return value
//
// See: https://en.wikipedia.org/wiki/Alpha–beta_pruning and
// https://en.wikipedia.org/wiki/Principal_variation_search.
type AlphaBeta struct {
	Explore Exploration
	Eval    QuietSearch
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	run := &runAlphaBeta{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		tt:      sctx.TT,
		noise:   sctx.Noise,
		nmp:     sctx.NMPEnabled,
		ponder:  sctx.Ponder,
		b:       b,
		killers: map[int][2]board.Move{},
		history: map[board.Square]map[board.Square]int{},
	}
	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score, moves := run.search(ctx, depth, 0, low, high, maxExtensions)
	if contextx.IsCancelled(ctx) {
		return 0, eval.InvalidScore, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runAlphaBeta struct {
	explore Exploration
	eval    QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	nmp     bool
	b       *board.Board
	nodes   uint64

	ponder  []board.Move
	killers map[int][2]board.Move          // ply -> 2 killer-move slots
	history map[board.Square]map[board.Square]int // from -> to -> cutoff weight
}

// search returns the positive score for the mover, and the principal variation below this
// node. ply is the distance from the search root (used for killer slots and mate-distance
// scores); extensions is the remaining check-extension budget along this path.
func (m *runAlphaBeta) search(ctx context.Context, depth, ply int, alpha, beta eval.Score, extensions int) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return eval.InvalidScore, nil
	}
	if m.b.Result().Outcome == board.Draw {
		return eval.ZeroScore, nil
	}

	hash := m.b.Hash()
	var ttMove board.Move
	if bound, d, score, move, ok := m.tt.Probe(hash); ok {
		ttMove = move
		if d >= depth {
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				if beta.Less(score) || beta == score {
					return score, nil
				}
				alpha = eval.Max(alpha, score)
			case UpperBound:
				if score.Less(alpha) || score == alpha {
					return score, nil
				}
				beta = eval.Min(beta, score)
			}
		}
	}

	turn := m.b.Turn()
	inCheck := m.b.Position().IsChecked(turn)

	if depth <= 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes
		return score, nil
	}

	// Null-move pruning: skip our own move entirely and see if the opponent still cannot
	// beat beta even with a free tempo. Disabled in check (illegal) and under the zugzwang
	// guard, where passing can be strictly better than any legal move.
	if m.nmp && !inCheck && depth >= 3 && m.b.Position().HasNonPawnMaterial(turn) {
		m.b.PushNullMove()
		score, _ := m.search(ctx, depth-1-nullMoveReduction, ply+1, beta.Negate(), beta.Negate()+1, extensions)
		score = eval.IncrementMateDistance(score).Negate()
		m.b.PopNullMove()

		if !score.IsInvalid() && beta.Less(score) {
			return beta, nil
		}
	}

	m.nodes++

	hasLegalMove := false
	bound := UpperBound // no move has raised alpha yet
	var pv []board.Move
	var bestMove board.Move

	killers := m.killers[ply]
	priority, explore := m.explore(ctx, m.b)
	priority = m.orderingPriority(ttMove, killers, priority)

	if len(m.ponder) > 0 {
		explore = m.ponder[0].Equals
		m.ponder = m.ponder[1:]
	}

	moves := board.NewMoveList(m.b.Position().PseudoLegalMoves(turn), priority)
	first := true
	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		if !m.b.PushMove(move) {
			continue // skip: not legal
		}
		hasLegalMove = true

		ext := 0
		if extensions > 0 && m.b.Position().IsChecked(m.b.Turn()) {
			ext = 1
		}

		explored := explore(move)
		var score eval.Score
		var rem []board.Move
		if explored {
			if first {
				score, rem = m.search(ctx, depth-1+ext, ply+1, beta.Negate(), alpha.Negate(), extensions-ext)
				if !score.IsInvalid() {
					score = eval.IncrementMateDistance(score).Negate()
				}
			} else {
				// Null-window search first; only re-search with the full window if it fails high
				// within the (alpha, beta) range -- i.e. this move might actually be better.
				score, rem = m.search(ctx, depth-1+ext, ply+1, alpha.Negate()-1, alpha.Negate(), extensions-ext)
				if !score.IsInvalid() {
					score = eval.IncrementMateDistance(score).Negate()
					if alpha.Less(score) && score.Less(beta) {
						score, rem = m.search(ctx, depth-1+ext, ply+1, beta.Negate(), score.Negate(), extensions-ext)
						if !score.IsInvalid() {
							score = eval.IncrementMateDistance(score).Negate()
						}
					}
				}
			}
		}

		m.b.PopMove()
		first = false

		if explored && score.IsInvalid() {
			return eval.InvalidScore, nil
		}
		if explored && alpha.Less(score) {
			alpha = score
			bestMove = move
			pv = append([]board.Move{move}, rem...)
			bound = ExactBound
		}
		if alpha == beta || beta.Less(alpha) {
			bound = LowerBound
			if !move.Type.IsCapture() && !move.Type.IsPromotion() {
				m.recordKiller(ply, move)
				if m.history[move.From] == nil {
					m.history[move.From] = map[board.Square]int{}
				}
				m.history[move.From][move.To] += depth * depth
			}
			break // cutoff
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.MateIn(0, false), nil
		}
		return eval.ZeroScore, nil
	}

	m.tt.Store(hash, bound, depth, alpha, bestMove)
	return alpha, pv
}

func (m *runAlphaBeta) recordKiller(ply int, move board.Move) {
	k := m.killers[ply]
	if k[0].Equals(move) {
		return
	}
	k[1] = k[0]
	k[0] = move
	m.killers[ply] = k
}

// orderingPriority layers the mandated move-ordering priority on top of the exploration's
// base priority: TT/PV move first, then winning/equal captures by descending SEE, then
// killer moves, then quiets by history heuristic, with losing captures ordered last.
// History weights are not capped: a quiet move whose weight exceeds the killer or capture
// priority is ordered above those moves.
func (m *runAlphaBeta) orderingPriority(ttMove board.Move, killers [2]board.Move, base board.MovePriorityFn) board.MovePriorityFn {
	return func(move board.Move) board.MovePriority {
		switch {
		case ttMove != (board.Move{}) && ttMove.Equals(move):
			return 1 << 14
		case move.Type.IsCapture() || move.Type.IsPromotion():
			gain := see.Evaluate(m.b.Position(), m.b.Turn(), move)
			if gain >= 0 {
				return board.MovePriority(1<<13) + board.MovePriority(gain*100)
			}
			return board.MovePriority(gain * 100) // losing capture: ordered last, by how bad
		case killers[0].Equals(move):
			return 1 << 12
		case killers[1].Equals(move):
			return 1<<12 - 1
		default:
			if to, ok := m.history[move.From]; ok {
				if w, ok := to[move.To]; ok {
					return board.MovePriority(w)
				}
			}
			return base(move)
		}
	}
}

func fullIfNotSet(p Exploration) Exploration {
	if p == nil {
		return FullExploration
	}
	return p
}
