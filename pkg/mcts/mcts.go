// Package mcts implements a tactical Monte Carlo tree search: PUCT selection over a
// position tree whose leaf evaluation is a forced-mate check followed by a shallow
// alpha-beta rollout, rather than a random playout.
package mcts

import (
	"context"
	"math"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/mate"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/herohde/morlockcore/pkg/see"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// rolloutScale (K) converts a centipawn-scale static score into [-1, +1] via tanh(score/K).
// 400 centipawns == 4 pawns in this module's Score unit, where a pawn is nominally 1.
const rolloutScale = eval.Score(4)

// Config holds the tunables for a single search call.
type Config struct {
	Iterations      int     // iteration cap; 0 means no cap (rely on ctx/wall-clock only)
	ExplorationC    float64 // PUCT exploration constant c; 0 defaults to sqrt(2)
	MateSearchDepth int     // plies searched by the mate prover at each expansion; 0 defaults to 3
	RolloutDepth    int     // alpha-beta plies for leaf evaluation; 0 defaults to 4
	Policy          Policy  // optional neural move-prior source; nil uses the heuristic prior
}

// Stats reports what a Search call actually did.
type Stats struct {
	Iterations int
	Nodes      int // nodes expanded (excludes the root)
	Mates      int // expansions short-circuited by a proven mate
	Rollouts   int // leaf evaluations performed via alpha-beta
}

// Result is the decision returned by Search.
type Result struct {
	Move  board.Move
	Stats Stats
}

// node is one position in the search arena, addressed by index rather than pointer so the
// arena is a single flat, cache-friendly slice.
type node struct {
	parent   int
	move     board.Move // the move from parent that reaches this node
	children []int

	expanded bool
	terminal bool
	value    float64 // terminal value for the side to move at this node, in [-1, +1]

	prior float64
	n     int     // visit count
	w     float64 // total backed-up value, from this node's mover's perspective
}

func (nd *node) q() float64 {
	if nd.n == 0 {
		return 0
	}
	return nd.w / float64(nd.n)
}

// Search runs PUCT-guided tactical search from b's current position and returns the root
// child with the highest visit count (ties broken by Q).
func Search(ctx context.Context, b *board.Board, cfg Config) Result {
	c := cfg.ExplorationC
	if c == 0 {
		c = math.Sqrt2
	}
	mateDepth := cfg.MateSearchDepth
	if mateDepth == 0 {
		mateDepth = 3
	}
	rolloutDepth := cfg.RolloutDepth
	if rolloutDepth == 0 {
		rolloutDepth = 4
	}

	s := &runMCTS{
		b:            b.Fork(),
		c:            c,
		mateDepth:    mateDepth,
		rolloutDepth: rolloutDepth,
		policy:       cfg.Policy,
		nodes:        []node{{parent: -1}},
	}

	iterations := cfg.Iterations
	for i := 0; iterations == 0 || i < iterations; i++ {
		if contextx.IsCancelled(ctx) {
			break
		}
		s.iterate(ctx)
		s.stats.Iterations++

		if idx := s.bestChild(); idx >= 0 && s.nodes[idx].terminal && s.nodes[idx].value > 0 {
			break // early exit: a root child is a proven mate
		}
	}

	return Result{Move: s.bestMove(), Stats: s.stats}
}

type runMCTS struct {
	b            *board.Board
	c            float64
	mateDepth    int
	rolloutDepth int
	policy       Policy
	nodes        []node
	stats        Stats
}

// iterate runs one selection/expansion/evaluation/backup cycle from the root.
func (s *runMCTS) iterate(ctx context.Context) {
	path := []int{0}

	cur := 0
	for s.nodes[cur].expanded && !s.nodes[cur].terminal {
		child := s.select_(cur)
		if child < 0 {
			break // no children (checkmate/stalemate already recorded as terminal)
		}
		s.b.PushMove(s.nodes[child].move)
		path = append(path, child)
		cur = child
	}

	var value float64
	if s.nodes[cur].terminal {
		value = s.nodes[cur].value
	} else {
		value = s.expand(ctx, cur)
	}

	s.backup(path, value)
	for range path[1:] {
		s.b.PopMove()
	}
}

// select_ returns the PUCT-maximizing child of cur, or -1 if cur has no children.
func (s *runMCTS) select_(cur int) int {
	children := s.nodes[cur].children
	if len(children) == 0 {
		return -1
	}

	parentN := s.nodes[cur].n
	best, bestScore := -1, math.Inf(-1)
	for _, idx := range children {
		ch := &s.nodes[idx]
		u := s.c * ch.prior * math.Sqrt(float64(parentN)) / float64(1+ch.n)
		score := ch.q() + u
		if score > bestScore {
			best, bestScore = idx, score
		}
	}
	return best
}

// expand decides terminal status (mate/stalemate or proven forced mate), or instantiates
// the node's children and returns a rollout value. The returned value is from the
// perspective of the mover at cur (i.e. s.b's current turn).
func (s *runMCTS) expand(ctx context.Context, cur int) float64 {
	s.stats.Nodes++

	if result := mate.Prove(ctx, s.b, s.mateDepth); result.Score > 0 {
		// Record the mating move as a single terminal child, rather than marking cur itself
		// terminal, so the root (or any ancestor) still has a concrete move to report.
		idx := len(s.nodes)
		s.nodes = append(s.nodes, node{parent: cur, move: result.Move, expanded: true, terminal: true, value: 1, prior: 1})
		s.nodes[cur].expanded = true
		s.nodes[cur].children = []int{idx}
		s.stats.Mates++
		return 1
	}

	turn := s.b.Turn()
	moves := s.b.Position().PseudoLegalMoves(turn)

	var priors map[board.Move]float64
	if s.policy != nil {
		priors = s.policy.Predict(ctx, s.b)
	} else {
		priors = heuristicPriors(s.b, moves)
	}

	var children []int
	for _, m := range moves {
		if !s.b.PushMove(m) {
			continue // skip: not legal
		}
		s.b.PopMove()

		idx := len(s.nodes)
		s.nodes = append(s.nodes, node{parent: cur, move: m, prior: priors[m]})
		children = append(children, idx)
	}

	s.nodes[cur].expanded = true
	s.nodes[cur].children = children

	if len(children) == 0 {
		s.nodes[cur].terminal = true
		if s.b.Position().IsChecked(turn) {
			s.nodes[cur].value = -1 // the mover here has been checkmated
		} else {
			s.nodes[cur].value = 0 // stalemate
		}
		return s.nodes[cur].value
	}

	s.stats.Rollouts++
	return s.rollout(ctx)
}

// rollout runs a shallow alpha-beta search from the current position and maps the
// resulting centipawn-scale score into [-1, +1].
func (s *runMCTS) rollout(ctx context.Context) float64 {
	ab := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.Pesto{}}}
	tt := search.NoTranspositionTable{}
	sctx := &search.Context{Alpha: eval.NegInfScore, Beta: eval.InfScore, TT: tt}

	_, score, _, err := ab.Search(ctx, sctx, s.b, s.rolloutDepth)
	if err != nil || score.IsInvalid() {
		return 0
	}
	if d, ok := score.MateDistance(); ok {
		if score > 0 {
			return 1 - float64(d)*1e-6 // shorter mate distance stays closer to +1
		}
		return -1 + float64(d)*1e-6
	}
	return math.Tanh(float64(score) / float64(rolloutScale))
}

// backup propagates value up the path, negating at each step since each ply alternates
// the mover's perspective.
func (s *runMCTS) backup(path []int, value float64) {
	v := value
	for i := len(path) - 1; i >= 0; i-- {
		idx := path[i]
		s.nodes[idx].n++
		s.nodes[idx].w += v
		v = -v
	}
}

// bestChild returns the index of the root child with the most visits, ties broken by Q, or
// -1 if the root has no children yet.
func (s *runMCTS) bestChild() int {
	children := s.nodes[0].children
	if len(children) == 0 {
		return -1
	}

	best := children[0]
	for _, idx := range children[1:] {
		ch, b := &s.nodes[idx], &s.nodes[best]
		if ch.n > b.n || (ch.n == b.n && ch.q() > b.q()) {
			best = idx
		}
	}
	return best
}

// bestMove returns the root child with the most visits, ties broken by Q.
func (s *runMCTS) bestMove() board.Move {
	idx := s.bestChild()
	if idx < 0 {
		return board.Move{}
	}
	return s.nodes[idx].move
}

// heuristicPriors assigns move priors when no neural policy is configured: elevated for
// captures (SEE-scaled), checks and promotions, uniform among the rest.
func heuristicPriors(b *board.Board, moves []board.Move) map[board.Move]float64 {
	turn := b.Turn()
	weights := make(map[board.Move]float64, len(moves))

	var total float64
	for _, m := range moves {
		w := 1.0
		switch {
		case m.Type.IsCapture():
			if gain := see.Evaluate(b.Position(), turn, m); gain > 0 {
				w += float64(gain)
			}
		case m.Type.IsPromotion():
			w += float64(eval.NominalValue(m.Promotion))
		}
		if b.PushMove(m) {
			if b.Position().IsChecked(b.Turn()) {
				w += 2
			}
			b.PopMove()
		}
		weights[m] = w
		total += w
	}

	if total > 0 {
		for m := range weights {
			weights[m] /= total
		}
	}
	return weights
}
