// Package eval contains position evaluation logic: static evaluators, scoring conventions
// and the shared material/exchange utilities that both the evaluators and the search
// package's move ordering depend on.
package eval

import (
	"context"

	"github.com/herohde/morlockcore/pkg/board"
)

// Evaluator is a static position evaluator. It returns the score from the perspective of
// the side to move: positive favors the mover.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Material returns the nominal material advantage balance for the side to move.
type Material struct{}

func (Material) Evaluate(_ context.Context, b *board.Board) Score {
	pos := b.Position()
	turn := b.Turn()

	var score Score
	for p := board.Pawn; p <= board.King; p++ {
		score += Score(pos.Piece(turn, p).PopCount()-pos.Piece(turn.Opponent(), p).PopCount()) * NominalValue(p)
	}
	return score
}

// NominalValue is the absolute nominal value in pawns of a piece kind. The king has an
// arbitrary value higher than any feasible material count, so it always sorts last in
// exchange ordering.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 1
	case board.Bishop, board.Knight:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 100
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain of making the move, ignoring subsequent
// recapture. Used for fast move-ordering heuristics (MVV-LVA); see.Evaluate computes the
// exact, recapture-aware value.
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}
