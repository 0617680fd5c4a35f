// Package see implements Static Exchange Evaluation: the net material result of a sequence
// of captures on a single square, assuming both sides always recapture with their
// least-valuable attacker. It is used by the search package to order and prune captures
// without having to search them.
package see

import (
	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
)

// Evaluate returns the signed value, from side's perspective, of initiating (or continuing)
// a capture sequence on sq via the move m. A positive value means the exchange nets side
// material; a negative value means it loses material and should generally be pruned in
// quiescence search.
//
// The algorithm walks the exchange one recapture at a time: at each step the next attacker
// is picked among the currently least-valuable pieces bearing on the square (pawns before
// knights/bishops before rooks before queen before king), the attacker is removed from the
// occupancy so that any piece it was screening (a rook or queen behind it on the same
// file/diagonal) is rediscovered on the next iteration, and pinned pieces that cannot
// legally make the capture are excluded from consideration.
func Evaluate(pos *board.Position, side board.Color, m board.Move) eval.Score {
	occ := pos.Occupied()
	target := m.To

	var gain [32]eval.Score
	depth := 0

	gain[0] = eval.NominalValue(captured(pos, m))
	attackerValue := eval.NominalValue(m.Piece)

	occ &^= board.BitMask(m.From)
	if ep, ok := m.EnPassantCapture(); ok {
		occ &^= board.BitMask(ep)
	}

	turn := side.Opponent()
	for {
		depth++
		gain[depth] = attackerValue - gain[depth-1]
		if max(-gain[depth-1], gain[depth]) < 0 {
			break // further captures cannot improve either side's outcome
		}

		from, piece, ok := leastValuableAttacker(pos, occ, turn, target)
		if !ok {
			break
		}

		occ &^= board.BitMask(from)
		attackerValue = eval.NominalValue(piece)
		turn = turn.Opponent()
	}

	for depth > 1 {
		depth--
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

func captured(pos *board.Position, m board.Move) board.Piece {
	if ep, ok := m.EnPassantCapture(); ok {
		_, piece, _ := pos.Square(ep)
		return piece
	}
	return m.Capture
}

// leastValuableAttacker returns the cheapest piece of turn's color that attacks target given
// occupancy occ, skipping pieces absolutely pinned to their king along a line that does not
// pass through target.
func leastValuableAttacker(pos *board.Position, occ board.Bitboard, turn board.Color, target board.Square) (board.Square, board.Piece, bool) {
	pins := pinnedSquares(pos, turn)

	for _, piece := range []board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		var bb board.Bitboard
		if piece == board.Pawn {
			bb = board.PawnCaptureboard(turn.Opponent(), board.BitMask(target)) & pos.Piece(turn, board.Pawn) & occ
		} else {
			bb = board.Attackboard(occ, target, piece) & pos.Piece(turn, piece) & occ
		}

		for bb != 0 {
			from := bb.Pop()
			if line, pinned := pins[from]; pinned && line != target {
				continue
			}
			return from, piece, true
		}
	}
	return board.NoSquare, board.NoPiece, false
}

// pinnedSquares maps each absolutely-pinned square of turn's color to the one square
// (besides the king itself) it is still permitted to move to: the attacker's square, since
// capturing the pinning piece keeps the king safe.
func pinnedSquares(pos *board.Position, turn board.Color) map[board.Square]board.Square {
	ret := map[board.Square]board.Square{}
	for _, p := range eval.FindPins(pos, turn, board.King) {
		ret[p.Pinned] = p.Attacker
	}
	return ret
}

func max(a, b eval.Score) eval.Score {
	if a > b {
		return a
	}
	return b
}
