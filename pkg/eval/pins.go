package eval

import "github.com/herohde/morlockcore/pkg/board"

// Pin represents a pinned piece. A pinned piece cannot move off the attacker-target line
// without exposing Target to Attacker.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins targeting the given piece kind for side.
func FindPins(pos *board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	occ := pos.Occupied()
	bb := pos.Piece(side, piece)
	for bb != 0 {
		target := bb.Pop()

		// Rook/Queen pins.

		rooks := board.RookAttackboard(occ, target)
		pins := rooks & pos.Color(side)
		for pins != 0 {
			pinned := pins.Pop()

			attackers := pos.Piece(side.Opponent(), board.Queen) | pos.Piece(side.Opponent(), board.Rook)
			candidate := (board.RookAttackboard(occ&^board.BitMask(pinned), target) &^ rooks) & attackers
			if candidate != 0 {
				ret = append(ret, Pin{Attacker: candidate.LowestSquare(), Pinned: pinned, Target: target})
			}
		}

		// Bishop/Queen pins.

		bishops := board.BishopAttackboard(occ, target)
		pins = bishops & pos.Color(side)
		for pins != 0 {
			pinned := pins.Pop()

			attackers := pos.Piece(side.Opponent(), board.Queen) | pos.Piece(side.Opponent(), board.Bishop)
			candidate := (board.BishopAttackboard(occ&^board.BitMask(pinned), target) &^ bishops) & attackers
			if candidate != 0 {
				ret = append(ret, Pin{Attacker: candidate.LowestSquare(), Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
