package board

import "math/bits"

// RookAttackboard and BishopAttackboard generate sliding-piece attacks using the hyperbola
// quintessence algorithm: a blocker's shadow is computed by reversing the occupancy bits
// along the line of travel, which needs no precomputed magic numbers or rotated boards,
// only the line's own mask and math/bits.Reverse64.
//
// See: https://www.chessprogramming.org/Hyperbola_Quintessence.

func RookAttackboard(occ Bitboard, sq Square) Bitboard {
	return slide(occ, sq, fileMask[sq]) | slide(occ, sq, rankMask[sq])
}

func BishopAttackboard(occ Bitboard, sq Square) Bitboard {
	return slide(occ, sq, diagMask[sq]) | slide(occ, sq, antiDiagMask[sq])
}

func QueenAttackboard(occ Bitboard, sq Square) Bitboard {
	return RookAttackboard(occ, sq) | BishopAttackboard(occ, sq)
}

func slide(occ Bitboard, sq Square, mask Bitboard) Bitboard {
	slider := uint64(BitMask(sq))
	o := uint64(occ) & uint64(mask)

	forward := o - 2*slider
	reverse := bits.Reverse64(bits.Reverse64(o) - 2*bits.Reverse64(slider))

	return Bitboard(forward^reverse) & mask
}
