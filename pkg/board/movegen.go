package board

// PseudoLegalMoves generates all pseudo-legal moves for turn from this position: moves that
// obey piece movement rules but may leave the mover's own king in check. Position.Move
// rejects those when applied, so callers must check its second return value.
func (p *Position) PseudoLegalMoves(turn Color) []Move {
	ret := make([]Move, 0, 32)

	own := p.pieces[turn][NoPiece]
	opp := p.pieces[turn.Opponent()][NoPiece]
	empty := ^p.occ

	ret = genPawnMoves(p, turn, ret, empty, opp)
	for _, piece := range KingQueenRookKnightBishop {
		ret = genPieceMoves(p, turn, piece, ret, own)
	}
	ret = genCastles(p, turn, ret)
	return ret
}

func genPieceMoves(p *Position, turn Color, piece Piece, ret []Move, own Bitboard) []Move {
	bb := p.pieces[turn][piece]
	for bb != 0 {
		from := bb.Pop()

		targets := Attackboard(p.occ, from, piece) &^ own
		for t := targets; t != 0; {
			to := t.Pop()
			if p.pieces[turn.Opponent()][NoPiece].IsSet(to) {
				_, cap, _ := p.Square(to)
				ret = append(ret, Move{Piece: piece, Type: Capture, From: from, To: to, Capture: cap})
			} else {
				ret = append(ret, Move{Piece: piece, Type: Normal, From: from, To: to})
			}
		}
	}
	return ret
}

func genPawnMoves(p *Position, turn Color, ret []Move, empty, opp Bitboard) []Move {
	pawns := p.pieces[turn][Pawn]
	promoRank := PawnPromotionRank(turn)
	jumpRank := PawnJumpRank(turn)

	// Single and double pushes.
	singles := PawnMoveboard(p.occ, turn, pawns)
	for t := singles; t != 0; {
		to := t.Pop()
		from := pawnPushOrigin(turn, to)
		ret = appendPawnAdvance(ret, turn, from, to, promoRank, Push)
	}

	var doubleSrc Bitboard
	if turn == White {
		doubleSrc = (singles & PawnJumpIntermediate(turn)) << 8 & empty & jumpRank
	} else {
		doubleSrc = (singles & PawnJumpIntermediate(turn)) >> 8 & empty & jumpRank
	}
	for t := doubleSrc; t != 0; {
		to := t.Pop()
		from := pawnJumpOrigin(turn, to)
		ret = append(ret, Move{Piece: Pawn, Type: Jump, From: from, To: to})
	}

	// Captures, including en passant.
	bb := pawns
	for bb != 0 {
		from := bb.Pop()
		targets := PawnCaptureboard(turn, BitMask(from)) & opp
		for t := targets; t != 0; {
			to := t.Pop()
			_, cap, _ := p.Square(to)
			if BitMask(to)&promoRank != 0 {
				for _, promo := range []Piece{Queen, Rook, Bishop, Knight} {
					ret = append(ret, Move{Piece: Pawn, Type: CapturePromotion, From: from, To: to, Capture: cap, Promotion: promo})
				}
			} else {
				ret = append(ret, Move{Piece: Pawn, Type: Capture, From: from, To: to, Capture: cap})
			}
		}

		if ep, ok := p.EnPassant(); ok {
			if PawnCaptureboard(turn, BitMask(from))&BitMask(ep) != 0 {
				ret = append(ret, Move{Piece: Pawn, Type: EnPassant, From: from, To: ep})
			}
		}
	}
	return ret
}

func appendPawnAdvance(ret []Move, turn Color, from, to Square, promoRank Bitboard, t MoveType) []Move {
	if BitMask(to)&promoRank != 0 {
		for _, promo := range []Piece{Queen, Rook, Bishop, Knight} {
			ret = append(ret, Move{Piece: Pawn, Type: Promotion, From: from, To: to, Promotion: promo})
		}
		return ret
	}
	return append(ret, Move{Piece: Pawn, Type: t, From: from, To: to})
}

func pawnPushOrigin(c Color, to Square) Square {
	if c == White {
		return to - 8
	}
	return to + 8
}

func pawnJumpOrigin(c Color, to Square) Square {
	if c == White {
		return to - 16
	}
	return to + 16
}

// PawnJumpIntermediate returns the rank a pawn lands on after a single push, before it may
// continue to the jump rank -- i.e. the home rank shifted one step forward.
func PawnJumpIntermediate(c Color) Bitboard {
	if c == White {
		return BitRank(Rank3)
	}
	return BitRank(Rank6)
}

func genCastles(p *Position, turn Color, ret []Move) []Move {
	if p.IsChecked(turn) {
		return ret // cannot castle out of check
	}

	if turn == White {
		if p.castling.IsAllowed(WhiteKingSideCastle) && castlePathClear(p, F1, G1) && !castlePathAttacked(p, turn, E1, F1, G1) {
			ret = append(ret, Move{Piece: King, Type: KingSideCastle, From: E1, To: G1})
		}
		if p.castling.IsAllowed(WhiteQueenSideCastle) && castlePathClear(p, D1, C1, B1) && !castlePathAttacked(p, turn, E1, D1, C1) {
			ret = append(ret, Move{Piece: King, Type: QueenSideCastle, From: E1, To: C1})
		}
	} else {
		if p.castling.IsAllowed(BlackKingSideCastle) && castlePathClear(p, F8, G8) && !castlePathAttacked(p, turn, E8, F8, G8) {
			ret = append(ret, Move{Piece: King, Type: KingSideCastle, From: E8, To: G8})
		}
		if p.castling.IsAllowed(BlackQueenSideCastle) && castlePathClear(p, D8, C8, B8) && !castlePathAttacked(p, turn, E8, D8, C8) {
			ret = append(ret, Move{Piece: King, Type: QueenSideCastle, From: E8, To: C8})
		}
	}
	return ret
}

func castlePathClear(p *Position, squares ...Square) bool {
	for _, sq := range squares {
		if !p.IsEmpty(sq) {
			return false
		}
	}
	return true
}

func castlePathAttacked(p *Position, turn Color, squares ...Square) bool {
	for _, sq := range squares {
		if p.IsAttacked(turn, sq) {
			return true
		}
	}
	return false
}
