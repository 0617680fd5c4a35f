package board

import "fmt"

// MoveType indicates the kind of move. The no-progress counter resets on any move other
// than Normal.
type MoveType uint8

const (
	Normal MoveType = iota
	Push            // Pawn single-square push
	Jump            // Pawn 2-square push
	EnPassant       // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

// IsCapture returns true iff the move type removes an enemy piece from the board.
func (t MoveType) IsCapture() bool {
	return t == Capture || t == EnPassant || t == CapturePromotion
}

// IsPromotion returns true iff the move type promotes the moving pawn.
func (t MoveType) IsPromotion() bool {
	return t == Promotion || t == CapturePromotion
}

// IsCastle returns true iff the move type is a castle of either side.
func (t MoveType) IsCastle() bool {
	return t == QueenSideCastle || t == KingSideCastle
}

// Move represents a not-necessarily-legal move along with the metadata needed to
// make/unmake it without re-deriving it from the position: the moving piece, the type of
// move, and the captured piece (if any). Comparable and small enough to pass by value.
type Move struct {
	Piece     Piece
	Type      MoveType
	From, To  Square
	Promotion Piece // desired piece for promotion, if Type.IsPromotion()
	Capture   Piece // captured piece, if Type.IsCapture()
}

// ParseMove parses a move in pure algebraic coordinate (UCI) notation, such as "a2a4" or
// "a7a8q". The result carries only From/To/Promotion; a Position is needed to recover the
// full contextual Move (piece, capture, move type) via Position.Decode.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: %q: %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: %q: %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: %q", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}
	return Move{From: from, To: to}, nil
}

// Equals compares moves by their UCI-visible fields only, ignoring the contextual metadata
// (Piece/Type/Capture) that Position.Decode fills in. Two moves parsed differently for the
// same from/to/promotion are Equals.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String renders the move in pure algebraic coordinate notation, e.g. "e2e4" or "a7a8q".
func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// EnPassantTarget returns the new en passant target square created by this move, if it is a
// Jump, and false otherwise.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return NoSquare, false
	}
	if m.To > m.From {
		return m.From + 8, true // white: e2e4 -> e3
	}
	return m.From - 8, true // black: e7e5 -> e6
}

// EnPassantCapture returns the square of the pawn captured en passant, if this move is an
// EnPassant capture.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return NoSquare, false
	}
	if m.To > m.From {
		return m.To - 8, true // white captures a black pawn one rank below the target
	}
	return m.To + 8, true
}

// CastlingRookMove returns the rook's from/to squares for a castling move.
func (m Move) CastlingRookMove() (Square, Square, bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From.Rank() == Rank1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From.Rank() == Rank1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return NoSquare, NoSquare, false
	}
}

// CastlingRightsLost returns the castling rights this move permanently revokes: moving a
// king or rook away, or capturing a rook on its home square.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling

	switch m.From {
	case E1:
		lost |= WhiteKingSideCastle | WhiteQueenSideCastle
	case E8:
		lost |= BlackKingSideCastle | BlackQueenSideCastle
	case A1:
		lost |= WhiteQueenSideCastle
	case H1:
		lost |= WhiteKingSideCastle
	case A8:
		lost |= BlackQueenSideCastle
	case H8:
		lost |= BlackKingSideCastle
	}

	switch m.To {
	case A1:
		lost |= WhiteQueenSideCastle
	case H1:
		lost |= WhiteKingSideCastle
	case A8:
		lost |= BlackQueenSideCastle
	case H8:
		lost |= BlackKingSideCastle
	}

	return lost
}
