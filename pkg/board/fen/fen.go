// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/morlockcore/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new position and game status from a FEN description.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*board.Position, board.Color, int, int, error) {
	// A FEN record contains six fields, separated by a space.

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: %q", fen)
	}

	// (1) Piece placement (from white's perspective). Each rank is described, starting with
	// rank 8 and ending with rank 1; within each rank, the contents of each square are
	// described from file a through file h.

	var pieces []board.Placement

	rank, file := board.Rank8, board.ZeroFile
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			if file != board.NumFiles {
				return nil, 0, 0, 0, fmt.Errorf("invalid rank length in FEN: %q", fen)
			}
			if rank == board.ZeroRank {
				return nil, 0, 0, 0, fmt.Errorf("too many ranks in FEN: %q", fen)
			}
			rank--
			file = board.ZeroFile

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8 (the number of blank squares).
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			// Each piece is identified by a single letter taken from the standard English
			// names (pawn = "P", knight = "N", bishop = "B", rook = "R", queen = "Q" and
			// king = "K"). White pieces use upper-case letters, black lower-case.

			if file >= board.NumFiles {
				return nil, 0, 0, 0, fmt.Errorf("too many squares in rank in FEN: %q", fen)
			}
			color, piece, ok := parsePiece(r)
			if !ok {
				return nil, 0, 0, 0, fmt.Errorf("invalid piece %q in FEN: %q", r, fen)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++

		default:
			return nil, 0, 0, 0, fmt.Errorf("invalid character in FEN: %q", fen)
		}
	}
	if rank != board.ZeroRank || file != board.NumFiles {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: %q", fen)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid active color in FEN: %q", fen)
	}

	// (3) Castling availability. If neither side can castle, this is "-". Otherwise, this
	// has one or more letters: "K" (White kingside), "Q" (White queenside), "k" (Black
	// kingside), and/or "q" (Black queenside).

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid castling in FEN: %q", fen)
	}

	// (4) En passant target square in algebraic notation. If there's no en passant target
	// square, this is "-". If a pawn has just made a 2-square move, this is the square
	// "behind" it.

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("invalid en passant in FEN: %q", fen)
		}
		ep = sq
	}

	// (5) Halfmove clock: the number of halfmoves since the last pawn advance or capture.
	// Used for the fifty-move rule.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid halfmove in FEN: %q", fen)
	}

	// (6) Fullmove number: starts at 1, incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid full moves in FEN: %q", fen)
	}

	pos, err := board.NewPosition(pieces, castling, ep)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid position in FEN: %q: %v", fen, err)
	}
	return pos, active, np, fm, nil
}

// NewBoard decodes a FEN string directly into a playable Board, using a fresh Zobrist table.
func NewBoard(fen string) (*board.Board, error) {
	pos, turn, np, fm, err := Decode(fen)
	if err != nil {
		return nil, err
	}
	return board.NewBoard(board.NewZobristTable(0), pos, turn, np, fm), nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos *board.Position, c board.Color, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= 0; r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := pos.Square(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	turn := printColor(c)
	castling := printCastling(pos.Castling())

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, noprogress, fullmoves)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	if c == 0 {
		return "-"
	}

	ret := ""
	if c.IsAllowed(board.WhiteKingSideCastle) {
		ret += "K"
	}
	if c.IsAllowed(board.WhiteQueenSideCastle) {
		ret += "Q"
	}
	if c.IsAllowed(board.BlackKingSideCastle) {
		ret += "k"
	}
	if c.IsAllowed(board.BlackQueenSideCastle) {
		ret += "q"
	}
	return ret
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	switch r {
	case 'P':
		return board.White, board.Pawn, true
	case 'B':
		return board.White, board.Bishop, true
	case 'N':
		return board.White, board.Knight, true
	case 'R':
		return board.White, board.Rook, true
	case 'Q':
		return board.White, board.Queen, true
	case 'K':
		return board.White, board.King, true

	case 'p':
		return board.Black, board.Pawn, true
	case 'b':
		return board.Black, board.Bishop, true
	case 'n':
		return board.Black, board.Knight, true
	case 'r':
		return board.Black, board.Rook, true
	case 'q':
		return board.Black, board.Queen, true
	case 'k':
		return board.Black, board.King, true

	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	switch {
	case c == board.White && p == board.Pawn:
		return 'P'
	case c == board.White && p == board.Bishop:
		return 'B'
	case c == board.White && p == board.Knight:
		return 'N'
	case c == board.White && p == board.Rook:
		return 'R'
	case c == board.White && p == board.Queen:
		return 'Q'
	case c == board.White && p == board.King:
		return 'K'

	case p == board.Pawn:
		return 'p'
	case p == board.Bishop:
		return 'b'
	case p == board.Knight:
		return 'n'
	case p == board.Rook:
		return 'r'
	case p == board.Queen:
		return 'q'
	case p == board.King:
		return 'k'

	default:
		return '?'
	}
}
