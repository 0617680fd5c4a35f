package eval

import (
	"fmt"

	"github.com/herohde/morlockcore/pkg/board"
)

// Score is a signed position or move score in pawns, from the side-to-move's perspective
// unless noted otherwise. Mate scores are encoded near the ends of the range: Mate is the
// score of delivering checkmate right now, and each additional ply needed to force it
// subtracts 1, so "mate in N plies" is Mate-N (or -(Mate-N) for being mated). Plain
// evaluation scores never approach this range -- material alone cannot exceed a few
// hundred pawns -- so the two domains never collide.
type Score float32

const (
	ZeroScore Score = 0

	Mate          Score = 1_000_000
	MaxScore      Score = Mate
	MinScore      Score = -Mate
	MateThreshold Score = Mate - 1000 // scores beyond this magnitude are mate scores

	InfScore    Score = MaxScore + 1_000_000
	NegInfScore Score = -InfScore

	// InvalidScore marks a search result abandoned due to cancellation.
	InvalidScore Score = InfScore + 1_000_000
)

func (s Score) String() string {
	if s.IsInvalid() {
		return "invalid"
	}
	if d, ok := s.MateDistance(); ok {
		if s > 0 {
			return fmt.Sprintf("#%v", d)
		}
		return fmt.Sprintf("#-%v", d)
	}
	return fmt.Sprintf("%.2f", float64(s))
}

// IsInvalid returns true iff the score is the cancellation sentinel.
func (s Score) IsInvalid() bool {
	return s == InvalidScore
}

// Negate flips the score to the opponent's perspective. Invalid scores are unaffected.
func (s Score) Negate() Score {
	if s.IsInvalid() {
		return s
	}
	return -s
}

// Less reports whether s is strictly less than o.
func (s Score) Less(o Score) bool {
	return s < o
}

// MateDistance returns the number of plies to forced mate, if s is a mate score.
func (s Score) MateDistance() (int, bool) {
	a := s
	if a < 0 {
		a = -a
	}
	if a > MateThreshold && a <= Mate {
		return int(Mate - a), true
	}
	return 0, false
}

// IncrementMateDistance adds one ply to a mate score's distance, as the score is propagated
// up the search tree one ply further from the mating line. Non-mate and invalid scores are
// unaffected.
func IncrementMateDistance(s Score) Score {
	switch {
	case s.IsInvalid():
		return s
	case s > MateThreshold:
		return s - 1
	case s < -MateThreshold:
		return s + 1
	default:
		return s
	}
}

// MateIn constructs the mate score for delivering (positive) or suffering (negative) mate in
// the given number of plies.
func MateIn(plies int, winning bool) Score {
	if winning {
		return Mate - Score(plies)
	}
	return -(Mate - Score(plies))
}

// Unit returns the signed unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Score {
	return Score(c.Unit())
}

// Crop clamps a Score into [MinScore;MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
