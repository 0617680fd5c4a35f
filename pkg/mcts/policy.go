package mcts

import (
	"context"

	"github.com/herohde/morlockcore/pkg/board"
)

// Policy is a predict-only neural move-prior source. It has no training or weight-loading
// surface: a caller constructs a concrete implementation (backed by whatever model runtime
// it likes) and passes it in via Config.Policy. This module never imports a tensor runtime
// itself and ships no weights.
type Policy interface {
	// Predict returns a prior probability per legal pseudo-move in b's current position.
	// Priors need not sum to 1; Search normalizes unknown/missing entries to 0.
	Predict(ctx context.Context, b *board.Board) map[board.Move]float64
}
