package uci_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/morlockcore/pkg/engine"
	"github.com/herohde/morlockcore/pkg/engine/uci"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/stretchr/testify/require"
)

func newTestEngine(ctx context.Context) *engine.Engine {
	s := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.Pesto{}}}
	return engine.New(ctx, "morlockcore-test", "morlockcore", s, engine.WithOptions(engine.Options{
		NMPEnabled: true,
	}))
}

// collectUntil reads lines off out until one has the given prefix, or fails the test
// if none arrives within the timeout.
func collectUntil(t *testing.T, out <-chan string, prefix string, timeout time.Duration) []string {
	t.Helper()

	var lines []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				t.Fatalf("output stream closed before seeing line with prefix %q; got %v", prefix, lines)
			}
			lines = append(lines, line)
			if strings.HasPrefix(line, prefix) {
				return lines
			}
		case <-deadline:
			t.Fatalf("timed out waiting for line with prefix %q; got %v", prefix, lines)
		}
	}
}

func TestUCIHandshake(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	_, out := uci.NewDriver(ctx, newTestEngine(ctx), in)

	lines := collectUntil(t, out, "uciok", 5*time.Second)
	require.Contains(t, strings.Join(lines, "\n"), "id name")
	require.Contains(t, strings.Join(lines, "\n"), "id author")
	require.Contains(t, strings.Join(lines, "\n"), "option name Nullmove")
}

func TestUCIGoReturnsBestMove(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	driver, out := uci.NewDriver(ctx, newTestEngine(ctx), in)
	defer driver.Close()

	collectUntil(t, out, "uciok", 5*time.Second)

	in <- "position startpos"
	in <- "go depth 2"

	lines := collectUntil(t, out, "bestmove", 10*time.Second)
	require.Contains(t, lines[len(lines)-1], "bestmove")
	require.NotContains(t, lines[len(lines)-1], "bestmove 0000")
}

func TestUCIGoMateFindsForcedMate(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	driver, out := uci.NewDriver(ctx, newTestEngine(ctx), in)
	defer driver.Close()

	collectUntil(t, out, "uciok", 5*time.Second)

	// King a8 boxed in by its own king on b6; Rh1-h8 is mate in one.
	in <- "position fen k7/8/1K6/8/8/8/8/7R w - - 0 1"
	in <- "go mate 1"

	lines := collectUntil(t, out, "bestmove", 10*time.Second)
	require.Contains(t, strings.Join(lines, "\n"), "score mate 1")
	require.Contains(t, lines[len(lines)-1], "bestmove h1h8")
}

func TestUCITacticalReturnsBestMove(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	driver, out := uci.NewDriver(ctx, newTestEngine(ctx), in)
	defer driver.Close()

	collectUntil(t, out, "uciok", 5*time.Second)

	in <- "position startpos"
	in <- "tactical 25"

	lines := collectUntil(t, out, "bestmove", 10*time.Second)
	require.Contains(t, lines[len(lines)-1], "bestmove")
}

func TestUCISetOptionNullmove(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	e := newTestEngine(ctx)
	driver, out := uci.NewDriver(ctx, e, in)
	defer driver.Close()

	collectUntil(t, out, "uciok", 5*time.Second)

	in <- "setoption name Nullmove value false"
	in <- "isready"

	collectUntil(t, out, "readyok", 5*time.Second)
	require.False(t, e.Options().NMPEnabled)
}
