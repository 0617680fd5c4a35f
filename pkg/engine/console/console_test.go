package console_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herohde/morlockcore/pkg/engine"
	"github.com/herohde/morlockcore/pkg/engine/console"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/stretchr/testify/require"
)

func newTestEngine(ctx context.Context) (*engine.Engine, search.Search) {
	s := search.AlphaBeta{Eval: search.Quiescence{Eval: eval.Pesto{}}}
	return engine.New(ctx, "morlockcore-test", "morlockcore", s, engine.WithOptions(engine.Options{
		NMPEnabled: true,
	})), s
}

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

func TestConsoleStartupPrintsBoard(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	e, root := newTestEngine(ctx)
	_, out := console.NewDriver(ctx, e, root, in)

	lines := collectUntil(t, out, "fen:", 5*time.Second)
	require.Contains(t, strings.Join(lines, "\n"), "engine morlockcore-test")
}

func TestConsoleAnalyzeReturnsBestMove(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	e, root := newTestEngine(ctx)
	driver, out := console.NewDriver(ctx, e, root, in)
	defer driver.Close()

	collectUntil(t, out, "fen:", 5*time.Second)

	in <- "analyze 2"

	lines := collectUntil(t, out, "bestmove", 10*time.Second)
	require.Contains(t, lines[len(lines)-1], "bestmove")
}

func TestConsoleMoveCommandUpdatesBoard(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	e, root := newTestEngine(ctx)
	driver, out := console.NewDriver(ctx, e, root, in)
	defer driver.Close()

	collectUntil(t, out, "fen:", 5*time.Second)

	in <- "e2e4"

	lines := collectUntil(t, out, "fen:", 5*time.Second)
	require.Contains(t, strings.Join(lines, "\n"), "fen:    rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
}

func TestConsoleQuitClosesDriver(t *testing.T) {
	ctx := context.Background()
	in := make(chan string, 10)

	e, root := newTestEngine(ctx)
	driver, out := console.NewDriver(ctx, e, root, in)

	collectUntil(t, out, "fen:", 5*time.Second)

	in <- "quit"

	select {
	case <-driver.Closed():
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not close after quit")
	}
}
