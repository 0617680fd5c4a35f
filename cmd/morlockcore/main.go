// morlockcore demonstrates the engine's alpha-beta, mate-prover and tactical-MCTS entry
// points over stdin/stdout, under one of three protocols: a minimal budget-line "demo"
// protocol (the default), the UCI protocol for use by a chess GUI, or the "console"
// protocol for interactive debugging.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/morlockcore/pkg/engine"
	"github.com/herohde/morlockcore/pkg/engine/console"
	"github.com/herohde/morlockcore/pkg/engine/uci"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/herohde/morlockcore/pkg/search"
	"github.com/herohde/morlockcore/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	noise    = flag.Int("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
	hash     = flag.Uint("hash", 64, "Transposition table size in MB")
	protocol = flag.String("protocol", "demo", "Driver protocol: demo, uci or console")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlockcore [options]

With -protocol=demo (the default), morlockcore reads "<command> <fen> <budget>" lines
from stdin and writes the result to stdout:

	search <fen> <depth>
	mate   <fen> <depth>
	tactical <fen> <iterations>

With -protocol=uci or -protocol=console, morlockcore instead runs the corresponding
driver (see pkg/engine/uci and pkg/engine/console) over stdin/stdout, for use by a GUI
or for interactive debugging respectively. The UCI driver additionally accepts "go mate
<x>" to run the exact forced-mate prover and a non-standard "tactical <iterations>"
command to run the PUCT tactical search.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.AlphaBeta{
		Eval: search.Quiescence{Eval: eval.Pesto{}},
	}
	e := engine.New(ctx, "morlockcore", "herohde", s, engine.WithOptions(engine.Options{
		Hash:       *hash,
		Noise:      uint(*noise),
		NMPEnabled: true,
	}))

	switch *protocol {
	case uci.ProtocolName:
		in := engine.ReadStdinLines(ctx)
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()
	case console.ProtocolName:
		in := engine.ReadStdinLines(ctx)
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)
		<-driver.Closed()
	default:
		runDemo(ctx, e)
	}
}

func runDemo(ctx context.Context, e *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// A FEN string itself contains five internal spaces, so only the leading command
		// word and the trailing budget number are fixed; everything between them is the FEN.
		fields := strings.Fields(line)
		if len(fields) < 8 {
			fmt.Fprintf(os.Stdout, "error: expected '<command> <fen> <budget>', got %q\n", line)
			continue
		}

		cmd := fields[0]
		fenFields := strings.Join(fields[1:len(fields)-1], " ")
		budgetStr := fields[len(fields)-1]
		budget, err := strconv.Atoi(budgetStr)
		if err != nil {
			fmt.Fprintf(os.Stdout, "error: invalid budget %q: %v\n", budgetStr, err)
			continue
		}

		if err := e.Reset(ctx, fenFields); err != nil {
			fmt.Fprintf(os.Stdout, "error: invalid fen %q: %v\n", fenFields, err)
			continue
		}

		switch cmd {
		case "search":
			runSearch(ctx, e, budget)
		case "mate":
			result := e.ProveMate(ctx, budget)
			if _, ok := result.Score.MateDistance(); ok {
				fmt.Fprintf(os.Stdout, "mate %v nodes=%v\n", result.Move, result.Nodes)
			} else {
				fmt.Fprintf(os.Stdout, "no-mate nodes=%v\n", result.Nodes)
			}
		case "tactical":
			e.SetMCTSIterations(budget)
			result := e.Tactical(ctx)
			fmt.Fprintf(os.Stdout, "move %v iterations=%v nodes=%v\n", result.Move, result.Stats.Iterations, result.Stats.Nodes)
		default:
			fmt.Fprintf(os.Stdout, "error: unknown command %q\n", cmd)
		}
	}
}

func runSearch(ctx context.Context, e *engine.Engine, depth int) {
	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(depth))})
	if err != nil {
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
		return
	}

	var last search.PV
	for pv := range out {
		last = pv
	}
	fmt.Fprintf(os.Stdout, "bestmove %v score=%v depth=%v nodes=%v time=%v\n",
		firstMove(last), last.Score, last.Depth, last.Nodes, last.Time.Round(time.Millisecond))
}

func firstMove(pv search.PV) string {
	if len(pv.Moves) == 0 {
		return "none"
	}
	return pv.Moves[0].String()
}
