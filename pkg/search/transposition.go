package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/morlockcore/pkg/board"
	"github.com/herohde/morlockcore/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable represents a transposition table to speed up search performance.
// Caveat: evaluation heuristics that depend on the game history (notably, hasCastled or
// last move) may be unsuitable for position-keyed caching. If the recent history is short,
// then the table may only be used for depth greater than some limit. Must be thread-safe.
type TranspositionTable interface {
	// Probe returns the bound, depth, score and best move for the given position hash, if present.
	Probe(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool)
	// Store stores the entry into the table, depending on table semantics and replacement policy.
	Store(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move)
	// NewGeneration marks the start of a new search, so Store can prefer replacing stale entries.
	NewGeneration()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// bucketWidth is the number of candidate slots sharing one hash-derived index. A wider
// bucket reduces collisions at the cost of a longer linear probe per operation.
const bucketWidth = 4

// entry captures a single search result. 24 bytes; with the 8-byte bucket pointer that
// references it, a slot takes 32 bytes.
type entry struct {
	hash       board.ZobristHash // full hash, to validate a bucket slot on probe
	score      eval.Score
	from, to   board.Square
	promotion  board.Piece
	bound      Bound
	depth      uint16
	generation uint32
}

func (e *entry) move() board.Move {
	if e.from == e.to {
		return board.Move{}
	}
	return board.Move{From: e.from, To: e.to, Promotion: e.promotion}
}

// bucket holds bucketWidth candidate entries for one index, open-addressed: a probe or
// store scans the whole bucket rather than displacing to another index.
type bucket [bucketWidth]unsafe.Pointer // *entry

// table is a lock-free, power-of-two-sized, bucketed transposition table. Every slot is
// updated via atomic CAS so concurrent searchers never block each other; a lost race only
// costs a probe or store, never correctness, since entries are validated against the full
// hash before use.
type table struct {
	buckets    []bucket
	mask       uint64
	used       int64
	generation uint32
}

func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1<<(63-5-bits.LeadingZeros64(size))) / bucketWidth // 32 bytes per slot
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB TT with %v buckets of width %v", size>>20, n, bucketWidth)

	return &table{
		buckets: make([]bucket, n),
		mask:    n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.buckets)) * bucketWidth * 32
}

func (t *table) Used() float64 {
	used := atomic.LoadInt64(&t.used)
	return float64(used) / float64(uint64(len(t.buckets))*bucketWidth)
}

func (t *table) NewGeneration() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *table) Probe(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	b := &t.buckets[uint64(hash)&t.mask]
	for i := range b {
		e := (*entry)(atomic.LoadPointer(&b[i]))
		if e != nil && e.hash == hash {
			return e.bound, int(e.depth), e.score, e.move(), true
		}
	}
	return ExactBound, 0, 0, board.Move{}, false
}

// Store picks a slot in the bucket in this order: the slot already holding this position,
// an empty slot, the entry from the oldest earlier generation, then the shallowest entry.
// It skips the write if the chosen slot holds another position from the current generation
// that is strictly deeper. This keeps deep, still-relevant entries from the current search
// alive while still evicting stale entries from a prior search.
func (t *table) Store(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) {
	b := &t.buckets[uint64(hash)&t.mask]
	gen := atomic.LoadUint32(&t.generation)

	fresh := &entry{
		hash:       hash,
		score:      score,
		from:       move.From,
		to:         move.To,
		promotion:  move.Promotion,
		bound:      bound,
		depth:      uint16(depth),
		generation: gen,
	}

	match, empty, shallow, oldest := -1, -1, -1, -1
	shallowestDepth, oldestGen := uint16(1<<16-1), gen

	for i := range b {
		e := (*entry)(atomic.LoadPointer(&b[i]))
		if e == nil {
			empty = i
			continue
		}
		if e.hash == hash {
			match = i
		}
		if e.depth < shallowestDepth {
			shallowestDepth, shallow = e.depth, i
		}
		if e.generation < oldestGen {
			oldestGen, oldest = e.generation, i
		}
	}

	slot := match
	if slot < 0 {
		slot = empty
	}
	if slot < 0 {
		slot = oldest
	}
	if slot < 0 {
		slot = shallow
	}
	if slot < 0 {
		return
	}

	old := (*entry)(atomic.LoadPointer(&b[slot]))
	if old != nil && old.hash != hash && old.generation == gen && old.depth > fresh.depth {
		return // skip: existing same-generation entry is strictly deeper
	}
	if atomic.CompareAndSwapPointer(&b[slot], unsafe.Pointer(old), unsafe.Pointer(fresh)) && old == nil {
		atomic.AddInt64(&t.used, 1)
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// WriteFilter is a predicate on the Store operation.
type WriteFilter func(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool

// WriteLimited is a TranspositionTable wrapper that ignores certain writes, such as less
// than a given minimum depth. Useful if evaluation uses recent move history.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Probe(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return w.TT.Probe(hash)
}

func (w WriteLimited) Store(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) {
	if w.Filter(hash, bound, depth, score, move) {
		return
	}
	w.TT.Store(hash, bound, depth, score, move)
}

func (w WriteLimited) NewGeneration() { w.TT.NewGeneration() }
func (w WriteLimited) Size() uint64   { return w.TT.Size() }
func (w WriteLimited) Used() float64  { return w.TT.Used() }

// NewMinDepthTranspositionTable creates depth-limited TranspositionTables.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a Nop implementation.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Probe(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return ExactBound, 0, 0, board.Move{}, false
}

func (n NoTranspositionTable) Store(hash board.ZobristHash, bound Bound, depth int, score eval.Score, move board.Move) {
}

func (n NoTranspositionTable) NewGeneration() {}
func (n NoTranspositionTable) Size() uint64   { return 0 }
func (n NoTranspositionTable) Used() float64  { return 0 }
