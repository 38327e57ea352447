package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/corvid-chess/corvid/chess"
	"github.com/corvid-chess/corvid/eval"
	"github.com/corvid-chess/corvid/tablebase"
)

// Coordinator is the spec §5 SearchCoordinator: it owns the shared
// Table and Stats, the atomic stop flag, and fans a root search out
// across Config.Threads lazy-SMP workers via errgroup.Group, the way
// the ancestor engine's lazysmp.go fans work out with a WaitGroup and
// channels — errgroup additionally propagates the first error a
// worker returns to the caller instead of silently swallowing it. A
// worker panic other than the timeout sentinel is re-raised by
// IterativeDeepening, not turned into an error.
type Coordinator struct {
	TT        *Table
	Config    *Config
	Evaluator eval.Evaluator
	Prober    tablebase.Prober
	Stats     Stats

	// NodeCache feeds the main thread's time-manager node-fraction
	// signal (spec §4.2); it persists across searches like the TT so
	// GetOrAlloc's generation-based reclamation has something to do.
	NodeCache *NodeCache

	stop atomic.Bool

	// SessionID is a random id generated once per coordinator; it has
	// no effect on search results and is not printed by the uci package.
	SessionID uuid.UUID
}

// nodeCacheEntries is the fixed entry count for the root-move node
// cache; unlike the TT, it is never sized from a UCI option.
const nodeCacheEntries = 1 << 14

func NewCoordinator(cfg *Config, evaluator eval.Evaluator, prober tablebase.Prober) *Coordinator {
	return &Coordinator{
		TT:        NewTable(cfg.HashMB),
		Config:    cfg,
		Evaluator: evaluator,
		Prober:    prober,
		NodeCache: NewNodeCache(nodeCacheEntries),
		SessionID: uuid.New(),
	}
}

func (c *Coordinator) Stop() { c.stop.Store(true) }

func (c *Coordinator) Clear() {
	c.TT.Clear()
	c.NodeCache.Reset()
	c.Stats.Reset()
}

// SearchResult is the best move plus diagnostics the coordinator
// reports once thread 0 finishes (or every helper finishes, since
// spec §5 says only thread 0's output is authoritative — helpers
// contribute nodes/TT entries but their own PV is discarded).
type SearchResult struct {
	BestMove chess.Move
	Score    int
	PV       []chess.Move
	Depth    int
}

// Search runs the lazy-SMP fan-out: one worker per configured thread,
// all sharing c.TT and c.Stats, each running its own
// IterativeDeepening over root. Thread 0 is the only worker whose
// onDepth callback the caller observes; helper threads run silently
// and exist only to diversify exploration and populate the TT.
//
// The supplied context cancels the search the same way stop_search()
// does: its Done() channel is polled alongside the stop flag.
func (c *Coordinator) Search(ctx context.Context, root *chess.Position, gameHistory []uint64, limits *Limits, onDepth func(IterationReport) bool) (SearchResult, error) {
	c.stop.Store(false)
	c.NodeCache.OnNewSearch()

	var group, gctx = errgroup.WithContext(ctx)
	var result SearchResult
	var mainWorker = NewWorker(0, c.TT, c.Config, c.Evaluator, c.Prober, &c.stop, &c.Stats)
	mainWorker.Prepare(root, gameHistory, limits)
	mainWorker.History.Clear()
	mainWorker.NodeCache = c.NodeCache

	group.Go(func() error {
		defer mainWorker.Stats.Flush()
		return mainWorker.IterativeDeepening(limits.MaxDepth, func(r IterationReport) bool {
			if len(r.PVLines) > 0 {
				result.Depth = r.Depth
				result.PV = r.PVLines[0].Moves
				result.Score = r.PVLines[0].Score
				if len(result.PV) > 0 {
					result.BestMove = result.PV[0]
				}
			}
			var keepGoing = true
			if onDepth != nil {
				keepGoing = onDepth(r)
			}
			if !keepGoing {
				c.stop.Store(true)
			}
			return keepGoing
		})
	})

	for id := 1; id < c.Config.Threads; id++ {
		var helper = NewWorker(id, c.TT, c.Config, c.Evaluator, c.Prober, &c.stop, &c.Stats)
		helper.Prepare(root, gameHistory, limits)
		helper.History.Clear()
		randomizeRootOrder(helper, id)

		group.Go(func() error {
			defer helper.Stats.Flush()
			return helper.IterativeDeepening(0, func(IterationReport) bool {
				return !c.stop.Load()
			})
		})
	}

	go func() {
		select {
		case <-gctx.Done():
			c.stop.Store(true)
		case <-doneSignal(limits):
		}
	}()

	var err = group.Wait()
	return result, err
}

// randomizeRootOrder is the lazy-SMP diversification hook spec §5
// mentions ("helper threads ... randomize their root move order"). A
// deterministic, seed-free rotation keyed only by the worker id is
// used so a single-thread search stays bitwise deterministic (spec
// §8's "Determinism with 1 thread" invariant) while still giving each
// helper a distinct root move order: w.RootShuffleStride is read by
// Negamax at height 0 and fed into NewMainMovePicker.
func randomizeRootOrder(w *Worker, workerID int) {
	var n = len(w.RootPosition().GenerateLegalMoves())
	if n < 2 {
		w.RootShuffleStride = 0
		return
	}
	w.RootShuffleStride = 1 + workerID%(n-1)
}

func doneSignal(limits *Limits) <-chan time.Time {
	if limits == nil || limits.MaxTime <= 0 {
		return make(chan time.Time)
	}
	var remaining = time.Duration(limits.MaxTime - (time.Now().UnixNano() - limits.StartTime))
	if remaining < 0 {
		remaining = 0
	}
	return time.After(remaining)
}
