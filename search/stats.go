package search

import "sync/atomic"

// flushPeriod is how often a thread-local batch is folded into the
// shared Stats (spec §3: "flush to the global counters every 64
// nodes"). It only governs the counter flush cadence; the stop flag
// is polled on a separate 256-node period (spec §5: "every 256 nodes
// elsewhere") in Worker.IncNode and Worker.IncQuiescenceNode.
const flushPeriod = 64

// Stats is the shared, atomically-updated counter block spec §3
// names: nodes, quiescence nodes and the maximum depth reached so
// far. Workers maintain their own ThreadStats batch and fold it in
// here periodically; reads may race with in-flight flushes, which is
// fine, since every consumer of these counters (UCI info lines, the
// time manager) tolerates a slightly stale value.
type Stats struct {
	nodes           atomic.Uint64
	quiescenceNodes atomic.Uint64
	maxDepth        atomic.Uint64
}

func (s *Stats) Nodes() uint64           { return s.nodes.Load() }
func (s *Stats) QuiescenceNodes() uint64 { return s.quiescenceNodes.Load() }
func (s *Stats) MaxDepth() int           { return int(s.maxDepth.Load()) }

func (s *Stats) addNodes(n uint64) {
	s.nodes.Add(n)
}

func (s *Stats) addQuiescenceNodes(n uint64) {
	s.quiescenceNodes.Add(n)
}

func (s *Stats) bumpMaxDepth(depth int) {
	var d = uint64(depth)
	for {
		var cur = s.maxDepth.Load()
		if d <= cur {
			return
		}
		if s.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

func (s *Stats) Reset() {
	s.nodes.Store(0)
	s.quiescenceNodes.Store(0)
	s.maxDepth.Store(0)
}

// ThreadStats is the per-worker local batch; it avoids a shared
// atomic increment on every single node visited.
type ThreadStats struct {
	shared          *Stats
	localNodes      uint64
	localQS         uint64
	totalNodes      uint64 // this thread's lifetime node count, never reset by Flush
}

func NewThreadStats(shared *Stats) *ThreadStats {
	return &ThreadStats{shared: shared}
}

// TotalNodes returns the nodes this thread alone has visited since
// creation; unlike the shared Stats, it's single-writer and needs no
// atomics, which is what NodeCache's per-root-move accounting wants.
func (t *ThreadStats) TotalNodes() uint64 { return t.totalNodes }

func (t *ThreadStats) IncNode() {
	t.localNodes++
	t.totalNodes++
	if t.localNodes >= flushPeriod {
		t.Flush()
	}
}

func (t *ThreadStats) IncQuiescenceNode() {
	t.localQS++
	t.localNodes++
	t.totalNodes++
	if t.localNodes >= flushPeriod {
		t.Flush()
	}
}

func (t *ThreadStats) ReportDepth(depth int) {
	t.shared.bumpMaxDepth(depth)
}

// Flush folds the thread-local batch into the shared counters; safe
// to call redundantly (e.g. on search exit after a partial batch).
func (t *ThreadStats) Flush() {
	if t.localNodes != 0 {
		t.shared.addNodes(t.localNodes)
		t.localNodes = 0
	}
	if t.localQS != 0 {
		t.shared.addQuiescenceNodes(t.localQS)
		t.localQS = 0
	}
}
