package search

import (
	"sync/atomic"
	"time"

	"github.com/corvid-chess/corvid/chess"
	"github.com/corvid-chess/corvid/eval"
	"github.com/corvid-chess/corvid/tablebase"
)

// errTimeout is the sentinel the node-budget check panics with to
// unwind an in-flight search the instant the stop flag or a hard
// limit trips, rather than threading a bool return through every
// recursive call. Each worker's IterativeDeepening recovers it in a
// deferred handler.
type errTimeout struct{}

// Worker is one lazy-SMP search thread's private state: its own
// per-ply stack of positions/NodeInfo/killers/evaluator-contexts, its
// own quiet-move history table, and a thread-local Stats batch. The
// only state shared with other workers is the Table, the atomic stop
// flag, and the global Stats it flushes into.
type Worker struct {
	ID int

	TT        *Table
	Config    *Config
	Evaluator eval.Evaluator
	Prober    tablebase.Prober
	History   *History
	Stats     *ThreadStats
	Stop      *atomic.Bool

	// NodeCache is non-nil only for the main thread (IsMain): it feeds
	// the time manager's bestMoveNodeFraction signal and has no effect
	// on search correctness, per spec §4.2.
	NodeCache *NodeCache

	positions [MaxSearchDepth + 2]chess.Position
	nodes     [MaxSearchDepth + 2]NodeInfo
	killers   [MaxSearchDepth + 2]Killers
	evalCtxs  [MaxSearchDepth + 2]*eval.Context

	gameHistory []uint64 // hash keys of the game's positions, ending with the search root's own

	Limits *Limits

	nodesSinceTimeCheck int
	IsMain              bool

	// RootShuffleStride rotates the root move list before scoring, so
	// lazy-SMP helper threads explore a different tie-break order than
	// thread 0. Zero (the default, and always zero on thread 0) means
	// no rotation; see NewMainMovePicker.
	RootShuffleStride int
}

func NewWorker(id int, tt *Table, cfg *Config, evaluator eval.Evaluator, prober tablebase.Prober, stop *atomic.Bool, shared *Stats) *Worker {
	var w = &Worker{
		ID:        id,
		TT:        tt,
		Config:    cfg,
		Evaluator: evaluator,
		Prober:    prober,
		History:   NewHistory(),
		Stats:     NewThreadStats(shared),
		Stop:      stop,
		IsMain:    id == 0,
	}
	for i := range w.evalCtxs {
		w.evalCtxs[i] = eval.NewContext(i)
	}
	return w
}

func (w *Worker) Prepare(root *chess.Position, gameHistory []uint64, limits *Limits) {
	w.positions[0] = *root
	w.gameHistory = gameHistory
	w.Limits = limits
	w.nodes[0] = NodeInfo{Height: 0, InCheck: root.IsCheck()}
	for i := range w.killers {
		w.killers[i] = Killers{}
	}
	for i := range w.evalCtxs {
		w.evalCtxs[i].MarkDirty()
	}
}

func (w *Worker) RootPosition() *chess.Position { return &w.positions[0] }

// MakeMove plays m from the position at height, writing the child
// into height+1's slot, and returns false if m turned out illegal
// (left the mover's own king in check). It also marks the child's
// evaluator context dirty, per spec §5.
func (w *Worker) MakeMove(height int, m chess.Move) bool {
	if !w.positions[height].MakeMove(m, &w.positions[height+1]) {
		return false
	}
	w.nodes[height+1] = NodeInfo{
		Parent:  &w.nodes[height],
		Height:  height + 1,
		Move:    m,
		InCheck: w.positions[height+1].IsCheck(),
	}
	w.evalCtxs[height+1].MarkDirty()
	return true
}

func (w *Worker) MakeNullMove(height int) {
	w.positions[height].MakeNullMove(&w.positions[height+1])
	w.nodes[height+1] = NodeInfo{
		Parent:     &w.nodes[height],
		Height:     height + 1,
		IsNullMove: true,
	}
	w.evalCtxs[height+1].MarkDirty()
}

func (w *Worker) Position(height int) *chess.Position { return &w.positions[height] }
func (w *Worker) Node(height int) *NodeInfo            { return &w.nodes[height] }
func (w *Worker) Killers(height int) *Killers          { return &w.killers[height] }
func (w *Worker) EvalContext(height int) *eval.Context { return w.evalCtxs[height] }

func (w *Worker) StaticEval(height int) int {
	var n = &w.nodes[height]
	if v, ok := n.CachedStaticEval(); ok {
		return v
	}
	var v = int(w.Evaluator.Evaluate(&w.positions[height], w.evalCtxs[height]))
	n.SetStaticEval(v)
	return v
}

// IncNode accounts a visited node and, every 256 nodes (spec §5), polls
// the stop flag and the hard time limit, panicking with errTimeout if
// either has tripped.
func (w *Worker) IncNode() {
	w.Stats.IncNode()
	w.nodesSinceTimeCheck++
	if w.nodesSinceTimeCheck >= 256 {
		w.nodesSinceTimeCheck = 0
		w.checkTime()
	}
}

func (w *Worker) IncQuiescenceNode() {
	w.Stats.IncQuiescenceNode()
	w.nodesSinceTimeCheck++
	if w.nodesSinceTimeCheck >= 256 {
		w.nodesSinceTimeCheck = 0
		w.checkTime()
	}
}

func (w *Worker) checkTime() {
	if w.Stop.Load() {
		panic(errTimeout{})
	}
	if w.Limits != nil && w.Limits.MaxTime > 0 {
		if time.Now().UnixNano()-w.Limits.StartTime >= w.Limits.MaxTime {
			w.Stop.Store(true)
			panic(errTimeout{})
		}
	}
	if w.Limits != nil && w.Limits.MaxNodes > 0 && w.Stats.shared.Nodes() >= w.Limits.MaxNodes {
		w.Stop.Store(true)
		panic(errTimeout{})
	}
}

func (w *Worker) CheckStopAtRoot() bool {
	return w.Stop.Load()
}

// IsDraw is the qsearch draw test (spec §4.4): insufficient material
// only, no repetition/50-move — the caller may not have threaded path
// state down this far.
func IsDraw(p *chess.Position) bool {
	return isInsufficientMaterial(p)
}

func isInsufficientMaterial(p *chess.Position) bool {
	if p.Pawns != 0 || p.Rooks != 0 || p.Queens != 0 {
		return false
	}
	var minorCount = chess.PopCount(p.Knights | p.Bishops)
	return minorCount <= 1
}

// IsDrawAtNode is the Negamax draw test (spec §4.5): 50-move rule,
// insufficient material, or repetition against the search path or the
// pre-root game history.
func (w *Worker) IsDrawAtNode(height int) bool {
	var p = &w.positions[height]
	if p.Rule50 >= 100 {
		return true
	}
	if isInsufficientMaterial(p) {
		return true
	}
	return w.isRepeat(height)
}

func (w *Worker) isRepeat(height int) bool {
	var p = &w.positions[height]
	var end = p.Rule50
	if end > height {
		end = height
	}
	for i := 2; i <= end; i += 2 {
		if p.IsRepetition(&w.positions[height-i]) {
			return true
		}
	}
	// Positions older than the in-search stack may repeat something
	// played earlier in the actual game. gameHistory ends with the
	// root's key, so gameHistory[n-j] lies height+j-1 plies back.
	var n = len(w.gameHistory)
	for j := 2; j <= n; j++ {
		var back = height + j - 1
		if back > p.Rule50 {
			break
		}
		if back%2 == 0 && w.gameHistory[n-j] == p.Hash() {
			return true
		}
	}
	return false
}

// canReachGameCycle is spec §4.5's "detect game-cycle upgrade": when
// the side to move is losing (alpha < 0) but holds a reversible move
// that repeats a position already on the search path or in the
// pre-root game history, the position is really a draw upgrade —
// alpha should not be trusted below 0. Only non-pawn, non-capture
// moves are considered since only those can recreate an earlier
// position (a capture or pawn push is irreversible).
func (w *Worker) canReachGameCycle(height int) bool {
	var p = &w.positions[height]
	var buffer [chess.MaxMoves]chess.OrderedMove
	var ml = p.GenerateMoves(buffer[:])
	for i := range ml {
		var m = ml[i].Move
		if m.IsCaptureOrPromotion() || m.MovingPiece() == chess.Pawn {
			continue
		}
		var next chess.Position
		if !p.MakeMove(m, &next) {
			continue
		}
		if w.positionRepeatsPath(height, &next) {
			return true
		}
	}
	return false
}

// positionRepeatsPath reports whether next — the position one ply
// beyond height — equals a position already seen earlier on the
// search path or pre-root game history, at the same side-to-move
// parity; it mirrors isRepeat shifted one ply forward.
func (w *Worker) positionRepeatsPath(height int, next *chess.Position) bool {
	var end = next.Rule50
	if end > height+1 {
		end = height + 1
	}
	for i := 2; i <= end; i += 2 {
		if next.IsRepetition(&w.positions[height+1-i]) {
			return true
		}
	}
	var n = len(w.gameHistory)
	for j := 2; j <= n; j++ {
		var back = height + j
		if back > next.Rule50 {
			break
		}
		if back%2 == 0 && w.gameHistory[n-j] == next.Hash() {
			return true
		}
	}
	return false
}
