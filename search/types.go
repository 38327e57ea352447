// Package search is the core this repository exists to build: an
// iterative-deepening, aspiration-windowed, principal-variation
// search over positions supplied by the chess package, backed by a
// racy shared transposition table and a lazy-SMP worker pool. Every
// other package here (chess, eval, tablebase) is an external
// collaborator this package only ever calls through an interface.
package search

import "github.com/corvid-chess/corvid/chess"

// Score bounds and reserved magnitudes, in the order the spec fixes:
// Infinity > Checkmate > TablebaseWin > KnownWin > ordinary scores.
const (
	Infinity     = 32001
	Checkmate    = 32000
	MaxSearchDepth = 127
	TablebaseWin = Checkmate - 1000
	KnownWin     = TablebaseWin - 1000
)

// ValueWin/ValueLoss are the thresholds ScoreToTT, ScoreFromTT and
// NewUciScore use to decide whether a score already represents a
// forced mate reachable within the remaining search horizon.
const (
	ValueWin  = Checkmate - 2*MaxSearchDepth
	ValueLoss = -ValueWin
)

func WinIn(height int) int  { return Checkmate - height }
func LossIn(height int) int { return -Checkmate + height }

// Bound is the TTEntry's stored relationship between the score and
// the window it was computed in.
type Bound uint8

const (
	BoundInvalid Bound = iota
	BoundLower
	BoundUpper
	BoundExact
)

// TTMoveSlots is K in the spec's `moves: [PackedMove; K]` TTEntry
// field — the number of best-move hints merged and carried per entry.
const TTMoveSlots = 2

// MoveFilter is the NodeInfo field multi-PV and singular-move
// verification use to hide already-searched or currently-verified
// moves from the move picker, per spec §3's `move_filter`.
type MoveFilter struct {
	Moves []chess.Move
}

func (f *MoveFilter) Excludes(m chess.Move) bool {
	for _, excluded := range f.Moves {
		if excluded == m {
			return true
		}
	}
	return false
}

// NodeInfo is the per-ply search frame described in spec §3. Child
// frames back-reference their parent; the back-reference is
// non-owning, since the parent's stack slot outlives the child by
// construction (both live in the same thread's pre-allocated stack).
type NodeInfo struct {
	Parent *NodeInfo
	Height int // ply from root
	Depth  int

	Alpha, Beta int

	PvIndex int
	PV      []chess.Move

	Move          chess.Move // move that led to this node
	InCheck       bool
	IsPVFromPrev  bool
	IsNullMove    bool
	IsCutNode     bool
	IsSingularSearch bool

	MoveFilter MoveFilter

	hasStaticEval bool
	StaticEval    int

	EvalCtx interface{} // opaque evaluator-context handle, spec §5
}

func (n *NodeInfo) ClearPV() {
	n.PV = n.PV[:0]
}

func (n *NodeInfo) AssignPV(move chess.Move, childPV []chess.Move) {
	n.PV = append(n.PV[:0], move)
	n.PV = append(n.PV, childPV...)
}

func (n *NodeInfo) CachedStaticEval() (int, bool) {
	return n.StaticEval, n.hasStaticEval
}

func (n *NodeInfo) SetStaticEval(v int) {
	n.StaticEval = v
	n.hasStaticEval = true
}

// Limits is spec §3's SearchLimits.
type Limits struct {
	MaxDepth   int
	MaxNodes   uint64
	MaxTime    int64 // nanoseconds, hard limit

	IdealTimeBase    int64
	IdealTimeCurrent int64
	RootSingularityTime int64

	TimeIncrementRatio float64
	AnalysisMode       bool
	StartTime          int64

	// TimeManager, when non-nil, lets the main thread's
	// IterativeDeepening loop rescale its own soft budget between
	// depths (spec §4.8/§5's "soft check ... only at depth
	// boundaries"). Helper threads never read it.
	TimeManager *TimeManager

	// CurrentMoveReport, when non-nil, lets the main thread's root move
	// loop announce the move currently under search once
	// Config.CurrentMoveReportDelayMs has elapsed since StartTime (spec
	// §6's `info depth D currmove M currmovenumber I`). Helper threads
	// never call it.
	CurrentMoveReport func(depth, moveNumber int, move chess.Move)
}
