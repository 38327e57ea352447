package search

import "math"

// TimeManager is the spec §4.8 component: it computes the ideal/max
// time budget at the start of a search and rescales the ideal budget
// between iterations using move-stability and node-fraction signals.
// A score-change factor is also computed and exposed through
// ScoreChangeFactor, but it does not scale the budget. Formulas and constants are grounded on the
// LeelaChessZero-style estimator the ancestor engine's original
// implementation used.
type TimeManager struct {
	moveTime        int64 // fixed move time in ns, 0 if not set
	idealBase       int64
	idealCurrent    int64
	maxTime         int64
	rootSingularity int64

	lastScore      int
	haveLastScore  bool
	stabilityCount int
	lastBestMove   uint32

	incrementRatio        float64
	lastScoreChangeFactor float64
}

// TimeInput mirrors the UCI `go` command's time-control fields.
type TimeInput struct {
	RemainingNs  int64
	IncrementNs  int64
	MovesToGo    int
	MoveOverhead int64 // ns
	MoveTimeNs   int64 // fixed-move-time mode when nonzero
}

const (
	movesLeftMidpoint   = 41.0
	movesLeftSteepness  = 2.13
	idealTimeFactor     = 0.830
	nodesCountScale     = 1.99
	nodesCountOffset    = 0.53
	stabilityScale      = 0.037
	stabilityOffset     = 1.254
)

// estimateMovesLeft is the LeelaChessZero-style estimator spec §4.8
// gives: `mid*(1+1.5*(m/mid)^s)^(1/s) - m`. The game's move number is
// not an input here, so the formula is evaluated at m = mid and the
// estimate without movesToGo is a constant (about 22 moves).
func estimateMovesLeft(movesToGo int) float64 {
	if movesToGo > 0 {
		return float64(movesToGo)
	}
	const mid = movesLeftMidpoint
	const s = movesLeftSteepness
	var m = mid
	return mid*math.Pow(1+1.5*math.Pow(m/mid, s), 1/s) - m
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewTimeManager is spec §4.8's `init(game, input, limits)`.
func NewTimeManager(in TimeInput) *TimeManager {
	var tm = &TimeManager{}

	if in.MoveTimeNs > 0 {
		tm.moveTime = in.MoveTimeNs
		tm.idealBase = in.MoveTimeNs
		tm.idealCurrent = in.MoveTimeNs
		tm.maxTime = in.MoveTimeNs
		tm.rootSingularity = 0
		return tm
	}

	var movesLeft = estimateMovesLeft(in.MovesToGo)
	if movesLeft < 1 {
		movesLeft = 1
	}

	var remaining = float64(in.RemainingNs)
	var inc = float64(in.IncrementNs)
	var overhead = float64(in.MoveOverhead)

	if remaining > 0 {
		tm.incrementRatio = inc / remaining
	}

	var ideal = idealTimeFactor * (remaining/movesLeft + inc)
	var max = (remaining-overhead)/math.Sqrt(movesLeft) + inc

	var cap = math.Max(1, 0.5*remaining-overhead)
	ideal = clampF(ideal, 0, cap)
	max = clampF(max, 0, cap)

	tm.idealBase = int64(ideal)
	tm.idealCurrent = tm.idealBase
	tm.maxTime = int64(max)
	tm.rootSingularity = int64(0.2 * ideal)

	return tm
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (tm *TimeManager) IdealTime() int64          { return tm.idealCurrent }
func (tm *TimeManager) MaxTime() int64            { return tm.maxTime }
func (tm *TimeManager) RootSingularityTime() int64 { return tm.rootSingularity }
func (tm *TimeManager) IncrementRatio() float64    { return tm.incrementRatio }
func (tm *TimeManager) ScoreChangeFactor() float64 { return tm.lastScoreChangeFactor }

// Update is spec §4.8's `update(depth, bestMoveNodeFraction,
// bestMoveStability, scoreChange)`: applied once per depth, depth ≥ 5.
// Fixed-move-time mode skips the update entirely.
func (tm *TimeManager) Update(depth int, bestMoveNodeFraction float64, bestMove uint32, score int, incrementRatio float64) {
	if tm.moveTime > 0 {
		return
	}
	if depth < 5 {
		return
	}

	if bestMove == tm.lastBestMove {
		tm.stabilityCount++
	} else {
		tm.stabilityCount = 0
	}
	tm.lastBestMove = bestMove

	var scoreChangeFactor = nodesCountOffset
	if tm.haveLastScore {
		var delta = score - tm.lastScore
		if delta > 0 {
			scoreChangeFactor = float64(delta)*0.0003 + nodesCountOffset
		}
	}
	if scoreChangeFactor < 0.5 {
		scoreChangeFactor = 0.5
	}
	if scoreChangeFactor > 1.5 {
		scoreChangeFactor = 1.5
	}
	tm.lastScore = score
	tm.haveLastScore = true
	tm.lastScoreChangeFactor = scoreChangeFactor

	var nodeScale = 2.08 - 0.30*clampF(incrementRatio/0.1, 0, 1)
	var nodeFactor = (1-bestMoveNodeFraction)*nodeScale + 0.46

	var stability = tm.stabilityCount
	if stability > 10 {
		stability = 10
	}
	var stabilityFactor = 1.10 - stabilityScale*float64(stability)

	var ideal = float64(tm.idealBase) * nodeFactor * stabilityFactor
	tm.idealCurrent = int64(ideal)
}
