package search

import (
	"fmt"
	"time"

	"github.com/corvid-chess/corvid/chess"
)

// PVLine is one reported principal variation: the move sequence and
// its score, as the outer loop hands it to the caller after each
// completed (depth, pv-index) pair.
type PVLine struct {
	Moves []chess.Move
	Score int
	Bound Bound
}

// IterationReport is what IterativeDeepening hands back to its caller
// after every completed depth, mirroring the spec §6 UCI `info` line
// fields.
type IterationReport struct {
	Depth   int
	PVLines []PVLine
	Nodes   uint64

	// DebugLines are additional `info string` diagnostics (spec §12),
	// populated only when Config.DebugLog is set: the time manager's
	// per-depth idealTime/maxTime/scoreChangeFactor decision, and a
	// note when the root move is declared singular.
	DebugLines []string
}

// IterativeDeepening is the spec §4.7 outer loop: for depth = 1...
// max_depth, for each of MultiPV lines, exclude previously selected
// best moves via the root node's move_filter and call Aspiration.
// onDepth is invoked after every completed depth with the full set of
// PV lines found so far; it returns false to request a stop (e.g. the
// UCI layer observed `stop` or the time manager's soft budget).
func (w *Worker) IterativeDeepening(maxDepth int, onDepth func(IterationReport) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errTimeout); ok {
				err = nil
				return
			}
			panic(r)
		}
	}()

	var root = &w.positions[0]
	var legalMoves = root.GenerateLegalMoves()

	if len(legalMoves) == 0 {
		var report = IterationReport{Depth: 0}
		if root.IsCheck() {
			report.PVLines = []PVLine{{Score: LossIn(0)}}
		} else {
			report.PVLines = []PVLine{{Score: 0}}
		}
		onDepth(report)
		return nil
	}

	if len(legalMoves) == 1 && !w.Config.AnalysisMode {
		onDepth(IterationReport{Depth: 0, PVLines: []PVLine{{Moves: legalMoves, Score: 0}}})
		return nil
	}

	var cfg = w.Config
	var prevScores = make([]int, cfg.MultiPV)
	var havePrevScore = false
	var mateCounter = 0

	for depth := 1; depth <= maxDepth || maxDepth == 0; depth++ {
		var node = &w.nodes[0]
		var lines = make([]PVLine, 0, cfg.MultiPV)
		var excluded []chess.Move

		for pvIndex := 0; pvIndex < cfg.MultiPV && pvIndex < len(legalMoves); pvIndex++ {
			node.PvIndex = pvIndex
			node.MoveFilter = MoveFilter{Moves: excluded}

			var prev = 0
			if pvIndex < len(prevScores) {
				prev = prevScores[pvIndex]
			}

			var score = w.Aspiration(depth, prev, havePrevScore, nil)

			var pv = append([]chess.Move{}, node.PV...)
			if len(pv) == 0 && len(legalMoves) > 0 {
				pv = []chess.Move{legalMoves[0]}
			}
			lines = append(lines, PVLine{Moves: pv, Score: score, Bound: BoundExact})
			if pvIndex < len(prevScores) {
				prevScores[pvIndex] = score
			}
			if len(pv) > 0 {
				excluded = append(excluded, pv[0])
			}

			if w.Stop.Load() {
				break
			}
		}
		node.MoveFilter = MoveFilter{}
		havePrevScore = true

		if len(lines) > 0 && absInt(lines[0].Score) >= ValueWin {
			mateCounter++
		} else {
			mateCounter = 0
		}

		var debugLines []string
		var singular = w.rootMoveIsSingular(depth, lines, legalMoves)
		if singular && cfg.DebugLog {
			debugLines = append(debugLines, "info string singular root move")
		}

		var softBudgetExceeded = w.updateTimeManagerAndLog(depth, lines, &debugLines)

		if !onDepth(IterationReport{Depth: depth, PVLines: lines, Nodes: w.Stats.shared.Nodes(), DebugLines: debugLines}) {
			return nil
		}

		if w.Stop.Load() {
			return nil
		}

		if maxDepth == 0 && mateCounter >= cfg.MateCountStopCondition {
			return nil
		}

		if singular {
			return nil
		}

		if softBudgetExceeded {
			return nil
		}
	}

	return nil
}

// updateTimeManagerAndLog is spec §5's "thread 0 ... updates the
// TimeManager" and spec §12's idealTime/maxTime/scoreChangeFactor
// diagnostic line; it appends to debugLines when Config.DebugLog is
// set and reports whether the soft budget (spec §5: "compares against
// ideal_time_current only at depth boundaries") has been exceeded. A
// no-op for helper threads and for searches with no time-based
// TimeManager (fixed depth/node/infinite searches).
func (w *Worker) updateTimeManagerAndLog(depth int, lines []PVLine, debugLines *[]string) bool {
	if !w.IsMain || w.Limits == nil || w.Limits.TimeManager == nil || w.Limits.MaxTime <= 0 {
		return false
	}
	var tm = w.Limits.TimeManager

	var bestMoveEncoded uint32
	var score int
	if len(lines) > 0 {
		score = lines[0].Score
		if len(lines[0].Moves) > 0 {
			bestMoveEncoded = uint32(lines[0].Moves[0])
		}
	}

	var bestMoveNodeFraction = 0.0
	if w.NodeCache != nil {
		if entry := w.NodeCache.TryGet(&w.positions[0]); entry != nil {
			bestMoveNodeFraction = entry.BestMoveNodeFraction()
		}
	}

	var incRatio = tm.IncrementRatio()
	tm.Update(depth, bestMoveNodeFraction, bestMoveEncoded, score, incRatio)

	if w.Config.DebugLog {
		*debugLines = append(*debugLines, fmt.Sprintf(
			"info string idealTime %d maxTime %d scoreChangeFactor %.3f",
			tm.IdealTime(), tm.MaxTime(), tm.ScoreChangeFactor()))
	}

	return time.Now().UnixNano()-w.Limits.StartTime >= tm.IdealTime()
}

// rootMoveIsSingular implements spec §4.7's root-move singularity
// check: at depth ≥ RootSingularityMinDepth with |score| below the
// configured ceiling, verify the best move against the field with a
// narrow window; if the field fails low, the best move is declared
// singular and the search stops early.
func (w *Worker) rootMoveIsSingular(depth int, lines []PVLine, legalMoves []chess.Move) bool {
	var cfg = w.Config
	if depth < cfg.RootSingularityMinDepth || len(lines) == 0 {
		return false
	}
	if w.Limits != nil && w.Limits.RootSingularityTime > 0 {
		if time.Now().UnixNano()-w.Limits.StartTime < w.Limits.RootSingularityTime {
			return false
		}
	}
	var best = lines[0]
	if absInt(best.Score) >= cfg.RootSingularityMaxScore || len(best.Moves) == 0 {
		return false
	}

	var threshold = 400 - (depth-cfg.RootSingularityMinDepth)*20
	if threshold < 200 {
		threshold = 200
	}
	var sBeta = best.Score - threshold

	var node = &w.nodes[0]
	var saved = node.MoveFilter
	node.MoveFilter = MoveFilter{Moves: []chess.Move{best.Moves[0]}}
	var verify = w.Negamax(0, depth/2, sBeta-1, sBeta, false)
	node.MoveFilter = saved

	return verify < sBeta
}
