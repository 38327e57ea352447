package search

import (
	"time"

	"github.com/corvid-chess/corvid/chess"
)

// Negamax is the spec §4.5 main search: principal-variation search
// with null-move pruning, late-move reductions, futility and SEE
// pruning, singular extensions, and internal iterative reduction. It
// recurses to QSearch at depth ≤ 0.
func (w *Worker) Negamax(height, depth, alpha, beta int, cutNode bool) int {
	w.IncNode()
	w.Stats.ReportDepth(height)

	var node = &w.nodes[height]
	node.Depth = depth
	node.Alpha, node.Beta = alpha, beta
	node.ClearPV()

	var isRoot = height == 0
	var isPV = beta-alpha > 1
	var hasFilter = len(node.MoveFilter.Moves) > 0

	if !isRoot && alpha < 0 && w.canReachGameCycle(height) {
		alpha = 0
		if alpha >= beta {
			return alpha
		}
	}

	if !isRoot {
		if a, b, stop := MateDistancePrune(alpha, beta, height); stop {
			return a
		} else {
			alpha, beta = a, b
		}
	}

	if depth <= 0 {
		return w.QSearch(height, 0, alpha, beta)
	}

	var p = &w.positions[height]

	if !isRoot && w.IsDrawAtNode(height) {
		return 0
	}

	var ply = height

	var ttEntry Entry
	var hasTT = w.TT.Read(p.Hash(), &ttEntry)
	var ttMove chess.Move

	if hasTT && !hasFilter && ttEntry.Depth >= depth && !isPV && p.Rule50 < 90 {
		var ttScore = ScoreFromTT(ttEntry.Score, ply, p.Rule50)
		switch {
		case ttEntry.Bound == BoundExact:
			return ttScore
		case ttEntry.Bound == BoundLower && ttScore >= beta:
			return beta
		case ttEntry.Bound == BoundUpper && ttScore <= alpha:
			return alpha
		}
	}

	var inCheck = node.InCheck

	if w.Prober != nil && w.Prober.Available() && !isRoot {
		var pieces = tablebasePieceCount(p)
		if pieces <= 5 && (depth >= 4 || (node.Move != chess.MoveEmpty && node.Move.IsCaptureOrPromotion())) {
			var result = w.Prober.Probe(p)
			if result.Found {
				var score = tbWdlToScore(int(result.WDL), ply)
				if result.WDL == 0 {
					return 0
				}
				if (result.WDL > 0 && score >= beta) || (result.WDL < 0 && score <= alpha) {
					var bound = BoundLower
					if result.WDL < 0 {
						bound = BoundUpper
					}
					w.TT.Write(p.Hash(), ScoreToTT(score, ply), score, depth, bound, chess.MoveEmpty)
					return score
				}
			}
		}
	}

	var staticEval int
	if inCheck {
		staticEval = -Infinity
	} else if hasTT {
		staticEval = ttEntry.StaticEval
		if (ttEntry.Bound == BoundLower && ttEntry.Score > staticEval) ||
			(ttEntry.Bound == BoundUpper && ttEntry.Score < staticEval) {
			staticEval = ttEntry.Score
		}
		node.SetStaticEval(staticEval)
	} else {
		staticEval = w.StaticEval(height)
	}

	var improving = computeImproving(node, staticEval, inCheck)

	if !isPV && !hasFilter && !inCheck {
		if depth <= 7 && staticEval-beta >= 5+135*(depth-boolToInt(improving)) {
			return staticEval
		}

		if depth <= 5 && alpha < KnownWin && staticEval+2000+256*depth <= alpha {
			return staticEval
		}

		if depth <= 3 && staticEval+20+128*depth < beta {
			var razorScore = w.QSearch(height, 0, beta-1, beta)
			if razorScore < beta {
				return razorScore
			}
		}

		if depth >= 2 && !node.IsNullMove && p.HasNonPawnMaterial(p.WhiteMove) &&
			!(hasTT && ttEntry.Bound == BoundUpper && ttEntry.Score < beta) {
			var r = 4 + depth/4 + minInt(3, (staticEval-beta)/256)
			if r > depth {
				r = depth
			}
			w.MakeNullMove(height)
			var nullScore = -w.Negamax(height+1, depth-r, -beta, -beta+1, !cutNode)
			if nullScore >= beta {
				if absInt(beta) < KnownWin && depth < 10 {
					return nullScore
				}
				var verify = w.Negamax(height, depth-4, beta-1, beta, cutNode)
				if verify >= beta {
					return nullScore
				}
			}
		}
	}

	if depth >= 4 && !hasTT {
		depth -= 1 + depth/4
		node.Depth = depth
	}

	var gr = 0
	if !isPV {
		gr++
	}
	if !improving {
		gr++
	}
	if node.Move != chess.MoveEmpty && node.Move.IsCaptureOrPromotion() {
		gr++
	}

	if inCheck && depth >= 4 {
		depth++
	}

	var killers = &w.killers[height]
	var prev1, prev2 = node.Move, chess.MoveEmpty
	if node.Parent != nil {
		prev2 = node.Parent.Move
	}
	var histCtx = w.History.ContextFor(p.WhiteMove, prev1, prev2)
	if hasTT {
		ttMove = chess.MoveEmpty
		for _, pm := range ttEntry.Moves {
			if pm.IsEmpty() {
				continue
			}
			for _, m := range p.GenerateLegalMoves() {
				if pm.Equals(m) {
					ttMove = m
					break
				}
			}
			if ttMove != chess.MoveEmpty {
				break
			}
		}
	}
	var orderer = NewNodeOrderer(p, histCtx, killers, ttMove)

	var rootShuffleStride = 0
	if height == 0 {
		rootShuffleStride = w.RootShuffleStride
	}

	var buffer [chess.MaxMoves]chess.OrderedMove
	var picker = NewMainMovePicker(buffer[:], p, orderer, &node.MoveFilter, rootShuffleStride)

	var originalAlpha = alpha
	var bestValue = -Infinity
	var bestMove chess.Move
	var moveIndex = 0
	var quietsSearched []chess.Move
	var anyMoveTried = false

	for {
		var m = picker.Next()
		if m == chess.MoveEmpty {
			break
		}

		var moveScore = picker.Score()
		var isQuiet = !m.IsCaptureOrPromotion()
		var isGoodCapture = !isQuiet && int(moveScore) >= GoodCaptureValue

		if !isRoot && !isPV && bestValue > -KnownWin {
			if isQuiet {
				var d = float64(depth)
				if moveIndex >= 3+depth+int(d*d/2)+boolToInt(improving) && depth < 9 {
					continue
				}
				if int(moveScore) < -256*depth-64*depth*depth && depth < 9 {
					continue
				}
				if depth > 1 && depth < 9 && staticEval+32*depth*depth < alpha {
					continue
				}
			}
			if isQuiet && depth <= 8 && !p.StaticExchangeEvaluation(m, -64*depth) {
				continue
			}
			if !isQuiet && !isGoodCapture && depth <= 4 && !p.StaticExchangeEvaluation(m, -120*depth) {
				continue
			}
		}

		if !w.MakeMove(height, m) {
			continue
		}
		anyMoveTried = true
		moveIndex++

		if isRoot && w.IsMain && w.Limits != nil && w.Limits.CurrentMoveReport != nil {
			var elapsed = time.Now().UnixNano() - w.Limits.StartTime
			if elapsed >= w.Config.CurrentMoveReportDelayMs*int64(time.Millisecond) {
				w.Limits.CurrentMoveReport(depth, moveIndex, m)
			}
		}

		var rootNodesBefore uint64
		if isRoot && w.NodeCache != nil {
			rootNodesBefore = w.Stats.TotalNodes()
		}

		var extension = 0
		if m.Promotion() == chess.Queen {
			extension = 1
		} else if isQuiet && isPawnAdvanceToRank6(p, m) {
			extension = 1
		}

		if m == ttMove && depth >= 8 && !hasFilter && ttEntry.Depth >= depth-3 && ttEntry.Bound != BoundUpper {
			var singularBeta = ttEntry.Score - 5 - 2*depth
			var savedFilter = node.MoveFilter
			node.MoveFilter = MoveFilter{Moves: []chess.Move{m}}
			var singularScore = w.Negamax(height, depth/2, singularBeta-1, singularBeta, cutNode)
			node.MoveFilter = savedFilter
			if singularScore < singularBeta {
				extension = 1
			} else if singularBeta >= beta {
				return singularBeta
			} else if ttEntry.Score >= beta {
				extension = 0
			}
		}

		var newDepth = depth - 1 + extension

		var value int
		if moveIndex == 1 {
			value = -w.Negamax(height+1, newDepth, -beta, -alpha, false)
		} else {
			var reduction = 0
			if depth >= 3 && !inCheck && moveIndex > 1 && !isGoodCapture && m.Promotion() != chess.Queen {
				reduction = gr + w.Config.Lmr(depth, moveIndex)
				if int(moveScore) < -8000 {
					reduction++
				} else if int(moveScore) > 0 {
					reduction--
				}
				if int(moveScore) > 8000 {
					reduction--
				}
				if w.positions[height+1].IsCheck() {
					reduction--
				}
				if cutNode {
					reduction++
				}
				var maxReduction = minInt(w.Config.MaxDepthReduction, newDepth)
				if maxReduction < 0 {
					maxReduction = 0
				}
				if reduction < 0 {
					reduction = 0
				}
				if reduction > maxReduction {
					reduction = maxReduction
				}
			}

			value = -w.Negamax(height+1, newDepth-reduction, -alpha-1, -alpha, true)
			if value > alpha && reduction > 0 {
				value = -w.Negamax(height+1, newDepth, -alpha-1, -alpha, !cutNode)
			}
			if value > alpha && isPV {
				value = -w.Negamax(height+1, newDepth, -beta, -alpha, false)
			}
		}

		if isQuiet {
			quietsSearched = append(quietsSearched, m)
		}

		if isRoot && w.NodeCache != nil {
			var entry = w.NodeCache.GetOrAlloc(p, 0)
			if entry != nil {
				entry.AddMoveStats(m, w.Stats.TotalNodes()-rootNodesBefore)
			}
		}

		if value > bestValue {
			bestValue = value
			bestMove = m
			if value > alpha {
				alpha = value
				node.AssignPV(m, w.nodes[height+1].PV)
				if value >= beta {
					break
				}
			}
		}
	}

	if !anyMoveTried {
		if hasFilter {
			return -Infinity
		}
		if inCheck {
			w.TT.Write(p.Hash(), ScoreToTT(LossIn(ply), ply), 0, MaxSearchDepth, BoundExact, chess.MoveEmpty)
			return LossIn(ply)
		}
		w.TT.Write(p.Hash(), 0, 0, MaxSearchDepth, BoundExact, chess.MoveEmpty)
		return 0
	}

	if bestValue >= beta && bestMove.Promotion() != chess.Queen && !bestMove.IsCaptureOrPromotion() {
		orderer.UpdateKiller(bestMove)
		orderer.UpdateQuietHistory(quietsSearched, bestMove, depth)
	}

	if isRoot && w.NodeCache != nil && bestMove != chess.MoveEmpty {
		if entry := w.NodeCache.TryGet(p); entry != nil {
			entry.SetBestMove(bestMove)
		}
	}

	if !hasFilter && !w.Stop.Load() {
		var bound = BoundUpper
		if bestValue >= beta {
			bound = BoundLower
		} else if bestValue > originalAlpha {
			bound = BoundExact
		}
		w.TT.Write(p.Hash(), ScoreToTT(bestValue, ply), staticEval, depth, bound, bestMove)
	}

	return bestValue
}

func computeImproving(node *NodeInfo, staticEval int, inCheck bool) bool {
	if inCheck {
		return false
	}
	var grandparent = node.Parent
	if grandparent != nil {
		grandparent = grandparent.Parent
	}
	for grandparent != nil && grandparent.InCheck {
		grandparent = grandparent.Parent
	}
	if grandparent == nil {
		return true
	}
	var gpEval, ok = grandparent.CachedStaticEval()
	if !ok {
		return true
	}
	return staticEval-gpEval >= -5
}

// isPawnAdvanceToRank6 reports whether m pushes a pawn to its 6th
// relative rank (spec §4.5's "pawn reaches the 6th relative rank"
// per-move extension). p is the position before the move, so
// p.WhiteMove identifies the mover.
func isPawnAdvanceToRank6(p *chess.Position, m chess.Move) bool {
	if m.MovingPiece() != chess.Pawn {
		return false
	}
	var rank = chess.Rank(m.To())
	if p.WhiteMove {
		return rank == chess.Rank6
	}
	return rank == chess.Rank3
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func tablebasePieceCount(p *chess.Position) int {
	return chess.PopCount(p.AllPieces())
}

func tbWdlToScore(wdl int, ply int) int {
	switch {
	case wdl > 0:
		return TablebaseWin - ply
	case wdl < 0:
		return -TablebaseWin + ply
	default:
		return 0
	}
}
