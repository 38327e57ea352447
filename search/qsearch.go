package search

import "github.com/corvid-chess/corvid/chess"

// qsearchFutilityMargin is the qsearch stand-pat margin spec §4.4 calls
// `futility_base = stand_pat + 150`.
const qsearchFutilityMargin = 150

// QSearch is the spec §4.4 quiescence search: Negamax restricted to
// tactical moves, resolving the horizon before a leaf score is
// trusted. Preconditions: alpha < beta, no active move filter (qsearch
// nodes never multi-PV or singular-verify). depth starts at 0 at the
// qsearch root and decrements by one per recursive ply, independent of
// the Negamax frame's own depth; it only feeds moveCountCutoff.
func (w *Worker) QSearch(height, depth, alpha, beta int) int {
	w.IncQuiescenceNode()

	var p = &w.positions[height]
	var ply = height

	if IsDraw(p) {
		return 0
	}

	var ttEntry Entry
	var hasTT = w.TT.Read(p.Hash(), &ttEntry)
	if hasTT {
		var ttScore = ScoreFromTT(ttEntry.Score, ply, p.Rule50)
		switch {
		case ttEntry.Bound == BoundExact:
			return ttScore
		case ttEntry.Bound == BoundUpper && ttScore <= alpha:
			return alpha
		case ttEntry.Bound == BoundLower && ttScore >= beta:
			return beta
		}
	}

	var inCheck = p.IsCheck()
	var standPat int
	var bestValue = -Infinity

	if !inCheck {
		if hasTT {
			standPat = ttEntry.StaticEval
		} else {
			standPat = w.StaticEval(height)
		}
		if hasTT {
			if (ttEntry.Bound == BoundLower && ttEntry.Score > standPat) ||
				(ttEntry.Bound == BoundUpper && ttEntry.Score < standPat) {
				standPat = ttEntry.Score
			}
		}

		bestValue = standPat
		if standPat >= beta {
			w.TT.Write(p.Hash(), ScoreToTT(standPat, ply), standPat, 0, BoundLower, chess.MoveEmpty)
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var futilityBase = standPat + qsearchFutilityMargin

	var buffer [chess.MaxMoves]chess.OrderedMove
	var picker = NewQuiescenceMovePicker(buffer[:], p)

	var originalAlpha = alpha
	var bestMove chess.Move
	var moveCount = 0
	var checkEvasionsTried = 0
	var sawBestMove = false

	for {
		var m = picker.Next()
		if m == chess.MoveEmpty {
			break
		}

		if inCheck && !m.IsCaptureOrPromotion() {
			if sawBestMove && checkEvasionsTried >= 2 {
				continue
			}
		}

		if m.Promotion() != chess.Empty && m.Promotion() != chess.Queen {
			continue
		}

		if !inCheck && m.IsCaptureOrPromotion() {
			if !p.StaticExchangeEvaluation(m, 0) {
				continue // losing capture, spec §4.4 step 5's GoodCaptureValue gate
			}
			if futilityBase <= alpha && !p.StaticExchangeEvaluation(m, 1) {
				continue
			}
		}

		var cutoffAt = moveCountCutoff(depth)
		if moveCount >= cutoffAt && cutoffAt >= 0 {
			break
		}

		if !w.MakeMove(height, m) {
			continue
		}
		moveCount++
		if !m.IsCaptureOrPromotion() {
			checkEvasionsTried++
		}

		var value = -w.QSearch(height+1, depth-1, -beta, -alpha)

		if value > bestValue {
			bestValue = value
			bestMove = m
			sawBestMove = true
			if value > alpha {
				alpha = value
				if value >= beta {
					break
				}
			}
		}
	}

	if inCheck && moveCount == 0 {
		return LossIn(ply)
	}

	var bound = BoundUpper
	if bestValue >= beta {
		bound = BoundLower
	} else if bestValue > originalAlpha {
		bound = BoundExact
	}

	if bound != BoundUpper || !hasTT || ttEntry.Depth <= 0 {
		w.TT.Write(p.Hash(), ScoreToTT(bestValue, ply), standPat, 0, bound, bestMove)
	}

	return bestValue
}

// moveCountCutoff implements spec §4.4's "stop after 1/2/3 tried
// moves when node.depth < -4/-2/0"; depth is QSearch's own depth
// parameter, 0 at the qsearch root and decremented by one per
// recursive ply — a -1 return means "no cutoff applies".
func moveCountCutoff(depth int) int {
	switch {
	case depth < -4:
		return 1
	case depth < -2:
		return 2
	case depth < 0:
		return 3
	default:
		return -1
	}
}
