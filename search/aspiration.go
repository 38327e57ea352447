package search

// Aspiration is the spec §4.6 narrow-window re-search loop: for
// depth ≥ Config.AspirationDepthStart with a usable previous score,
// it starts tight around that score and widens on fail-high/fail-low
// until an Exact result comes back or the stop flag trips.
//
// onAttempt receives every attempt, including fail-high/fail-low ones
// (tagged via the bound), so the caller can emit `info ... lowerbound`
// / `upperbound` UCI lines; the final Exact report is the depth's
// result, and the resulting PV is read from the root NodeInfo.
func (w *Worker) Aspiration(depth int, prevScore int, havePrevScore bool, onAttempt func(score int, bound Bound)) int {
	var cfg = w.Config

	if depth < cfg.AspirationDepthStart || !havePrevScore || absInt(prevScore) >= ValueWin {
		var score = w.Negamax(0, depth, -Infinity, Infinity, false)
		if onAttempt != nil {
			onAttempt(score, BoundExact)
		}
		return score
	}

	var window = maxInt(20, 40-(depth-cfg.AspirationDepthStart)*4) + absInt(prevScore)/10
	var alpha = prevScore - window
	var beta = prevScore + window
	var researchDepth = depth

	for {
		if w.Stop.Load() {
			return prevScore
		}

		var score = w.Negamax(0, researchDepth, alpha, beta, false)

		if score <= alpha {
			if onAttempt != nil {
				onAttempt(score, BoundUpper)
			}
			beta = (alpha + beta) / 2
			alpha -= window
		} else if score >= beta {
			if onAttempt != nil {
				onAttempt(score, BoundLower)
			}
			beta += window
			if researchDepth > depth-3 {
				researchDepth--
			}
		} else {
			if onAttempt != nil {
				onAttempt(score, BoundExact)
			}
			return score
		}

		window *= 2
		if window > cfg.AspirationWindowMaxSize {
			alpha = -Infinity
			beta = Infinity
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
