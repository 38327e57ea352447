package search

import (
	"testing"

	"github.com/corvid-chess/corvid/chess"
)

func TestHistoryClearZeroesAllTables(t *testing.T) {
	var h = NewHistory()
	var moves = testMoves(t)
	var ctx = h.ContextFor(true, chess.MoveEmpty, chess.MoveEmpty)
	ctx.Update(moves[:3], moves[0], 5)
	if ctx.ReadTotal(moves[0]) == 0 {
		t.Fatal("setup: expected a nonzero history score before Clear")
	}
	h.Clear()
	if ctx.ReadTotal(moves[0]) != 0 {
		t.Error("expected Clear to zero every history score")
	}
}

func TestHistoryUpdateRewardsCutoffMove(t *testing.T) {
	var h = NewHistory()
	var moves = testMoves(t)
	var ctx = h.ContextFor(true, chess.MoveEmpty, chess.MoveEmpty)

	ctx.Update([]chess.Move{moves[0], moves[1]}, moves[1], 8)

	if ctx.ReadTotal(moves[1]) <= 0 {
		t.Errorf("cutoff move score = %d, want positive", ctx.ReadTotal(moves[1]))
	}
	if ctx.ReadTotal(moves[0]) >= 0 {
		t.Errorf("non-cutoff move score = %d, want negative (penalized)", ctx.ReadTotal(moves[0]))
	}
}

func TestHistoryUpdateBonusCapsAtFourHundred(t *testing.T) {
	var h = NewHistory()
	var moves = testMoves(t)
	var ctx = h.ContextFor(true, chess.MoveEmpty, chess.MoveEmpty)

	// depth=30 would give depth*depth=900 without the cap; repeated
	// updates should still converge toward historyMax, never overflow.
	for i := 0; i < 100; i++ {
		ctx.Update([]chess.Move{moves[0]}, moves[0], 30)
	}
	var score = ctx.ReadTotal(moves[0])
	if score <= 0 || score > historyMax {
		t.Errorf("score = %d, want in (0, %d]", score, historyMax)
	}
}

func TestContinuationHistoryAddsToMainHistory(t *testing.T) {
	var h = NewHistory()
	var moves = testMoves(t)

	var plain = h.ContextFor(true, chess.MoveEmpty, chess.MoveEmpty)
	plain.Update(moves[:1], moves[0], 4)
	var scoreWithoutContinuation = plain.ReadTotal(moves[0])

	var h2 = NewHistory()
	var withCont = h2.ContextFor(true, moves[2], chess.MoveEmpty)
	withCont.Update(moves[:1], moves[0], 4)
	var scoreWithContinuation = withCont.ReadTotal(moves[0])

	if scoreWithContinuation <= scoreWithoutContinuation {
		t.Errorf("expected continuation history to add on top of main history: with=%d without=%d",
			scoreWithContinuation, scoreWithoutContinuation)
	}
}

func TestKillersUpdateAndRotate(t *testing.T) {
	var k = Killers{}
	var moves = testMoves(t)
	k.Update(moves[0])
	k.Update(moves[1])

	var first, second = k.Moves()
	if first != moves[1] || second != moves[0] {
		t.Errorf("Moves() = (%v, %v), want (%v, %v)", first.String(), second.String(), moves[1].String(), moves[0].String())
	}

	k.Update(moves[1])
	first, second = k.Moves()
	if first != moves[1] || second != moves[0] {
		t.Error("re-updating the current top killer should not change the slots")
	}
}
