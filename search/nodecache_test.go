package search

import (
	"testing"

	"github.com/corvid-chess/corvid/chess"
)

func testMoves(t *testing.T) []chess.Move {
	t.Helper()
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	return pos.GenerateLegalMoves()
}

func TestNodeCacheGetOrAllocReusesMatch(t *testing.T) {
	var c = NewNodeCache(4)
	var pos, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)

	var e1 = c.GetOrAlloc(&pos, 0)
	if e1 == nil {
		t.Fatal("expected a fresh allocation to succeed")
	}
	var moves = testMoves(t)
	e1.AddMoveStats(moves[0], 100)

	var e2 = c.GetOrAlloc(&pos, 1)
	if e2 != e1 {
		t.Fatal("expected GetOrAlloc to return the same entry for the same position")
	}
	if e2.distanceFromRoot != 1 {
		t.Errorf("distanceFromRoot = %d, want 1 after reuse", e2.distanceFromRoot)
	}
}

func TestNodeCacheReclaimsStaleGeneration(t *testing.T) {
	var c = NewNodeCache(1)
	var pos1, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)
	var pos2, ok = pos1.MakeMoveLAN("e2e4")
	if !ok {
		t.Fatal("setup move failed")
	}

	if c.GetOrAlloc(&pos1, 0) == nil {
		t.Fatal("expected first allocation to succeed")
	}
	c.OnNewSearch()

	if c.GetOrAlloc(&pos2, 0) == nil {
		t.Fatal("expected a stale-generation slot to be reclaimable by a new position")
	}
	if c.TryGet(&pos1) != nil {
		t.Error("expected the reclaimed slot to no longer match the old position")
	}
}

func TestNodeCacheAddMoveStatsEvictsLeastVisited(t *testing.T) {
	var e = &NodeCacheEntry{}
	var moves = testMoves(t)
	if len(moves) < nodeCacheMaxMoves+1 {
		t.Fatal("initial position should have more legal moves than the cache capacity")
	}
	for i := 0; i < nodeCacheMaxMoves; i++ {
		e.AddMoveStats(moves[i], uint64(i+1))
	}
	// moves[0] has the smallest count (1) among the first nodeCacheMaxMoves entries.
	e.AddMoveStats(moves[nodeCacheMaxMoves], 1000)

	var found = false
	for _, m := range e.moves {
		if m.move == moves[nodeCacheMaxMoves] {
			found = true
		}
		if m.move == moves[0] {
			t.Error("expected the least-visited move to be evicted")
		}
	}
	if !found {
		t.Error("expected the new move to occupy the evicted slot")
	}
}

func TestNodeCacheSetBestMoveRotatesToFront(t *testing.T) {
	var e = &NodeCacheEntry{}
	var moves = testMoves(t)
	e.AddMoveStats(moves[0], 10)
	e.AddMoveStats(moves[1], 20)
	e.AddMoveStats(moves[2], 30)

	e.SetBestMove(moves[2])
	if e.moves[0].move != moves[2] {
		t.Errorf("expected moves[2] at front after SetBestMove, got %v", e.moves[0].move.String())
	}
	if !e.moves[0].isBestMove {
		t.Error("expected the rotated move to be marked best")
	}
}

func TestNodeCacheBestMoveNodeFraction(t *testing.T) {
	var e = &NodeCacheEntry{}
	var moves = testMoves(t)
	e.AddMoveStats(moves[0], 30)
	e.AddMoveStats(moves[1], 70)
	e.SetBestMove(moves[0])

	var fraction = e.BestMoveNodeFraction()
	if fraction < 0.29 || fraction > 0.31 {
		t.Errorf("fraction = %v, want ~0.3", fraction)
	}
}
