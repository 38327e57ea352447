package search

import (
	"context"
	"testing"
	"time"

	"github.com/corvid-chess/corvid/chess"
	"github.com/corvid-chess/corvid/eval"
	"github.com/corvid-chess/corvid/tablebase"
)

func newTestCoordinator(threads int) *Coordinator {
	var cfg = DefaultConfig()
	cfg.Threads = threads
	cfg.HashMB = 1
	return NewCoordinator(cfg, eval.NewMaterialEvaluator(), tablebase.NoopProber{})
}

func searchToDepth(t *testing.T, c *Coordinator, fen string, depth int) SearchResult {
	t.Helper()
	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("bad FEN %q: %v", fen, err)
	}
	var limits = &Limits{MaxDepth: depth}
	var result, searchErr = c.Search(context.Background(), &pos, nil, limits, nil)
	if searchErr != nil {
		t.Fatalf("search error: %v", searchErr)
	}
	return result
}

func TestMateInOne(t *testing.T) {
	var c = newTestCoordinator(1)
	var result = searchToDepth(t, c, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", 2)
	if result.BestMove.String() != "a1a8" {
		t.Errorf("bestmove = %v, want a1a8", result.BestMove.String())
	}
	if result.Score < Checkmate-3 {
		t.Errorf("score = %v, want a near-immediate mate score", result.Score)
	}
}

func TestStalemateScoresAsDraw(t *testing.T) {
	var c = newTestCoordinator(1)
	var result = searchToDepth(t, c, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 1)
	if result.Score != 0 {
		t.Errorf("score = %v, want 0 (stalemate)", result.Score)
	}
	if result.BestMove != chess.MoveEmpty {
		t.Errorf("bestmove = %v, want empty on stalemate", result.BestMove.String())
	}
}

func TestOnlyLegalMoveSkipsSearch(t *testing.T) {
	// Black king on h8 has exactly one legal move available, g8.
	var c = newTestCoordinator(1)
	var pos, err = chess.NewPositionFromFEN("7k/8/7K/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var legal = pos.GenerateLegalMoves()
	if len(legal) != 1 {
		t.Fatalf("setup error: expected exactly one legal move, got %d", len(legal))
	}
	var result, searchErr = c.Search(context.Background(), &pos, nil, &Limits{MaxDepth: 6}, nil)
	if searchErr != nil {
		t.Fatal(searchErr)
	}
	if result.BestMove != legal[0] {
		t.Errorf("bestmove = %v, want the only legal move %v", result.BestMove.String(), legal[0].String())
	}
}

func TestThreefoldRepetitionIsDraw(t *testing.T) {
	var c = newTestCoordinator(1)
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var moves = []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	var positions = []chess.Position{pos}
	for _, lan := range moves {
		var next, ok = positions[len(positions)-1].MakeMoveLAN(lan)
		if !ok {
			t.Fatalf("illegal setup move %v", lan)
		}
		positions = append(positions, next)
	}

	var gameHistory = make([]uint64, 0, len(positions))
	for i := range positions {
		gameHistory = append(gameHistory, positions[i].Hash())
	}
	var root = positions[len(positions)-1]

	var result, searchErr = c.Search(context.Background(), &root, gameHistory, &Limits{MaxDepth: 4}, nil)
	if searchErr != nil {
		t.Fatal(searchErr)
	}
	if result.Score != 0 {
		t.Errorf("score = %v, want 0 (threefold repetition reachable)", result.Score)
	}
}

func TestDeterminismWithOneThread(t *testing.T) {
	var c1 = newTestCoordinator(1)
	var c2 = newTestCoordinator(1)
	var fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	var r1 = searchToDepth(t, c1, fen, 4)
	var r2 = searchToDepth(t, c2, fen, 4)
	if r1.BestMove != r2.BestMove || r1.Score != r2.Score {
		t.Errorf("single-thread search not deterministic: (%v,%v) vs (%v,%v)",
			r1.BestMove.String(), r1.Score, r2.BestMove.String(), r2.Score)
	}
}

func TestSearchRespectsExternalCancellation(t *testing.T) {
	var c = newTestCoordinator(1)
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var _, searchErr = c.Search(ctx, &pos, nil, &Limits{MaxDepth: 0}, func(r IterationReport) bool {
		return false
	})
	if searchErr != nil {
		t.Fatalf("search returned error after cancellation: %v", searchErr)
	}
}

func TestScoreNeverExceedsInfinity(t *testing.T) {
	var c = newTestCoordinator(1)
	var result = searchToDepth(t, c, chess.InitialPositionFen, 3)
	if result.Score > Infinity || result.Score < -Infinity {
		t.Errorf("score %v out of [-Infinity, Infinity]", result.Score)
	}
}

func TestMaxNodesLimitStopsSearch(t *testing.T) {
	var c = newTestCoordinator(1)
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var result, searchErr = c.Search(context.Background(), &pos, nil, &Limits{MaxNodes: 500}, nil)
	if searchErr != nil {
		t.Fatalf("search error: %v", searchErr)
	}
	if result.BestMove == chess.MoveEmpty {
		t.Error("expected a best move even when the node budget cuts the search off early")
	}
	if c.Stats.Nodes() == 0 {
		t.Error("expected the node-budget search to have visited at least one node")
	}
}

func TestDebugLogPopulatesDebugLines(t *testing.T) {
	var cfg = DefaultConfig()
	cfg.Threads = 1
	cfg.HashMB = 1
	cfg.DebugLog = true
	var c = NewCoordinator(cfg, eval.NewMaterialEvaluator(), tablebase.NoopProber{})

	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var tm = NewTimeManager(TimeInput{RemainingNs: int64(time.Second * 5)})
	var limits = &Limits{
		MaxDepth:    6,
		MaxTime:     tm.MaxTime(),
		StartTime:   0,
		TimeManager: tm,
	}

	var sawDebugLine bool
	var _, searchErr = c.Search(context.Background(), &pos, nil, limits, func(r IterationReport) bool {
		if len(r.DebugLines) > 0 {
			sawDebugLine = true
		}
		return true
	})
	if searchErr != nil {
		t.Fatalf("search error: %v", searchErr)
	}
	if !sawDebugLine {
		t.Error("expected at least one IterationReport with DebugLog set to carry DebugLines")
	}
}

func TestNodeCacheAccumulatesRootMoveStats(t *testing.T) {
	var c = newTestCoordinator(1)
	searchToDepth(t, c, chess.InitialPositionFen, 5)

	var root, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var entry = c.NodeCache.TryGet(&root)
	if entry == nil {
		t.Fatal("expected the root position to have a NodeCache entry after a search")
	}
	if entry.BestMoveNodeFraction() <= 0 {
		t.Errorf("BestMoveNodeFraction() = %v, want > 0 after a completed search", entry.BestMoveNodeFraction())
	}
}
