package search

import "testing"

func TestScoreToFromTTRoundTrip(t *testing.T) {
	var cases = []struct{ score, ply int }{
		{100, 0}, {-100, 5}, {WinIn(3), 3}, {LossIn(7), 7},
	}
	for _, c := range cases {
		var stored = ScoreToTT(c.score, c.ply)
		var restored = ScoreFromTT(stored, c.ply, 0)
		if restored != c.score {
			t.Errorf("score=%d ply=%d: round trip gave %d", c.score, c.ply, restored)
		}
	}
}

func TestScoreFromTTDemotesUncertainMateNearFiftyMove(t *testing.T) {
	// A score at the ValueWin boundary encodes a mate distance far
	// enough out that it can't be asserted as surviving the 50-move
	// rule; ScoreFromTT should demote it to KnownWin instead.
	var stored = ScoreToTT(ValueWin, 0)
	var restored = ScoreFromTT(stored, 0, 50)
	if restored != KnownWin {
		t.Errorf("restored = %d, want KnownWin (%d) for a boundary-distance mate", restored, KnownWin)
	}
}

func TestMateDistancePruneNarrowsWindow(t *testing.T) {
	var alpha, beta, cut = MateDistancePrune(-Infinity, Infinity, 5)
	if cut {
		t.Fatal("did not expect an immediate cutoff from the full window")
	}
	if alpha != LossIn(5) || beta != WinIn(6) {
		t.Errorf("alpha=%d beta=%d, want LossIn(5)=%d WinIn(6)=%d", alpha, beta, LossIn(5), WinIn(6))
	}
}

func TestMateDistancePruneCutsWhenWindowUnreachable(t *testing.T) {
	// alpha demands a mate in 2 plies from the root; from height 5 the
	// best achievable is mate in 6, so beta narrows below alpha.
	var _, _, cut = MateDistancePrune(WinIn(2), WinIn(2)+1, 5)
	if !cut {
		t.Error("expected a cutoff when the window requires a mate distance unreachable from this height")
	}
}

func TestWinLossInAreMirrorImages(t *testing.T) {
	for height := 0; height < 10; height++ {
		if WinIn(height) != -LossIn(height) {
			t.Errorf("height=%d: WinIn=%d, -LossIn=%d", height, WinIn(height), -LossIn(height))
		}
	}
}
