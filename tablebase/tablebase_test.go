package tablebase

import "testing"

func TestNoopProberReportsUnavailable(t *testing.T) {
	var p NoopProber
	if p.Available() {
		t.Errorf("expected NoopProber to be unavailable")
	}
	if p.MaxPieces() != 0 {
		t.Errorf("expected NoopProber.MaxPieces() == 0")
	}
	if p.Probe(nil).Found {
		t.Errorf("expected NoopProber.Probe to report not found")
	}
	if p.ProbeRoot(nil).Found {
		t.Errorf("expected NoopProber.ProbeRoot to report not found")
	}
}

func TestWDLToScore(t *testing.T) {
	const tbWin = 29000
	var tests = []struct {
		wdl  WDL
		ply  int
		want int
	}{
		{WDLWin, 3, tbWin - 3},
		{WDLLoss, 3, -tbWin + 3},
		{WDLDraw, 3, 0},
		{WDLCursedWin, 0, tbWin - 100},
		{WDLBlessedLoss, 0, -tbWin + 100},
	}
	for _, tt := range tests {
		if got := WDLToScore(tt.wdl, tt.ply, tbWin); got != tt.want {
			t.Errorf("WDLToScore(%v, %d) = %d, want %d", tt.wdl, tt.ply, got, tt.want)
		}
	}
}
