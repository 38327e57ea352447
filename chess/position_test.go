package chess

import "testing"

func TestNewPositionFromFEN(t *testing.T) {
	var tests = []struct {
		name string
		fen  string
	}{
		{"initial", InitialPositionFen},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p, err = NewPositionFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("NewPositionFromFEN(%q) error: %v", tt.fen, err)
			}
			if got := p.String(); got != tt.fen {
				t.Errorf("round-trip mismatch: got %q want %q", got, tt.fen)
			}
		})
	}
}

func TestNewPositionFromFEN_Illegal(t *testing.T) {
	// Black king is attacked by white to move: illegal standing position.
	var _, err = NewPositionFromFEN("4k3/8/8/8/8/8/8/4R1K1 w - - 0 1")
	if err == nil {
		t.Fatalf("expected error for illegal position")
	}
}

func TestMakeMoveTogglesSideAndHash(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var child Position
	var ok = false
	for _, m := range p.GenerateLegalMoves() {
		if m.String() == "e2e4" {
			ok = p.MakeMove(m, &child)
			break
		}
	}
	if !ok {
		t.Fatalf("e2e4 not found or illegal from initial position")
	}
	if child.WhiteMove {
		t.Errorf("expected black to move after e2e4")
	}
	if child.Key == p.Key {
		t.Errorf("expected hash to change after a move")
	}
	if child.EpSquare != SquareE3 {
		t.Errorf("expected en passant square e3, got %v", child.EpSquare)
	}
}

func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var buffer [MaxMoves]OrderedMove
	var ml = p.GenerateMoves(buffer[:])
	var nodes int64
	var child Position
	for _, m := range ml {
		if !p.MakeMove(m.Move, &child) {
			continue
		}
		nodes += perft(&child, depth-1)
	}
	return nodes
}

func TestPerftInitialPosition(t *testing.T) {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tests = []struct {
		depth int
		nodes int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tt := range tests {
		if got := perft(&p, tt.depth); got != tt.nodes {
			t.Errorf("perft(%d) = %d, want %d", tt.depth, got, tt.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := perft(&p, 1); got != 48 {
		t.Errorf("perft(1) = %d, want 48", got)
	}
	if got := perft(&p, 2); got != 2039 {
		t.Errorf("perft(2) = %d, want 2039", got)
	}
}

func TestIsRepetition(t *testing.T) {
	var p1, _ = NewPositionFromFEN(InitialPositionFen)
	var p2, _ = NewPositionFromFEN(InitialPositionFen)
	if !p1.IsRepetition(&p2) {
		t.Errorf("expected two identical initial positions to be a repetition")
	}
}

func TestHasNonPawnMaterial(t *testing.T) {
	var p, _ = NewPositionFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if p.HasNonPawnMaterial(true) {
		t.Errorf("king+pawn ending should have no non-pawn material")
	}
	var p2, _ = NewPositionFromFEN("4k3/8/8/8/8/8/3R4/4K3 w - - 0 1")
	if !p2.HasNonPawnMaterial(true) {
		t.Errorf("rook should count as non-pawn material")
	}
}
