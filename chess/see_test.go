package chess

import "testing"

func TestStaticExchangeEvaluation(t *testing.T) {
	var tests = []struct {
		name      string
		fen       string
		lan       string
		threshold int
		want      bool
	}{
		{"pawn takes undefended knight wins material", "4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1", "e4d5", 0, true},
		{"rook takes pawn defended by pawn", "4k3/8/2p5/3p4/8/8/8/3RK3 w - - 0 1", "d1d5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p, err = NewPositionFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("bad fen: %v", err)
			}
			var buffer [MaxMoves]OrderedMove
			var found Move
			for _, m := range p.GenerateMoves(buffer[:]) {
				if m.Move.String() == tt.lan {
					found = m.Move
					break
				}
			}
			if found == MoveEmpty {
				t.Fatalf("move %s not found", tt.lan)
			}
			if got := p.StaticExchangeEvaluation(found, tt.threshold); got != tt.want {
				t.Errorf("SEE(%s, %d) = %v, want %v", tt.lan, tt.threshold, got, tt.want)
			}
		})
	}
}
