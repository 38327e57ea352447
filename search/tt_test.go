package search

import (
	"testing"

	"github.com/corvid-chess/corvid/chess"
)

func TestTableReadWriteRoundTrip(t *testing.T) {
	var tt = NewTable(1)
	var hash = uint64(0x1234567890abcdef)
	var move, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)
	var legal = move.GenerateLegalMoves()
	tt.Write(hash, 123, -45, 7, BoundExact, legal[0])

	var entry Entry
	if !tt.Read(hash, &entry) {
		t.Fatal("expected a hit after Write")
	}
	if entry.Score != 123 || entry.StaticEval != -45 || entry.Depth != 7 || entry.Bound != BoundExact {
		t.Errorf("entry = %+v, want score=123 staticEval=-45 depth=7 bound=Exact", entry)
	}
	if entry.Moves[0] != chess.Pack(legal[0]) {
		t.Errorf("tt move not preserved")
	}
}

func TestTableReadMissOnDifferentKey(t *testing.T) {
	var tt = NewTable(1)
	tt.Write(1, 1, 1, 1, BoundExact, chess.MoveEmpty)
	var entry Entry
	if tt.Read(2, &entry) {
		t.Error("expected a miss for an unwritten key")
	}
}

func TestTableReplacementKeepsDeeperEntry(t *testing.T) {
	var tt = NewTable(1)
	var hash = uint64(42)
	tt.Write(hash, 50, 50, 10, BoundExact, chess.MoveEmpty)
	tt.Write(hash, 99, 99, 3, BoundExact, chess.MoveEmpty)

	var entry Entry
	tt.Read(hash, &entry)
	if entry.Depth != 10 || entry.Score != 50 {
		t.Errorf("shallower same-bound write replaced a deeper entry: %+v", entry)
	}
}

func TestTableClear(t *testing.T) {
	var tt = NewTable(1)
	tt.Write(7, 1, 1, 1, BoundExact, chess.MoveEmpty)
	tt.Clear()
	var entry Entry
	if tt.Read(7, &entry) {
		t.Error("expected a miss after Clear")
	}
}

func TestRoundPowerOfTwo(t *testing.T) {
	var cases = map[uint64]uint64{
		1:  1,
		2:  2,
		3:  4,
		5:  8,
		16: 16,
		17: 32,
	}
	for n, want := range cases {
		if got := roundPowerOfTwo(n); got != want {
			t.Errorf("roundPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}
