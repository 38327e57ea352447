package eval

import (
	"testing"

	"github.com/corvid-chess/corvid/chess"
)

func TestMaterialEvaluatorSymmetric(t *testing.T) {
	var p, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var e = NewMaterialEvaluator()
	if got := e.Evaluate(&p, NewContext(0)); got != 0 {
		t.Errorf("expected symmetric start position to evaluate to 0, got %d", got)
	}
}

func TestMaterialEvaluatorFavorsExtraQueen(t *testing.T) {
	var p, err = chess.NewPositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var e = NewMaterialEvaluator()
	if got := e.Evaluate(&p, NewContext(0)); got <= 0 {
		t.Errorf("expected white up a queen to evaluate positive, got %d", got)
	}
}

func TestNNUEEvaluatorRefreshesOnDirtyContext(t *testing.T) {
	var p, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var w = &Weights{}
	var e = NewNNUEEvaluator(w)
	var ctx = NewContext(0)
	var first = e.Evaluate(&p, ctx)
	if ctx.dirty {
		t.Errorf("expected context to be clean after Evaluate")
	}
	var second = e.Evaluate(&p, ctx)
	if first != second {
		t.Errorf("expected stable evaluation without a MarkDirty in between, got %d then %d", first, second)
	}
}
