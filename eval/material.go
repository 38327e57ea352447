package eval

import "github.com/corvid-chess/corvid/chess"

// MaterialEvaluator is a context-free fallback evaluator, grounded on
// the ancestor engine's pkg/eval/material evaluation: simple piece
// counting from the side to move's perspective, no accumulator, no incremental
// state. It is useful for engine tests that need a deterministic,
// allocation-free Evaluator and do not care about playing strength.
type MaterialEvaluator struct{}

func NewMaterialEvaluator() *MaterialEvaluator { return &MaterialEvaluator{} }

func (e *MaterialEvaluator) Evaluate(p *chess.Position, ctx *Context) int32 {
	var score = 100*(chess.PopCount(p.Pawns&p.White)-chess.PopCount(p.Pawns&p.Black)) +
		320*(chess.PopCount(p.Knights&p.White)-chess.PopCount(p.Knights&p.Black)) +
		330*(chess.PopCount(p.Bishops&p.White)-chess.PopCount(p.Bishops&p.Black)) +
		500*(chess.PopCount(p.Rooks&p.White)-chess.PopCount(p.Rooks&p.Black)) +
		900*(chess.PopCount(p.Queens&p.White)-chess.PopCount(p.Queens&p.Black))
	if !p.WhiteMove {
		score = -score
	}
	return int32(score)
}
