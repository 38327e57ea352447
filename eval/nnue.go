package eval

import "github.com/corvid-chess/corvid/chess"

const (
	inputSize  = 64 * 12
	hiddenSize = 256
)

// Weights is the trained parameter set a NNUEEvaluator feeds forward.
// Loading them (from an embedded file or a path given on the UCI
// command line) is outside the search core's concern; callers hand a
// populated *Weights to NewNNUEEvaluator.
type Weights struct {
	HiddenWeights [inputSize * hiddenSize]float32
	HiddenBiases  [hiddenSize]float32
	OutputWeights [hiddenSize]float32
	OutputBias    float32
}

// NNUEEvaluator is the accumulator + linear output head evaluator
// spec §1 names as the core's external evaluator. One instance is
// owned per search thread; its accumulator stack is indexed by the
// Context's ply, matching spec §5 ("lazily allocated once per
// thread, stack-indexed by ply").
//
// The core never hands this evaluator incremental move/unmove
// notifications (that plumbing belongs to whatever owns the search
// thread's move stack), so a dirty Context triggers a full
// accumulator rebuild from the position rather than an incremental
// update; this is the "accumulator refresh" path every NNUE
// implementation also needs for the search root and for any position
// reached without a threaded make/unmake chain.
type NNUEEvaluator struct {
	weights      *Weights
	accumulators [MaxPly][hiddenSize]float32
}

func NewNNUEEvaluator(w *Weights) *NNUEEvaluator {
	return &NNUEEvaluator{weights: w}
}

func featureIndex(whiteSide bool, pieceType, square int) int {
	var piece12 = pieceType - chess.Pawn
	if !whiteSide {
		piece12 += 6
	}
	return square ^ (piece12 << 6)
}

func (e *NNUEEvaluator) refresh(p *chess.Position, slot int) {
	var acc = &e.accumulators[slot]
	copy(acc[:], e.weights.HiddenBiases[:])

	for sq := 0; sq < 64; sq++ {
		var piece, side = p.GetPieceTypeAndSide(sq)
		if piece == chess.Empty {
			continue
		}
		var idx = featureIndex(side, piece, sq)
		var row = e.weights.HiddenWeights[idx*hiddenSize : idx*hiddenSize+hiddenSize]
		for j := range acc {
			acc[j] += row[j]
		}
	}
}

func relu(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

func (e *NNUEEvaluator) feedForward(slot int) float32 {
	var acc = &e.accumulators[slot]
	var output float32
	for j, w := range e.weights.OutputWeights {
		output += relu(acc[j]) * w
	}
	return output + e.weights.OutputBias
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Evaluate feeds the accumulator at ctx's ply through the output head
// and applies the two scaling corrections the ancestor engine's NNUE
// evaluator applies: a non-pawn-material taper (keeps small edges from
// being overstated in the endgame) and a fifty-move taper (shrinks the
// evaluation toward a draw as the rule-50 counter climbs).
func (e *NNUEEvaluator) Evaluate(p *chess.Position, ctx *Context) int32 {
	if ctx.dirty {
		e.refresh(p, ctx.ply)
		ctx.dirty = false
	}

	const maxEval = 15_000
	var output = clampInt32(int32(e.feedForward(ctx.ply)), -maxEval, maxEval)

	var npMaterial = 4*chess.PopCount(p.Knights|p.Bishops) + 6*chess.PopCount(p.Rooks) + 12*chess.PopCount(p.Queens)
	output = output * (160 + int32(npMaterial)) / 160
	output = output * (200 - int32(p.Rule50)) / 200

	if !p.WhiteMove {
		output = -output
	}
	return output
}
