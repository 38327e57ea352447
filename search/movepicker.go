package search

import "github.com/corvid-chess/corvid/chess"

// sortTableKeyImportant separates "important" move classes (TT move,
// good captures, killers) from history-scored quiets and bad
// captures, which always sort below it.
const sortTableKeyImportant = 100000

// GoodCaptureValue is the spec §4.3 constant the core compares move
// scores against; captures scored at or above it passed a SEE ≥ 0
// check during ordering.
const GoodCaptureValue = sortTableKeyImportant + 1000

var mvvValues = [chess.PieceNB]int{
	chess.Empty:  0,
	chess.Pawn:   1,
	chess.Knight: 2,
	chess.Bishop: 3,
	chess.Rook:   4,
	chess.Queen:  5,
	chess.King:   6,
}

func mvvlva(m chess.Move) int {
	return 8*(mvvValues[m.CapturedPiece()]+mvvValues[m.Promotion()]) - mvvValues[m.MovingPiece()]
}

// MoveOrderer is the spec §6 interface the core calls to score moves
// and to feed back cutoff information; History+Killers is the
// concrete implementation this package ships, but Negamax only ever
// depends on this interface.
type MoveOrderer interface {
	ScoreMove(sideToMove bool, m chess.Move) int32
	UpdateQuietHistory(quietsSearched []chess.Move, bestMove chess.Move, depth int)
	UpdateKiller(m chess.Move)
	NewSearch()
}

// nodeOrderer binds one ply's History Context and Killers to the
// MoveOrderer interface for that ply alone.
type nodeOrderer struct {
	position  *chess.Position
	ctx       Context
	killers   *Killers
	transMove chess.Move
}

func NewNodeOrderer(position *chess.Position, ctx Context, killers *Killers, transMove chess.Move) MoveOrderer {
	return &nodeOrderer{position: position, ctx: ctx, killers: killers, transMove: transMove}
}

func (o *nodeOrderer) ScoreMove(sideToMove bool, m chess.Move) int32 {
	var killer1, killer2 = o.killers.Moves()
	switch {
	case m == o.transMove:
		return int32(sortTableKeyImportant + 2000)
	case m.IsCaptureOrPromotion():
		if o.position.StaticExchangeEvaluation(m, 0) {
			return int32(GoodCaptureValue + mvvlva(m))
		}
		return int32(mvvlva(m))
	case m == killer1:
		return int32(sortTableKeyImportant + 1)
	case m == killer2:
		return int32(sortTableKeyImportant)
	default:
		return int32(o.ctx.ReadTotal(m))
	}
}

func (o *nodeOrderer) UpdateQuietHistory(quietsSearched []chess.Move, bestMove chess.Move, depth int) {
	o.ctx.Update(quietsSearched, bestMove, depth)
}

func (o *nodeOrderer) UpdateKiller(m chess.Move) {
	if !m.IsCaptureOrPromotion() {
		o.killers.Update(m)
	}
}

func (o *nodeOrderer) NewSearch() {}

// MovePicker is the spec §4.3 lazy move-generation interface: it
// yields pseudo-legal moves in descending priority order, filtering
// out anything the node's MoveFilter excludes.
type MovePicker struct {
	buffer []chess.OrderedMove
	count  int
	index  int
	filter *MoveFilter
}

// NewMainMovePicker builds a picker over every pseudo-legal move,
// scored by orderer, for use in Negamax's move loop. rootShuffleStride
// rotates the pre-scoring move order by that many positions; it is 0
// at every node except the root of a lazy-SMP helper thread, where a
// nonzero stride breaks ties among equally-scored moves differently
// per thread (spec §5: helper threads "randomize their root move
// order to diversify exploration") without touching the sort itself,
// which remains stable.
func NewMainMovePicker(buffer []chess.OrderedMove, pos *chess.Position, orderer MoveOrderer, filter *MoveFilter, rootShuffleStride int) *MovePicker {
	var ml = pos.GenerateMoves(buffer)
	if rootShuffleStride > 0 && len(ml) > 1 {
		rotateOrderedMoves(ml, rootShuffleStride%len(ml))
	}
	var side = pos.WhiteMove
	for i := range ml {
		ml[i].Key = orderer.ScoreMove(side, ml[i].Move)
	}
	return &MovePicker{buffer: ml, count: len(ml), filter: filter}
}

func rotateOrderedMoves(ml []chess.OrderedMove, stride int) {
	if stride == 0 {
		return
	}
	var rotated = make([]chess.OrderedMove, len(ml))
	for i := range ml {
		rotated[i] = ml[(i+stride)%len(ml)]
	}
	copy(ml, rotated)
}

// NewQuiescenceMovePicker builds a picker over captures/promotions
// (or, if in check, every evasion), scored by MVV-LVA alone.
func NewQuiescenceMovePicker(buffer []chess.OrderedMove, pos *chess.Position) *MovePicker {
	var ml []chess.OrderedMove
	if pos.IsCheck() {
		ml = pos.GenerateMoves(buffer)
	} else {
		ml = pos.GenerateCaptures(buffer)
	}
	for i := range ml {
		var m = ml[i].Move
		if m.IsCaptureOrPromotion() {
			ml[i].Key = int32(29000 + mvvlva(m))
		} else {
			ml[i].Key = 0
		}
	}
	return &MovePicker{buffer: ml, count: len(ml)}
}

func sortMoves(ml []chess.OrderedMove) {
	for i := 1; i < len(ml); i++ {
		var j, t = i, ml[i]
		for ; j > 0 && ml[j-1].Key < t.Key; j-- {
			ml[j] = ml[j-1]
		}
		ml[j] = t
	}
}

func moveToTop(ml []chess.OrderedMove) {
	var best = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[best].Key {
			best = i
		}
	}
	if best != 0 {
		ml[0], ml[best] = ml[best], ml[0]
	}
}

// Next returns the next move in priority order, or MoveEmpty when
// exhausted. Only the first pick pays a partial-selection-sort cost
// (one pass to bring the best move to the front); the remainder of
// the list is fully sorted once, lazily, on the second pick (the
// common case never needs it: most nodes cut off on the first move).
func (p *MovePicker) Next() chess.Move {
	for {
		if p.index >= p.count {
			return chess.MoveEmpty
		}
		const sortAt = 1
		if p.index <= sortAt {
			if p.index == sortAt {
				sortMoves(p.buffer[p.index:p.count])
			} else {
				moveToTop(p.buffer[p.index:p.count])
			}
		}
		var m = p.buffer[p.index].Move
		p.index++
		if p.filter != nil && p.filter.Excludes(m) {
			continue
		}
		return m
	}
}

// Score returns the ordering key last handed out by Next, for callers
// that need it (Negamax compares it against GoodCaptureValue and
// against its history-pruning and reduction thresholds).
func (p *MovePicker) Score() int32 {
	if p.index == 0 || p.index > p.count {
		return 0
	}
	return p.buffer[p.index-1].Key
}
