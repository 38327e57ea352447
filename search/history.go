package search

import "github.com/corvid-chess/corvid/chess"

// historyMax bounds the exponential-moving-average history score so
// it never overflows the int16 it is stored in.
const historyMax = 1 << 14

// History is the quiet-move ordering table spec §6 calls the
// MoveOrderer: a side-to-move/from/to main table plus two
// continuation tables indexed by the scored move's own side, piece
// and to-square. The first continuation table is consulted only when
// the previous ply's move is known, the second only when the move two
// plies back is known; those earlier moves do not select the entry.
type History struct {
	mainHistory          [1 << 13]int16
	continuationHistory  [2][1 << 10]int16
}

func NewHistory() *History { return &History{} }

func (h *History) Clear() {
	for i := range h.mainHistory {
		h.mainHistory[i] = 0
	}
	for i := range h.continuationHistory {
		for j := range h.continuationHistory[i] {
			h.continuationHistory[i][j] = 0
		}
	}
}

func sideFromToIndex(side bool, m chess.Move) int {
	var result = (m.From() << 6) | m.To()
	if side {
		result |= 1 << 12
	}
	return result & (1<<13 - 1)
}

func pieceSquareIndex(side bool, m chess.Move) int {
	var result = (m.MovingPiece() << 6) | m.To()
	if side {
		result |= 1 << 9
	}
	return result & (1<<10 - 1)
}

// Context binds a History to the two previous plies' moves for one
// particular node, so ReadTotal/Update don't need the caller to pass
// continuation indices on every call.
type Context struct {
	history    *History
	sideToMove bool
	cont1      int
	cont2      int
}

// ContextFor builds a Context from a NodeInfo-style ancestry: prev1 is
// the move that led to the current node, prev2 the move before that.
func (h *History) ContextFor(sideToMove bool, prev1, prev2 chess.Move) Context {
	var cont1, cont2 = -1, -1
	if prev1 != chess.MoveEmpty {
		cont1 = pieceSquareIndex(!sideToMove, prev1)
	}
	if prev2 != chess.MoveEmpty {
		cont2 = pieceSquareIndex(sideToMove, prev2)
	}
	return Context{history: h, sideToMove: sideToMove, cont1: cont1, cont2: cont2}
}

func (c Context) ReadTotal(m chess.Move) int {
	var score = int(c.history.mainHistory[sideFromToIndex(c.sideToMove, m)])
	var idx = pieceSquareIndex(c.sideToMove, m)
	if c.cont1 != -1 {
		score += int(c.history.continuationHistory[0][idx])
	}
	if c.cont2 != -1 {
		score += int(c.history.continuationHistory[1][idx])
	}
	return score
}

// Update is the MoveOrderer.update_quiet_history hook spec §4.5 calls
// on a beta cutoff by a quiet move: every quiet tried before the
// cutoff move gets penalized, the cutoff move itself gets rewarded,
// by an exponential-moving-average bonus capped at depth*depth (max
// 400).
func (c Context) Update(quietsSearched []chess.Move, bestMove chess.Move, depth int) {
	var bonus = depth * depth
	if bonus > 400 {
		bonus = 400
	}
	for _, m := range quietsSearched {
		var good = m == bestMove

		var fromTo = sideFromToIndex(c.sideToMove, m)
		updateHistory(&c.history.mainHistory[fromTo], bonus, good)

		var pieceTo = pieceSquareIndex(c.sideToMove, m)
		if c.cont1 != -1 {
			updateHistory(&c.history.continuationHistory[0][pieceTo], bonus, good)
		}
		if c.cont2 != -1 {
			updateHistory(&c.history.continuationHistory[1][pieceTo], bonus, good)
		}

		if good {
			break
		}
	}
}

func updateHistory(v *int16, bonus int, good bool) {
	var target int
	if good {
		target = historyMax
	} else {
		target = -historyMax
	}
	*v += int16((target - int(*v)) * bonus / 512)
}

// Killers holds the two killer-move slots for one ply: quiet moves
// that caused a beta cutoff at this height in a sibling subtree.
type Killers struct {
	slots [2]chess.Move
}

func (k *Killers) Moves() (chess.Move, chess.Move) { return k.slots[0], k.slots[1] }

// Update pushes m into slot 0, shifting the old slot-0 killer to
// slot 1, unless m is already the current best killer.
func (k *Killers) Update(m chess.Move) {
	if k.slots[0] == m {
		return
	}
	k.slots[1] = k.slots[0]
	k.slots[0] = m
}
