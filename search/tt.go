package search

import (
	"sync/atomic"

	"github.com/corvid-chess/corvid/chess"
)

// ttSlot is one transposition-table entry, three 64-bit words so two
// PackedMove hints fit alongside score/eval/depth/bound. Per spec
// §4.1/§9, the table is racy by design: readers and writers never
// take a lock. Instead of storing the Zobrist key verbatim, keyCheck
// stores `hash ^ data1 ^ data2`; a reader recomputes the XOR from
// whatever it observes in data1/data2 and compares against the
// position's real hash. A torn write (word A updated, word B not yet
// visible) makes the recomputed value disagree with the real hash,
// which reads exactly like a plain miss — no separate "torn" state is
// needed.
type ttSlot struct {
	keyCheck atomic.Uint64
	data1    atomic.Uint64
	data2    atomic.Uint64
}

const (
	shiftScore      = 0
	shiftStaticEval = 16
	shiftDepth      = 32
	shiftBound      = 40
)

func packData1(score, staticEval, depth int, bound Bound) uint64 {
	return uint64(uint16(score))<<shiftScore |
		uint64(uint16(staticEval))<<shiftStaticEval |
		uint64(uint8(depth))<<shiftDepth |
		uint64(bound)<<shiftBound
}

func unpackData1(d uint64) (score, staticEval, depth int, bound Bound) {
	score = int(int16(d >> shiftScore))
	staticEval = int(int16(d >> shiftStaticEval))
	depth = int(int8(d >> shiftDepth))
	bound = Bound(uint8(d >> shiftBound))
	return
}

func packData2(moves [TTMoveSlots]chess.PackedMove) uint64 {
	return uint64(moves[0]) | uint64(moves[1])<<16
}

func unpackData2(d uint64) [TTMoveSlots]chess.PackedMove {
	return [TTMoveSlots]chess.PackedMove{
		chess.PackedMove(uint16(d)),
		chess.PackedMove(uint16(d >> 16)),
	}
}

// Entry is the decoded, caller-facing view of a ttSlot.
type Entry struct {
	Score      int
	StaticEval int
	Depth      int
	Bound      Bound
	Moves      [TTMoveSlots]chess.PackedMove
}

// Table is the spec §4.1 transposition table: fixed power-of-two
// size, single slot per index (no buckets), shared across all search
// threads.
type Table struct {
	slots []ttSlot
	mask  uint64
}

func roundPowerOfTwo(n uint64) uint64 {
	var p = uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// NewTable builds a table sized to hold approximately megabytes worth
// of entries, rounded down to a power of two.
func NewTable(megabytes int) *Table {
	const slotSize = 24 // 3 * 8 bytes
	var count = roundPowerOfTwo(uint64(megabytes) * 1024 * 1024 / slotSize)
	if count == 0 {
		count = 1
	}
	// roundPowerOfTwo rounds up; step back down if we overshot.
	for count > 1 && count*slotSize > uint64(megabytes)*1024*1024 {
		count >>= 1
	}
	if count == 0 {
		count = 1
	}
	return &Table{slots: make([]ttSlot, count), mask: count - 1}
}

func (t *Table) index(hash uint64) uint64 { return hash & t.mask }

func (t *Table) Size() int { return len(t.slots) }

func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].keyCheck.Store(0)
		t.slots[i].data1.Store(0)
		t.slots[i].data2.Store(0)
	}
}

// Resize rebuilds the table at a new power-of-two size, re-inserting
// every currently-valid entry at its new index; an entry whose new
// slot is already occupied is dropped, per spec §4.1.
func (t *Table) Resize(megabytes int) {
	var old = t.slots
	*t = *NewTable(megabytes)
	for i := range old {
		var data1 = old[i].data1.Load()
		var data2 = old[i].data2.Load()
		var keyCheck = old[i].keyCheck.Load()
		var hash = keyCheck ^ data1 ^ data2
		var _, _, _, bound = unpackData1(data1)
		if bound == BoundInvalid {
			continue
		}
		var idx = t.index(hash)
		if t.slots[idx].data1.Load() != 0 || t.slots[idx].keyCheck.Load() != 0 {
			continue
		}
		t.slots[idx].data1.Store(data1)
		t.slots[idx].data2.Store(data2)
		t.slots[idx].keyCheck.Store(keyCheck)
	}
}

// Read implements the spec §4.1 `read(pos, out) -> bool`. A hit
// requires the recomputed key to match the position's hash and the
// decoded bound to be anything but Invalid.
func (t *Table) Read(hash uint64, out *Entry) bool {
	var slot = &t.slots[t.index(hash)]
	var data1 = slot.data1.Load()
	var data2 = slot.data2.Load()
	var keyCheck = slot.keyCheck.Load()

	if keyCheck^data1^data2 != hash {
		return false
	}

	var score, staticEval, depth, bound = unpackData1(data1)
	if bound == BoundInvalid {
		return false
	}
	out.Score = score
	out.StaticEval = staticEval
	out.Depth = depth
	out.Bound = bound
	out.Moves = unpackData2(data2)
	return true
}

// mergeMoves prepends newMove to existing, drops duplicates and
// truncates to TTMoveSlots, per spec §4.1's move-merge rule.
func mergeMoves(existing [TTMoveSlots]chess.PackedMove, newMove chess.PackedMove) [TTMoveSlots]chess.PackedMove {
	if newMove.IsEmpty() {
		return existing
	}
	var result [TTMoveSlots]chess.PackedMove
	result[0] = newMove
	var i = 1
	for _, m := range existing {
		if i >= TTMoveSlots {
			break
		}
		if m == newMove || m.IsEmpty() {
			continue
		}
		result[i] = m
		i++
	}
	return result
}

// Write implements spec §4.1's `write` with its replacement discipline:
// a same-key write is suppressed when the incoming depth is strictly
// smaller AND the bound is unchanged; a different-key write always
// replaces (single slot, no probing).
func (t *Table) Write(hash uint64, score, staticEval, depth int, bound Bound, bestMove chess.Move) {
	var slot = &t.slots[t.index(hash)]
	var oldData1 = slot.data1.Load()
	var oldData2 = slot.data2.Load()
	var oldKeyCheck = slot.keyCheck.Load()
	var sameKey = oldKeyCheck^oldData1^oldData2 == hash

	var moves [TTMoveSlots]chess.PackedMove
	if sameKey {
		var _, _, oldDepth, oldBound = unpackData1(oldData1)
		if depth < oldDepth && bound == oldBound {
			return
		}
		moves = mergeMoves(unpackData2(oldData2), chess.Pack(bestMove))
	} else {
		moves = mergeMoves([TTMoveSlots]chess.PackedMove{}, chess.Pack(bestMove))
	}

	var data1 = packData1(score, staticEval, depth, bound)
	var data2 = packData2(moves)
	var keyCheck = hash ^ data1 ^ data2

	slot.data1.Store(data1)
	slot.data2.Store(data2)
	slot.keyCheck.Store(keyCheck)
}

// Prefetch is a hint hook; Go gives no portable prefetch instruction,
// so this touches the slot's first word to pull the cache line into
// L1 ahead of the read that will follow a few instructions later.
func (t *Table) Prefetch(hash uint64) {
	_ = t.slots[t.index(hash)].keyCheck.Load()
}
