package search

import "github.com/corvid-chess/corvid/chess"

// nodeCacheMaxMoves is the per-entry move-stat capacity (spec §3:
// "up to N (≈ 16)").
const nodeCacheMaxMoves = 16

type moveStat struct {
	move          chess.Move
	nodesSearched uint64
	isBestMove    bool
}

// NodeCacheEntry is the spec §3 per-root-visited-position record: a
// position key, a generation stamp, a bounded list of per-move visit
// counts, their running sum, and the distance from the search root
// the position was last seen at.
type NodeCacheEntry struct {
	hash             uint64
	valid            bool
	generation       uint32
	distanceFromRoot int
	moves            [nodeCacheMaxMoves]moveStat
	nodesSum         uint64
}

func (e *NodeCacheEntry) scaleDown() {
	e.nodesSum = 0
	for i := range e.moves {
		e.moves[i].nodesSearched /= 2
		e.nodesSum += e.moves[i].nodesSearched
	}
}

// AddMoveStats updates or inserts a move's visit count, evicting the
// least-visited slot when the table is full, and halves every count
// in the entry when any one threatens to overflow.
func (e *NodeCacheEntry) AddMoveStats(move chess.Move, numNodes uint64) {
	const overflowGuard = ^uint64(0) / nodeCacheMaxMoves

	var minNodes = ^uint64(0)
	var minIndex = -1

	for i := range e.moves {
		var m = &e.moves[i]
		if m.move == move {
			m.nodesSearched += numNodes
			e.nodesSum += numNodes
			if m.nodesSearched >= overflowGuard {
				e.scaleDown()
			}
			return
		}
		if m.move == chess.MoveEmpty || (m.nodesSearched < minNodes && m.nodesSearched < numNodes) {
			minNodes = m.nodesSearched
			minIndex = i
		}
	}

	if minIndex >= 0 {
		var m = &e.moves[minIndex]
		e.nodesSum -= m.nodesSearched
		e.nodesSum += numNodes
		m.move = move
		m.nodesSearched = numNodes
		m.isBestMove = false
	}
}

// SetBestMove rotates move to the front of the list and marks it
// best, so the time manager can read stats.moves[0] for the current
// best-move node fraction.
func (e *NodeCacheEntry) SetBestMove(move chess.Move) {
	for i := range e.moves {
		if e.moves[i].move == move {
			e.moves[i].isBestMove = true
			var temp = e.moves[i]
			copy(e.moves[1:i+1], e.moves[0:i])
			e.moves[0] = temp
			return
		}
	}
}

// BestMoveNodeFraction returns moves[0].nodesSearched / nodesSum,
// which TimeManager.Update consumes as bestMoveNodeFraction.
func (e *NodeCacheEntry) BestMoveNodeFraction() float64 {
	if e.nodesSum == 0 {
		return 0
	}
	return float64(e.moves[0].nodesSearched) / float64(e.nodesSum)
}

// NodeCache is the spec §4.2 direct-mapped, fixed power-of-two-sized
// table of NodeCacheEntry, used purely as time-manager input, never
// for search correctness.
type NodeCache struct {
	entries    []NodeCacheEntry
	generation uint32
}

func NewNodeCache(size int) *NodeCache {
	return &NodeCache{entries: make([]NodeCacheEntry, roundPowerOfTwo(uint64(size)))}
}

func (c *NodeCache) index(hash uint64) uint64 {
	return hash % uint64(len(c.entries))
}

func (c *NodeCache) Reset() {
	c.generation = 0
	for i := range c.entries {
		c.entries[i] = NodeCacheEntry{}
	}
}

// OnNewSearch bumps the generation counter; entries stamped with an
// older generation become reclaimable by GetOrAlloc.
func (c *NodeCache) OnNewSearch() {
	c.generation++
}

// TryGet returns the entry if its key matches pos, else nil — no
// secondary probing.
func (c *NodeCache) TryGet(pos *chess.Position) *NodeCacheEntry {
	var entry = &c.entries[c.index(pos.Hash())]
	if entry.valid && entry.hash == pos.Hash() {
		return entry
	}
	return nil
}

// GetOrAlloc reuses the existing match (updating its generation and
// distanceFromRoot), reclaims a stale-generation slot, or fails
// (returns nil) if the slot is occupied by a different position from
// the current generation — exactly the spec §4.2 "allocation failed"
// case, with no fallback probing.
func (c *NodeCache) GetOrAlloc(pos *chess.Position, distanceFromRoot int) *NodeCacheEntry {
	var entry = &c.entries[c.index(pos.Hash())]

	if entry.valid && entry.hash == pos.Hash() {
		entry.generation = c.generation
		entry.distanceFromRoot = distanceFromRoot
		return entry
	}

	if !entry.valid || entry.generation < c.generation {
		*entry = NodeCacheEntry{
			hash:             pos.Hash(),
			valid:            true,
			generation:       c.generation,
			distanceFromRoot: distanceFromRoot,
		}
		return entry
	}

	return nil
}
