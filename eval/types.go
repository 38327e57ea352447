// Package eval is the external evaluator collaborator consumed by the
// search core (spec §6): a neural-network accumulator with a linear
// output head, plus a lightweight material evaluator used for tests
// and as the cheap fallback uci.NewCoordinatorWithStack picks when no
// trained weights are supplied. None of this package is searched by or part
// of the search core; Negamax only ever calls Evaluate through the
// Evaluator interface.
package eval

import "github.com/corvid-chess/corvid/chess"

// MaxPly bounds the per-thread, per-ply accumulator stack; it mirrors
// search.MaxSearchDepth but lives here so this package has no import
// of search.
const MaxPly = 128

// Context is the evaluator-context handle a NodeInfo frame carries,
// per spec §5 ("the core only asks for a dirty marker"). The search
// core allocates one per ply, lazily, and never reads its fields; it
// only calls MarkDirty after a move or null move invalidates cached
// incremental state.
type Context struct {
	ply   int
	dirty bool
}

// NewContext binds a Context to a fixed ply slot in an Evaluator's
// per-thread accumulator stack.
func NewContext(ply int) *Context {
	return &Context{ply: ply, dirty: true}
}

func (c *Context) MarkDirty() { c.dirty = true }

// Evaluator is the spec §6 Evaluator API. Implementations return a
// centipawn score from the side to move's perspective (positive is
// good for the side to move, not for White), bounded away from
// tablebase-win magnitudes.
type Evaluator interface {
	Evaluate(pos *chess.Position, ctx *Context) int32
}
