// Package tablebase is the endgame-tablebase collaborator spec §6
// names as consumed, not implemented, by the search core: a WDL and
// root-move probe interface the core calls when the piece count drops
// low enough to matter. It is grounded on the Prober shape used by
// other engines in this family; this module ships only a NoopProber
// since loading real Syzygy/Gaviota files is outside the core's scope
// (spec §1).
package tablebase

import "github.com/corvid-chess/corvid/chess"

// WDL is the tablebase result for the side to move, from that side's
// perspective. Cursed wins and blessed losses flag a result the
// 50-move rule can flip before it is realized.
type WDL int

const (
	WDLLoss        WDL = -2
	WDLBlessedLoss WDL = -1
	WDLDraw        WDL = 0
	WDLCursedWin   WDL = 1
	WDLWin         WDL = 2
)

// ProbeResult is the outcome of a WDL probe, per spec §6's
// `probe_wdl(pos) -> Option<i32 in {-1,0,1}>`; Found distinguishes "no
// tablebase coverage" from the None case the spec return type spells
// with Option.
type ProbeResult struct {
	Found bool
	WDL   WDL
}

// RootResult is the outcome of a root-move probe, per spec §6's
// `probe_root(pos) -> Option<(Move, wdl)>`.
type RootResult struct {
	Found bool
	Move  chess.Move
	WDL   WDL
}

// Prober is the spec §6 Tablebase API.
type Prober interface {
	Probe(pos *chess.Position) ProbeResult
	ProbeRoot(pos *chess.Position) RootResult
	MaxPieces() int
	Available() bool
}

// WDLToScore converts a WDL into the search score spec §4.5 wants:
// `±(TABLEBASE_WIN − ply)` for exact wins/losses, 0 for an exact draw.
// Cursed wins and blessed losses are nudged 100 centipawns toward a
// draw so Negamax does not treat them as unconditionally exact.
func WDLToScore(wdl WDL, ply, tablebaseWin int) int {
	switch wdl {
	case WDLWin:
		return tablebaseWin - ply
	case WDLCursedWin:
		return tablebaseWin - 100 - ply
	case WDLDraw:
		return 0
	case WDLBlessedLoss:
		return -tablebaseWin + 100 + ply
	case WDLLoss:
		return -tablebaseWin + ply
	default:
		return 0
	}
}

// NoopProber reports no tablebase coverage; it is the default Prober
// until real tablebase files are wired in, and the shape any future
// Syzygy/Gaviota adapter implements against.
type NoopProber struct{}

func (NoopProber) Probe(pos *chess.Position) ProbeResult      { return ProbeResult{Found: false} }
func (NoopProber) ProbeRoot(pos *chess.Position) RootResult   { return RootResult{Found: false} }
func (NoopProber) MaxPieces() int                             { return 0 }
func (NoopProber) Available() bool                            { return false }

// CountPieces counts every piece on the board, the quantity the probe
// gate (spec §4.5: "#pieces ≤ 5") is measured on. Negamax computes the
// same count with its own tablebasePieceCount helper.
func CountPieces(pos *chess.Position) int {
	return chess.PopCount(pos.AllPieces())
}
