package search

// UciScore is the spec §6 "either cp or mate, never both" result of
// translating an internal score into the UCI `info score ...` field,
// grounded on the ancestor engine's newUciScore in pkg/engine/utils.go.
type UciScore struct {
	Centipawns int
	Mate       int // plies-to-mate/2, signed; zero means Centipawns applies
}

// NewUciScore converts an internal score (already measured from the
// side to move's perspective, at search height 0) into a UciScore.
// Scores at or beyond ValueWin/ValueLoss are reported as mate
// distances; everything else is reported as centipawns.
func NewUciScore(v int) UciScore {
	switch {
	case v >= ValueWin:
		return UciScore{Mate: (Checkmate - v + 1) / 2}
	case v <= ValueLoss:
		return UciScore{Mate: (-Checkmate - v) / 2}
	default:
		return UciScore{Centipawns: v}
	}
}
