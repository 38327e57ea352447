package search

import "math"

// Config is the typed tunables record spec §9 asks for: "present them
// as a typed record of tunables with documented ranges, initialized
// at startup, read but not written during a search." It holds the
// engine options and the aspiration, mate-stop, root-singularity and
// LMR tunables; the pruning, reduction and extension margins used by
// Negamax and QSearch are literals or package constants in those
// files, not fields of Config.
type Config struct {
	Threads  int
	HashMB   int
	MultiPV  int
	Ponder   bool
	AnalysisMode bool
	DebugLog bool

	AspirationDepthStart   int // depth ≥ which aspiration windows kick in
	AspirationWindowMaxSize int

	MateCountStopCondition int

	RootSingularityMinDepth int
	RootSingularityMaxScore int

	// MaxDepthReduction caps the per-move LMR reduction (spec §4.5's
	// `0 ≤ R ≤ min(MaxDepthReduction, depth + moveExtension − 1)`),
	// independent of the depth-derived ceiling.
	MaxDepthReduction int

	CurrentMoveReportDelayMs int64

	lmr [MaxSearchDepth + 1][64]int
}

func DefaultConfig() *Config {
	var c = &Config{
		Threads:  1,
		HashMB:   16,
		MultiPV:  1,
		AspirationDepthStart:    6,
		AspirationWindowMaxSize: 500,
		MateCountStopCondition:  5,
		RootSingularityMinDepth: 8,
		RootSingularityMaxScore: 1000,
		MaxDepthReduction:       8,
		CurrentMoveReportDelayMs: 10_000,
	}
	c.initLmr()
	return c
}

// initLmr builds the LMR base-reduction table spec §4.5 describes:
// `clamp(-1.25 + 0.8*ln(depth+1)*ln(moveIndex+1), 0, 255)`.
func (c *Config) initLmr() {
	for d := 0; d <= MaxSearchDepth; d++ {
		for m := 0; m < 64; m++ {
			var r = lmrFormula(float64(d), float64(m))
			if r < 0 {
				r = 0
			}
			if r > 255 {
				r = 255
			}
			c.lmr[d][m] = int(r)
		}
	}
}

func (c *Config) Lmr(depth, moveIndex int) int {
	if depth < 0 {
		depth = 0
	}
	if depth > MaxSearchDepth {
		depth = MaxSearchDepth
	}
	if moveIndex >= 64 {
		moveIndex = 63
	}
	if moveIndex < 0 {
		moveIndex = 0
	}
	return c.lmr[depth][moveIndex]
}

func lmrFormula(depth, moveIndex float64) float64 {
	return -1.25 + 0.8*math.Log(depth+1)*math.Log(moveIndex+1)
}
