package uci

import (
	"context"
	"time"

	"github.com/corvid-chess/corvid/chess"
	"github.com/corvid-chess/corvid/eval"
	"github.com/corvid-chess/corvid/search"
	"github.com/corvid-chess/corvid/tablebase"
)

const (
	engineName    = "Corvid"
	engineVersion = "1.0"
	engineAuthor  = "corvid-chess"
)

// CoordinatorEngine adapts a search.Coordinator to the Engine
// interface the Protocol drives, translating UCI's `go`-command time
// controls into a search.TimeManager the way the ancestor engine's
// shell package wires its own searcher into its UCI protocol.
type CoordinatorEngine struct {
	coordinator  *Coordinator
	moveOverhead int
}

// Coordinator is an alias for search.Coordinator, the concrete type
// CoordinatorEngine drives; tests substitute a fake at the Engine
// interface instead.
type Coordinator = search.Coordinator

func NewCoordinatorEngine(coordinator *search.Coordinator) *CoordinatorEngine {
	return &CoordinatorEngine{coordinator: coordinator, moveOverhead: 30}
}

func (e *CoordinatorEngine) GetInfo() (name, version, author string) {
	return engineName, engineVersion, engineAuthor
}

func (e *CoordinatorEngine) GetOptions() []Option {
	var cfg = e.coordinator.Config
	return []Option{
		&IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &cfg.HashMB},
		&IntOption{Name: "Threads", Min: 1, Max: 512, Value: &cfg.Threads},
		&IntOption{Name: "MultiPV", Min: 1, Max: 32, Value: &cfg.MultiPV},
		&BoolOption{Name: "Ponder", Value: &cfg.Ponder},
		&BoolOption{Name: "AnalysisMode", Value: &cfg.AnalysisMode},
		&BoolOption{Name: "DebugLog", Value: &cfg.DebugLog},
		&IntOption{Name: "MoveOverhead", Min: 0, Max: 5000, Value: &e.moveOverhead},
		&ButtonOption{Name: "ClearHash", Action: e.coordinator.Clear},
	}
}

func (e *CoordinatorEngine) Prepare() {}

func (e *CoordinatorEngine) Clear() {
	e.coordinator.Clear()
}

func (e *CoordinatorEngine) Search(ctx context.Context, root *chess.Position, gameHistory []uint64, limits GoLimits, report func(search.IterationReport), currentMove func(depth, moveNumber int, move chess.Move)) search.SearchResult {
	var tm = e.buildTimeManager(root, limits)

	var searchLimits = &search.Limits{
		MaxDepth:            limits.Depth,
		MaxNodes:            uint64(limits.Nodes),
		IdealTimeBase:       tm.IdealTime(),
		IdealTimeCurrent:    tm.IdealTime(),
		RootSingularityTime: tm.RootSingularityTime(),
		AnalysisMode:        e.coordinator.Config.AnalysisMode || limits.Infinite,
		StartTime:           time.Now().UnixNano(),
		TimeManager:         tm,
		CurrentMoveReport:   currentMove,
	}
	if tm.MaxTime() > 0 {
		searchLimits.MaxTime = tm.MaxTime()
	}
	if limits.Infinite || limits.Ponder {
		searchLimits.MaxTime = 0
	}

	var result, _ = e.coordinator.Search(ctx, root, gameHistory, searchLimits, func(r search.IterationReport) bool {
		if report != nil {
			report(r)
		}
		return true
	})
	return result
}

func (e *CoordinatorEngine) buildTimeManager(root *chess.Position, limits GoLimits) *search.TimeManager {
	var remaining, increment int64
	if root.WhiteMove {
		remaining, increment = limits.WhiteTimeNs, limits.WhiteIncrementNs
	} else {
		remaining, increment = limits.BlackTimeNs, limits.BlackIncrementNs
	}
	return search.NewTimeManager(search.TimeInput{
		RemainingNs:  remaining,
		IncrementNs:  increment,
		MovesToGo:    limits.MovesToGo,
		MoveOverhead: int64(e.moveOverhead) * int64(time.Millisecond),
		MoveTimeNs:   limits.MoveTimeNs,
	})
}

// NewCoordinatorWithStack wires a coordinator the way cmd/corvid's
// main assembles one: an NNUE evaluator falling back silently to
// material scoring when no weights file is configured, and a no-op
// tablebase prober until Syzygy support is wired in.
func NewCoordinatorWithStack(cfg *search.Config, weights *eval.Weights) *search.Coordinator {
	var evaluator eval.Evaluator
	if weights != nil {
		evaluator = eval.NewNNUEEvaluator(weights)
	} else {
		evaluator = eval.NewMaterialEvaluator()
	}
	return search.NewCoordinator(cfg, evaluator, tablebase.NoopProber{})
}
