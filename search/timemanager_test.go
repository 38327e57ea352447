package search

import "testing"

func TestTimeManagerFixedMoveTimeIgnoresOtherInputs(t *testing.T) {
	var tm = NewTimeManager(TimeInput{
		RemainingNs: 1,
		MoveTimeNs:  5_000_000_000,
	})
	if tm.IdealTime() != 5_000_000_000 || tm.MaxTime() != 5_000_000_000 {
		t.Errorf("fixed move time not honored: ideal=%d max=%d", tm.IdealTime(), tm.MaxTime())
	}
	if tm.RootSingularityTime() != 0 {
		t.Errorf("expected no root-singularity budget in fixed move-time mode, got %d", tm.RootSingularityTime())
	}
}

func TestTimeManagerIdealBelowMax(t *testing.T) {
	var tm = NewTimeManager(TimeInput{
		RemainingNs:  60_000_000_000,
		IncrementNs:  1_000_000_000,
		MoveOverhead: 30_000_000,
	})
	if tm.IdealTime() <= 0 || tm.MaxTime() <= 0 {
		t.Fatalf("expected positive budgets, got ideal=%d max=%d", tm.IdealTime(), tm.MaxTime())
	}
	if tm.IdealTime() > tm.MaxTime() {
		t.Errorf("ideal time %d exceeds max time %d", tm.IdealTime(), tm.MaxTime())
	}
}

func TestTimeManagerNeverExceedsHalfRemaining(t *testing.T) {
	var remaining = int64(10_000_000_000)
	var tm = NewTimeManager(TimeInput{RemainingNs: remaining, MoveOverhead: 100_000_000})
	if tm.MaxTime() > remaining/2+1 {
		t.Errorf("max time %d exceeds half of remaining %d", tm.MaxTime(), remaining)
	}
}

func TestTimeManagerUpdateSkippedBeforeDepthFive(t *testing.T) {
	var tm = NewTimeManager(TimeInput{RemainingNs: 60_000_000_000})
	var before = tm.IdealTime()
	tm.Update(4, 0.9, 123, 50, 0)
	if tm.IdealTime() != before {
		t.Error("expected Update to be a no-op before depth 5")
	}
}

func TestTimeManagerUpdateShortensOnHighNodeFraction(t *testing.T) {
	var tm = NewTimeManager(TimeInput{RemainingNs: 60_000_000_000})
	tm.Update(10, 0.95, 1, 0, 0)
	var stable = tm.IdealTime()

	var tm2 = NewTimeManager(TimeInput{RemainingNs: 60_000_000_000})
	tm2.Update(10, 0.10, 1, 0, 0)
	var unstable = tm2.IdealTime()

	if stable >= unstable {
		t.Errorf("expected a dominant best move (high node fraction) to shorten the budget more than a contested one: stable=%d unstable=%d", stable, unstable)
	}
}
