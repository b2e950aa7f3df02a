package engine

import "testing"

func TestSolveTargetPlayingTimeScalesWithRosterSize(t *testing.T) {
	cfg := TargetsConfig{GameLength: 2400, FieldSpots: 5, NumPeriods: 2, FinalNoSubWindow: 45, CheckInterval: 15, Sport: "basketball"}

	small := Solve(cfg, 8)  // 5 court + 3 bench
	large := Solve(cfg, 10) // 5 court + 5 bench

	if small.TargetPlayingTime <= large.TargetPlayingTime {
		t.Fatalf("smaller roster should target more playing time per player: small=%d large=%d",
			small.TargetPlayingTime, large.TargetPlayingTime)
	}
}

func TestSolveRespectsIdealShiftsOverride(t *testing.T) {
	cfg := TargetsConfig{GameLength: 2400, FieldSpots: 5, NumPeriods: 2, FinalNoSubWindow: 45, CheckInterval: 15, IdealShiftsOverride: 6}
	tg := Solve(cfg, 10)
	if tg.IdealShiftsPerPlayer != 6 {
		t.Fatalf("want override to stick, got %d", tg.IdealShiftsPerPlayer)
	}
}

func TestSolveProratedStintsStayWithinBounds(t *testing.T) {
	cfg := TargetsConfig{GameLength: 2400, FieldSpots: 5, NumPeriods: 2, FinalNoSubWindow: 45, CheckInterval: 15, Sport: "soccer"}
	tg := Solve(cfg, 14)

	if tg.ProratedMaxCourtStint <= 0 || tg.ProratedMaxBenchStint <= 0 {
		t.Fatalf("prorated stints must be positive: %+v", tg)
	}
	if tg.MinSubstitutionGap <= 0 {
		t.Fatalf("min substitution gap must be positive: %+v", tg)
	}
}

func TestMinSpacingWidensWithDeeperBench(t *testing.T) {
	shallow := minSpacing("basketball", 2)
	deep := minSpacing("basketball", 5)
	if deep <= shallow {
		t.Fatalf("deeper bench should widen spacing: shallow=%d deep=%d", shallow, deep)
	}
}
