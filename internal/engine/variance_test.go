package engine

import (
	"testing"

	"rotation-planner/internal/models"
)

func TestLiveDeviationMaxMinusMin(t *testing.T) {
	timing := map[string]models.PlayerTiming{
		"a": {TotalTimePlayed: 100},
		"b": {TotalTimePlayed: 160},
		"c": {TotalTimePlayed: 130},
	}
	dev := LiveDeviation(timing, []string{"a", "b", "c"}, "")
	if dev != 60 {
		t.Fatalf("want 60, got %d", dev)
	}
}

func TestLiveDeviationExcludesGoalkeeper(t *testing.T) {
	timing := map[string]models.PlayerTiming{
		"gk": {TotalTimePlayed: 2000},
		"a":  {TotalTimePlayed: 100},
		"b":  {TotalTimePlayed: 120},
	}
	dev := LiveDeviation(timing, []string{"gk", "a", "b"}, "gk")
	if dev != 20 {
		t.Fatalf("want 20 excluding goalkeeper outlier, got %d", dev)
	}
}

func TestFinalVariancePopulationStdDev(t *testing.T) {
	timing := map[string]models.PlayerTiming{
		"a": {TotalTimePlayed: 100},
		"b": {TotalTimePlayed: 100},
		"c": {TotalTimePlayed: 100},
	}
	v := FinalVariance(timing, []string{"a", "b", "c"}, "")
	if v != 0 {
		t.Fatalf("identical totals should have zero variance, got %d", v)
	}
}

func TestDynamicVarianceThresholdTightensOverTime(t *testing.T) {
	early := dynamicVarianceThreshold(0, 2400, 90, 60)
	late := dynamicVarianceThreshold(2400, 2400, 90, 60)
	if late > early {
		t.Fatalf("threshold should tighten as game progresses: early=%d late=%d", early, late)
	}
	if late != 60 {
		t.Fatalf("threshold at game end should equal varianceGoal, got %d", late)
	}
}
