package engine

import (
	"testing"

	"rotation-planner/internal/models"
)

func testGameConfig() models.GameConfig {
	return models.GameConfig{
		PeriodLength:     600,
		NumPeriods:       2,
		FieldSpots:       5,
		GameLength:       1200,
		FinalNoSubWindow: 45,
		CheckInterval:    15,
		LookAheadWindow:  60,
		VarianceGoal:     60,
		MaxEarlyVariance: 90,
		Sport:            "basketball",
	}
}

func TestPlannerUrgentRungFiresAtProratedMax(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")

	// push one court player's stint to the prorated max
	rs.IncrementCourt(p.Targets().ProratedMaxCourtStint)
	// the last substitution is a full base gap back, so the gap lockout
	// does not apply
	p.lastSubTime = p.Targets().ProratedMaxCourtStint - p.Targets().MinSubstitutionGap

	rot := p.Check(p.Targets().ProratedMaxCourtStint, cfg.PeriodLength, cfg.GameLength, false, rs)
	if rot == nil {
		t.Fatalf("expected an urgent rotation once a court stint reaches prorated max")
	}
	if rot.Reason != models.ReasonUrgent {
		t.Fatalf("want ReasonUrgent, got %s", rot.Reason)
	}
}

func TestPlannerGapLockoutSuppressesRepeats(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	p.lastSubTime = 100

	rot := p.Check(100+1, cfg.PeriodLength, cfg.GameLength, false, rs)
	if rot != nil {
		t.Fatalf("expected gap lockout to suppress a rotation one second after the last sub")
	}
}

func TestPlannerEndOfPeriodLockout(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	rs.IncrementCourt(cfg.PeriodLength) // force urgency-level stints

	rot := p.Check(cfg.PeriodLength-10, 10, cfg.GameLength-(cfg.PeriodLength-10), false, rs)
	if rot != nil {
		t.Fatalf("expected no rotation inside the final no-sub window, got %+v", rot)
	}
}

func TestPlannerHalftimeBatchFiresOnce(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	rs.IncrementCourt(300)

	half := cfg.GameLength / 2
	first := p.Check(half, cfg.PeriodLength-(half%cfg.PeriodLength), cfg.GameLength-half, true, rs)
	if first == nil {
		t.Fatalf("expected a halftime batch rotation")
	}
	if first.Reason != models.ReasonHalftimeRefresh {
		t.Fatalf("want ReasonHalftimeRefresh, got %s", first.Reason)
	}
	if !p.halftimeDone {
		t.Fatalf("halftimeDone should be set after the batch fires")
	}
}

func TestEffectiveMinGapUnchangedEarlyGame(t *testing.T) {
	cfg := testGameConfig()
	rs := NewRosterStore(players(5, "S"), players(4, "R"), 5)
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	base := p.targets.MinSubstitutionGap

	// under 33% progress (here, t=100 of a 1200s game): no attenuation
	// regardless of deviation.
	if got := p.effectiveMinGap(100, cfg.GameLength-100, 999); got != base {
		t.Fatalf("want unattenuated base gap %d early in the game, got %d", base, got)
	}
}

func TestEffectiveMinGapAttenuatesMidGameWithHighDeviation(t *testing.T) {
	cfg := testGameConfig()
	rs := NewRosterStore(players(5, "S"), players(4, "R"), 5)
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	base := p.targets.MinSubstitutionGap

	now := int(float64(cfg.GameLength) * 0.5) // 33-67% bracket
	if got := p.effectiveMinGap(now, cfg.GameLength-now, 60); got != base {
		t.Fatalf("want unattenuated gap when deviation <= 120s, got %d", got)
	}
	want := int(float64(base) * 0.85)
	if got := p.effectiveMinGap(now, cfg.GameLength-now, 121); got != want {
		t.Fatalf("want gap*0.85=%d once deviation exceeds 120s, got %d", want, got)
	}
}

func TestEffectiveMinGapShrinksMostNearGameEnd(t *testing.T) {
	cfg := testGameConfig()
	rs := NewRosterStore(players(5, "S"), players(4, "R"), 5)
	p := NewPlanner(cfg, rs.EligibleCount(), "")
	base := p.targets.MinSubstitutionGap

	now := int(float64(cfg.GameLength) * 0.9) // >= 85% bracket
	gameLeft := cfg.GameLength - now
	got := p.effectiveMinGap(now, gameLeft, 0)
	wantFew := int(float64(base) * 0.6)
	wantMany := int(float64(base) * 0.7)
	if gameLeft/base <= 3 {
		if got != wantFew {
			t.Fatalf("want gap*0.6=%d with <=3 rotations remaining, got %d", wantFew, got)
		}
	} else if got != wantMany {
		t.Fatalf("want gap*0.7=%d with >3 rotations remaining, got %d", wantMany, got)
	}
}

func TestUrgentRungTiebreaksOnTotalBenchTime(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")

	// push a court stint to urgency so mustOff is non-empty, and put
	// two bench players at the same current stint but different
	// cumulative bench time.
	rs.IncrementCourt(p.Targets().ProratedMaxCourtStint)
	a, b := reserves[0].ID, reserves[1].ID
	ta, tb := rs.Timing(a), rs.Timing(b)
	ta.CurrentBenchStint, tb.CurrentBenchStint = 200, 200
	ta.TotalBenchTime, tb.TotalBenchTime = 400, 900
	rs.timing[a] = ta
	rs.timing[b] = tb

	rot := p.urgentRung(p.Targets().ProratedMaxCourtStint, rs.CourtIDs(), rs.BenchIDs(), rs)
	if rot == nil {
		t.Fatalf("expected an urgent rotation")
	}
	if len(rot.On) == 0 || rot.On[0] != b {
		t.Fatalf("want %s (higher totalBenchTime) brought on first, got %+v", b, rot.On)
	}
}

func TestScheduledRungRequiresBothUpcomingPools(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")

	// No one is within LookAheadWindow of their cap yet.
	if rot := p.scheduledRung(0, rs.CourtIDs(), rs.BenchIDs(), rs); rot != nil {
		t.Fatalf("expected no scheduled rotation before any stint nears its cap, got %+v", rot)
	}

	id := starters[0].ID
	ti := rs.Timing(id)
	ti.CurrentCourtStint = p.Targets().ProratedMaxCourtStint - 30
	rs.timing[id] = ti
	if rot := p.scheduledRung(0, rs.CourtIDs(), rs.BenchIDs(), rs); rot != nil {
		t.Fatalf("expected no scheduled rotation with an upcoming OFF but no upcoming ON, got %+v", rot)
	}

	bid := reserves[0].ID
	bt := rs.Timing(bid)
	bt.CurrentBenchStint = p.Targets().ProratedMaxBenchStint - 20
	rs.timing[bid] = bt

	rot := p.scheduledRung(0, rs.CourtIDs(), rs.BenchIDs(), rs)
	if rot == nil {
		t.Fatalf("expected a scheduled rotation once both an upcoming OFF and ON candidate exist")
	}
	if rot.Reason != models.ReasonScheduledBalance {
		t.Fatalf("want ReasonScheduledBalance, got %s", rot.Reason)
	}
	if len(rot.Off) == 0 || rot.Off[0] != id {
		t.Fatalf("want %s as the upcoming OFF candidate, got %+v", id, rot.Off)
	}
	if len(rot.On) == 0 || rot.On[0] != bid {
		t.Fatalf("want %s as the upcoming ON candidate, got %+v", bid, rot.On)
	}
}

func TestProactiveRungRanksByWeightedScore(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	p := NewPlanner(cfg, rs.EligibleCount(), "")

	// Player a has a lower total played but a much longer current
	// court stint than player b; the weighted score should still rank
	// a above b as the OFF candidate.
	a, b := starters[0].ID, starters[1].ID
	ta, tb := rs.Timing(a), rs.Timing(b)
	ta.TotalTimePlayed, ta.CurrentCourtStint = 300, 400
	tb.TotalTimePlayed, tb.CurrentCourtStint = 320, 10
	rs.timing[a] = ta
	rs.timing[b] = tb

	now := int(float64(cfg.GameLength) * 0.8)
	dev := p.currentDeviation(rs.CourtIDs(), rs.BenchIDs(), rs)
	rot := p.proactiveRung(now, cfg.GameLength-now, dev, rs.CourtIDs(), rs.BenchIDs(), rs)
	if rot == nil {
		t.Fatalf("expected a proactive rotation late in the game")
	}
	if rot.Off[0] != a {
		t.Fatalf("want %s ranked first by weighted OFF score (longer stint outweighing small totalTimePlayed gap), got %+v", a, rot.Off)
	}
}

func TestPlannerGoalkeeperExcludedFromCandidates(t *testing.T) {
	starters := players(5, "S")
	reserves := players(4, "R")
	rs := NewRosterStore(starters, reserves, 5)
	cfg := testGameConfig()
	cfg.Sport = "soccer"
	gk := starters[0].ID
	p := NewPlanner(cfg, rs.EligibleCount(), gk)

	out := p.eligibleOutfield(rs.CourtIDs())
	for _, id := range out {
		if id == gk {
			t.Fatalf("goalkeeper should never appear in outfield candidate pool")
		}
	}
}
