package engine

import (
	"testing"

	"rotation-planner/internal/models"
)

func players(n int, prefix string) []models.Player {
	out := make([]models.Player, n)
	for i := range out {
		out[i] = models.Player{ID: prefix + string(rune('A'+i)), Name: prefix + string(rune('A'+i))}
	}
	return out
}

func TestRosterStoreInitialMembership(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)

	if got := len(rs.CourtIDs()); got != 5 {
		t.Fatalf("want 5 on court, got %d", got)
	}
	if got := len(rs.BenchIDs()); got != 3 {
		t.Fatalf("want 3 on bench, got %d", got)
	}
	if rs.EligibleCount() != 8 {
		t.Fatalf("want 8 eligible, got %d", rs.EligibleCount())
	}
}

func TestRosterApplyRotationSwapsAndResetsStints(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)
	rs.IncrementCourt(100)
	rs.IncrementBench(50)

	off := []string{"SA"}
	on := []string{"RA"}
	if err := rs.ApplyRotation(off, on); err != nil {
		t.Fatalf("ApplyRotation: %v", err)
	}
	if s, _ := rs.Status("SA"); s != models.StatusOnBench {
		t.Fatalf("SA should be benched, got %s", s)
	}
	if s, _ := rs.Status("RA"); s != models.StatusOnCourt {
		t.Fatalf("RA should be on court, got %s", s)
	}
	if rs.Timing("SA").CurrentBenchStint != 0 {
		t.Fatalf("SA bench stint should reset to 0")
	}
	if rs.Timing("RA").CurrentCourtStint != 0 {
		t.Fatalf("RA court stint should reset to 0")
	}
	// totals are not reset, only current stint
	if rs.Timing("SA").TotalTimePlayed != 100 {
		t.Fatalf("SA total time played should be preserved, got %d", rs.Timing("SA").TotalTimePlayed)
	}
}

func TestRosterApplyRotationRejectsInvalidMembers(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)

	if err := rs.ApplyRotation([]string{"RA"}, []string{"SA"}); err == nil {
		t.Fatalf("expected rejection when off/on sets are swapped")
	}
}

func TestRosterRemoveOnCourtBackfillsFromBench(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)
	rs.IncrementBench(30) // all bench players rest equally; backfill picks lowest total played (0, tie -> first)

	backfilled, err := rs.Remove("SA")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if backfilled == "" {
		t.Fatalf("expected a backfill from bench")
	}
	if s, _ := rs.Status("SA"); s != models.StatusRemoved {
		t.Fatalf("SA should be removed")
	}
	if len(rs.CourtIDs()) != 5 {
		t.Fatalf("court should remain at 5 after backfill, got %d", len(rs.CourtIDs()))
	}
}

func TestRosterRemoveThenInsufficientPlayers(t *testing.T) {
	starters := players(5, "S")
	reserves := players(0, "R")
	rs := NewRosterStore(starters, reserves, 5)

	if _, err := rs.Remove("SA"); err != ErrInsufficientPlayers {
		t.Fatalf("want ErrInsufficientPlayers, got %v", err)
	}
}

func TestRosterReinstateRoundTripPreservesTotals(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)
	rs.IncrementCourt(200)

	before := rs.Timing("SA")
	if _, err := rs.Remove("SA"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := rs.Reinstate("SA"); err != nil {
		t.Fatalf("Reinstate: %v", err)
	}
	after := rs.Timing("SA")
	if after.TotalTimePlayed != before.TotalTimePlayed {
		t.Fatalf("round-trip should preserve TotalTimePlayed: before=%d after=%d", before.TotalTimePlayed, after.TotalTimePlayed)
	}
	if s, _ := rs.Status("SA"); s != models.StatusOnBench {
		t.Fatalf("reinstated player should land on bench, got %s", s)
	}
}

func TestRosterRepairFixesCourtOvercount(t *testing.T) {
	starters := players(5, "S")
	reserves := players(3, "R")
	rs := NewRosterStore(starters, reserves, 5)
	rs.status["RA"] = models.StatusOnCourt // force a drift: 6 on court

	if err := rs.Repair(); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if got := len(rs.CourtIDs()); got != 5 {
		t.Fatalf("Repair should restore 5 on court, got %d", got)
	}
}
