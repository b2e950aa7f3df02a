package engine

import (
	"testing"

	"rotation-planner/internal/models"
)

func basketballSetup(starters, reserves int) models.SetupInput {
	names := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = prefix + string(rune('A'+i))
		}
		return out
	}
	return models.SetupInput{
		Format:           models.FormatHalves,
		MinutesPerPeriod: 20,
		FieldSpots:       5,
		NumReserves:      reserves,
		StarterNames:     names("S", starters),
		ReserveNames:     names("R", reserves),
		Sport:            "basketball",
	}
}

func mustNewGame(t *testing.T, setup models.SetupInput) *Game {
	t.Helper()
	g, err := NewGame(setup)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// S1: basketball baseline — running the clock to completion ends the
// game, produces final stats, and never exceeds fieldSpots on court.
func TestScenario_BasketballBaseline(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var sawGameEnd bool
	var finalStats models.FinalStats
	g.Subscribe(gameEndCapture{onEnd: func(fs models.FinalStats) { sawGameEnd = true; finalStats = fs }})

	for i := 0; i < g.cfg.GameLength+5; i++ {
		if err := g.Tick(); err != nil {
			t.Fatalf("Tick at i=%d: %v", i, err)
		}
		if g.pending != nil {
			if err := g.ConfirmRotation(); err != nil {
				t.Fatalf("ConfirmRotation: %v", err)
			}
		}
		snap := g.Snapshot()
		if len(snap.Court) > g.cfg.FieldSpots {
			t.Fatalf("court overflow at t=%d: %v", snap.CurrentTime, snap.Court)
		}
		if snap.GameOver {
			break
		}
	}
	if !sawGameEnd {
		t.Fatalf("expected OnGameEnd to fire")
	}
	if len(finalStats.Players) != 9 {
		t.Fatalf("want 9 players in final stats, got %d", len(finalStats.Players))
	}
}

// S2: a rotation left pending past the late-confirm threshold triggers
// Recovery when finally confirmed.
func TestScenario_LateConfirmTriggersRecovery(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()

	var recoveries int
	g.Subscribe(gameEndCapture{onRecovery: func(RecoveryInfo) { recoveries++ }})

	for g.pending == nil && g.clock.CurrentTime < g.cfg.GameLength {
		if err := g.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if g.pending == nil {
		t.Skip("no rotation proposed in this configuration; nothing to test")
	}
	before := recoveries
	// let it go stale well past lateConfirmThreshold without ticking the clock further
	g.pendingSetAt -= lateConfirmThreshold + 5
	if err := g.ConfirmRotation(); err != nil {
		t.Fatalf("ConfirmRotation: %v", err)
	}
	if recoveries <= before {
		t.Fatalf("expected a late confirm to trigger recovery")
	}
}

// S3: a fouled-out on-court player is auto-replaced from the bench and
// removed from eligibility.
func TestScenario_FoulOutBackfills(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()
	courtID := g.roster.CourtIDs()[0]

	if err := g.PlayerFouledOut(courtID); err != nil {
		t.Fatalf("PlayerFouledOut: %v", err)
	}
	if s, _ := g.roster.Status(courtID); s != models.StatusRemoved {
		t.Fatalf("fouled-out player should be Removed")
	}
	if len(g.roster.CourtIDs()) != 5 {
		t.Fatalf("court should stay at fieldSpots after backfill, got %d", len(g.roster.CourtIDs()))
	}
	if g.roster.EligibleCount() != 8 {
		t.Fatalf("eligible count should drop by one, got %d", g.roster.EligibleCount())
	}
}

// S4: soccer with a protected goalkeeper never proposes the goalkeeper
// as part of a rotation.
func TestScenario_GoalkeeperNeverRotated(t *testing.T) {
	setup := models.SetupInput{
		Format:           models.FormatHalves,
		MinutesPerPeriod: 20,
		FieldSpots:       7,
		NumGoalkeepers:   1,
		StarterNames:     []string{"GK", "S1", "S2", "S3", "S4", "S5", "S6"},
		ReserveNames:     []string{"R1", "R2", "R3", "R4"},
		Sport:            "soccer",
	}
	g := mustNewGame(t, setup)
	if g.goalkeeperID == "" {
		t.Fatalf("expected a goalkeeper to be designated")
	}
	g.Start()
	for i := 0; i < g.cfg.GameLength; i++ {
		g.Tick()
		if g.pending != nil {
			for _, id := range g.pending.Off {
				if id == g.goalkeeperID {
					t.Fatalf("goalkeeper must never be rotated off")
				}
			}
			g.ConfirmRotation()
		}
		if g.ended {
			break
		}
	}
}

// S5: ApplyMissedTime replays elapsed seconds, rejects deltas above
// maxCatchupSeconds, and is a silent no-op on non-positive deltas.
func TestScenario_TabHiddenCatchUp(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()
	g.HandleVisibilityChange(true)

	before := g.clock.CurrentTime
	if err := g.ApplyMissedTime(120); err != nil {
		t.Fatalf("ApplyMissedTime: %v", err)
	}
	if g.clock.CurrentTime != before+120 {
		t.Fatalf("want time advanced by 120, got %d -> %d", before, g.clock.CurrentTime)
	}

	if err := g.ApplyMissedTime(-5); err != nil {
		t.Fatalf("negative delta should be a silent no-op, got error: %v", err)
	}
	if err := g.ApplyMissedTime(maxCatchupSeconds + 1); err != ErrCatchUpRejected {
		t.Fatalf("want ErrCatchUpRejected for stale delta, got %v", err)
	}
}

// S6: removing a player when the bench cannot backfill to fieldSpots
// reports InsufficientPlayers and leaves state unchanged.
func TestScenario_InsufficientBenchOnRemoval(t *testing.T) {
	// Basketball setup validation needs at least 9 players, so the
	// bench-less five-player roster runs under the soccer rules.
	setup := basketballSetup(5, 0)
	setup.Sport = "soccer"
	g := mustNewGame(t, setup)
	g.Start()
	courtID := g.roster.CourtIDs()[0]

	if err := g.RemovePlayer(courtID); err != ErrInsufficientPlayers {
		t.Fatalf("want ErrInsufficientPlayers, got %v", err)
	}
	if s, _ := g.roster.Status(courtID); s == models.StatusRemoved {
		t.Fatalf("player should not be removed when it would violate fieldSpots")
	}
}

// gameEndCapture is a test-only Listener that wires in only the hooks
// a given test needs.
type gameEndCapture struct {
	NopListener
	onEnd      func(models.FinalStats)
	onRecovery func(RecoveryInfo)
}

func (c gameEndCapture) OnGameEnd(fs models.FinalStats) {
	if c.onEnd != nil {
		c.onEnd(fs)
	}
}

func (c gameEndCapture) OnRecovery(info RecoveryInfo) {
	if c.onRecovery != nil {
		c.onRecovery(info)
	}
}
