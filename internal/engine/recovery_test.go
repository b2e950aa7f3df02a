package engine

import "testing"

func TestRecoveryRegeneratesPlanTail(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()

	before := len(g.plan.Rotations)
	g.recover(50, "test-triggered recovery")
	if len(g.plan.Rotations) == 0 && before > 0 {
		t.Fatalf("expected recovery to regenerate a non-empty plan tail")
	}
}

func TestRecoveryNeverStopsClock(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()
	g.recover(10, "test")
	if g.clock.State != ClockRunning {
		t.Fatalf("recovery must not alter clock state, got %s", g.clock.State)
	}
}

func TestRecoveryEmitsEvent(t *testing.T) {
	g := mustNewGame(t, basketballSetup(5, 4))
	g.Start()
	var got *RecoveryInfo
	g.Subscribe(gameEndCapture{onRecovery: func(i RecoveryInfo) { c := i; got = &c }})
	g.recover(30, "manual")
	if got == nil {
		t.Fatalf("expected OnRecovery to fire")
	}
	if got.Reason != "manual" {
		t.Fatalf("want reason 'manual', got %q", got.Reason)
	}
}
