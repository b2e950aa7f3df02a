package engine

import "testing"

func TestClockStartStopReset(t *testing.T) {
	c := NewClock(600, 2)
	if c.State != ClockInitialized {
		t.Fatalf("want Initialized, got %s", c.State)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.State != ClockRunning {
		t.Fatalf("want Running, got %s", c.State)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.State != ClockPaused {
		t.Fatalf("want Paused, got %s", c.State)
	}
	c.Reset()
	if c.State != ClockInitialized || c.CurrentTime != 0 || c.CurrentPeriod != 1 {
		t.Fatalf("Reset did not restore zero state: %+v", c)
	}
}

func TestClockPeriodRollover(t *testing.T) {
	c := NewClock(10, 2)
	c.Start()
	var lastRoll PeriodRollResult
	for i := 0; i < 10; i++ {
		lastRoll = c.AdvanceOneSecond()
	}
	if !lastRoll.PeriodEnded || lastRoll.EndedPeriodNum != 1 {
		t.Fatalf("expected period 1 to end at t=10, got %+v", lastRoll)
	}
	if c.CurrentPeriod != 2 || c.PeriodElapsed != 0 {
		t.Fatalf("expected period 2 at elapsed 0, got period=%d elapsed=%d", c.CurrentPeriod, c.PeriodElapsed)
	}
}

func TestClockGameEnd(t *testing.T) {
	c := NewClock(5, 2)
	c.Start()
	var res PeriodRollResult
	for i := 0; i < 10; i++ {
		res = c.AdvanceOneSecond()
	}
	if !res.GameEnded {
		t.Fatalf("expected game to end at t=10")
	}
	if c.State != ClockEnded {
		t.Fatalf("want Ended, got %s", c.State)
	}
}

func TestClockStartAfterEndedRejected(t *testing.T) {
	c := NewClock(1, 1)
	c.Start()
	c.AdvanceOneSecond()
	if err := c.Start(); err != ErrInvalidTransition {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestClockIsHalftime(t *testing.T) {
	c := NewClock(600, 2) // game length 1200, half = 600
	c.CurrentTime = 595
	if !c.IsHalftime() {
		t.Fatalf("expected t=595 to be within halftime window")
	}
	c.CurrentTime = 500
	if c.IsHalftime() {
		t.Fatalf("expected t=500 to be outside halftime window")
	}
}
