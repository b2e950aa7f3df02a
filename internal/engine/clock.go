// internal/engine/clock.go
// Clock & Period Model (spec §4.1). Pure time/period bookkeeping; no
// player knowledge. The Game engine drives it one second at a time and
// reacts to the period/game-end flags it returns.

package engine

// ClockState is the clock's state machine (§4.1).
type ClockState string

const (
	ClockInitialized ClockState = "initialized"
	ClockRunning     ClockState = "running"
	ClockPaused      ClockState = "paused"
	ClockEnded       ClockState = "ended"
)

// maxCatchupSeconds bounds a single applyMissedTime call; deltas beyond
// this are rejected as stale rather than silently truncated.
const maxCatchupSeconds = 3600

// Clock tracks elapsed game time, the current period, and period
// rollover. It holds no per-player state.
type Clock struct {
	State         ClockState
	CurrentTime   int
	CurrentPeriod int // 1-indexed
	PeriodElapsed int

	PeriodLength int
	NumPeriods   int
	GameLength   int
}

// NewClock builds a Clock at Initialized, period 1, t=0.
func NewClock(periodLength, numPeriods int) *Clock {
	return &Clock{
		State:         ClockInitialized,
		CurrentPeriod: 1,
		PeriodLength:  periodLength,
		NumPeriods:    numPeriods,
		GameLength:    periodLength * numPeriods,
	}
}

// Start transitions Initialized or Paused -> Running.
func (c *Clock) Start() error {
	if c.State == ClockEnded {
		return ErrInvalidTransition
	}
	if c.State == ClockRunning {
		return nil // idempotent
	}
	c.State = ClockRunning
	return nil
}

// Stop transitions Running -> Paused. No-op if not running; returns
// ErrInvalidTransition once the clock has ended.
func (c *Clock) Stop() error {
	if c.State == ClockEnded {
		return ErrInvalidTransition
	}
	if c.State != ClockRunning {
		return nil
	}
	c.State = ClockPaused
	return nil
}

// Reset returns the clock to Initialized at t=0, period 1.
func (c *Clock) Reset() {
	c.State = ClockInitialized
	c.CurrentTime = 0
	c.CurrentPeriod = 1
	c.PeriodElapsed = 0
}

// PeriodRollResult reports what happened on an AdvanceOneSecond call.
type PeriodRollResult struct {
	PeriodEnded     bool
	EndedPeriodNum  int
	GameEnded       bool
	IsHalftimeMark  bool // this second crosses GameLength/2
}

// AdvanceOneSecond moves the clock forward exactly one second. Callers
// must only invoke this while State == Running; it does not check.
func (c *Clock) AdvanceOneSecond() PeriodRollResult {
	var res PeriodRollResult

	prevTime := c.CurrentTime
	c.CurrentTime++
	c.PeriodElapsed++

	half := c.GameLength / 2
	if prevTime < half && c.CurrentTime >= half {
		res.IsHalftimeMark = true
	}

	if c.PeriodElapsed >= c.PeriodLength {
		res.PeriodEnded = true
		res.EndedPeriodNum = c.CurrentPeriod
		c.PeriodElapsed -= c.PeriodLength
		c.CurrentPeriod++
		if c.CurrentPeriod > c.NumPeriods {
			c.State = ClockEnded
			res.GameEnded = true
		}
	}
	if c.CurrentTime >= c.GameLength {
		if c.State != ClockEnded {
			c.State = ClockEnded
			res.GameEnded = true
		}
	}
	return res
}

// IsHalftime reports whether the clock sits within 30s of the game's
// midpoint, the window the Urgency Planner treats as the halftime batch.
func (c *Clock) IsHalftime() bool {
	half := c.GameLength / 2
	d := c.CurrentTime - half
	if d < 0 {
		d = -d
	}
	return d <= 30
}

// Remaining returns seconds left in the current period and in the game.
func (c *Clock) Remaining() (periodLeft, gameLeft int) {
	periodLeft = c.PeriodLength - c.PeriodElapsed
	gameLeft = c.GameLength - c.CurrentTime
	return
}
