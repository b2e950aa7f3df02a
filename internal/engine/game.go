// internal/engine/game.go
// Game Engine (spec §4.6): the state machine tying the Clock, Roster
// Store, Urgency Planner and Variance Monitor together behind a single
// command/tick surface.
//
// Game is not safe for concurrent use. Per spec §5 the engine is
// single-threaded cooperative; a host that needs concurrency serializes
// access to one Game through a single goroutine (e.g. one command
// channel consumer per game), the way the teacher's websocket Hub
// serializes register/unregister/broadcast through one select loop.

package engine

import (
	"github.com/google/uuid"

	"rotation-planner/internal/models"
)

const lateConfirmThreshold = 15 // seconds

// Game is one in-progress rotation-managed match.
type Game struct {
	cfg     models.GameConfig
	clock   *Clock
	roster  *RosterStore
	planner *Planner

	initialStarters []models.Player
	initialReserves []models.Player
	goalkeeperID    string

	plan    models.Plan
	pending *models.Rotation
	pendingSetAt int

	history []models.Rotation
	scoring models.Scoring

	suspended bool
	ended     bool

	lastRepairAt int

	listeners []Listener
}

// NewGame validates setup, builds the roster and produces an initial
// look-ahead plan.
func NewGame(setup models.SetupInput) (*Game, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	cfg := models.DefaultGameConfig(setup)

	starters := buildPlayers(setup.StarterNames, setup.JerseyNumbers)
	reserves := buildPlayers(setup.ReserveNames, setup.JerseyNumbers)

	goalkeeperID := ""
	if setup.NumGoalkeepers > 0 && len(starters) > 0 {
		starters[0].IsGoalkeeper = true
		goalkeeperID = starters[0].ID
	}

	roster := NewRosterStore(starters, reserves, cfg.FieldSpots)
	if roster.EligibleCount() < cfg.FieldSpots {
		return nil, ErrInsufficientPlayers
	}

	g := &Game{
		cfg:             cfg,
		clock:           NewClock(cfg.PeriodLength, cfg.NumPeriods),
		roster:          roster,
		initialStarters: starters,
		initialReserves: reserves,
		goalkeeperID:    goalkeeperID,
		scoring:         models.Scoring{PlayerPoints: map[string]int{}},
	}
	g.planner = NewPlanner(cfg, roster.EligibleCount(), goalkeeperID)
	g.plan = models.Plan{Rotations: g.simulateForward(0, roster, g.planner.Clone())}
	return g, nil
}

func buildPlayers(names []string, jerseys map[string]string) []models.Player {
	out := make([]models.Player, 0, len(names))
	for _, name := range names {
		p := models.Player{ID: uuid.NewString(), Name: name}
		if jerseys != nil {
			if j, ok := jerseys[name]; ok && j != "" {
				jc := j
				p.JerseyNumber = &jc
			}
		}
		out = append(out, p)
	}
	return out
}

// Subscribe registers a listener for every event this Game emits.
func (g *Game) Subscribe(l Listener) { g.listeners = append(g.listeners, l) }

func (g *Game) emitUpdate()                        { g.forEach(func(l Listener) { l.OnUpdate(g.Snapshot()) }) }
func (g *Game) emitRotation(r models.Rotation)     { g.forEach(func(l Listener) { l.OnRotation(r) }) }
func (g *Game) emitWarning(s int)                  { g.forEach(func(l Listener) { l.OnWarning(s) }) }
func (g *Game) emitEarlyWarning(s int)             { g.forEach(func(l Listener) { l.OnEarlyWarning(s) }) }
func (g *Game) emitPeriodEnd(i PeriodEndInfo)      { g.forEach(func(l Listener) { l.OnPeriodEnd(i) }) }
func (g *Game) emitGameEnd(f models.FinalStats)    { g.forEach(func(l Listener) { l.OnGameEnd(f) }) }
func (g *Game) emitRecovery(i RecoveryInfo)        { g.forEach(func(l Listener) { l.OnRecovery(i) }) }
func (g *Game) emitError(k ErrorKind, m string)    { g.forEach(func(l Listener) { l.OnError(k, m) }) }
func (g *Game) emitScore()                         { g.forEach(func(l Listener) { l.OnScoreUpdate(g.scoring) }) }

func (g *Game) forEach(f func(Listener)) {
	for _, l := range g.listeners {
		f(l)
	}
}

// --- commands ---

func (g *Game) Start() error {
	if g.ended {
		return ErrInvalidTransition
	}
	return g.clock.Start()
}

func (g *Game) Stop() error {
	return g.clock.Stop()
}

func (g *Game) Reset() {
	g.clock.Reset()
	g.roster = NewRosterStore(g.initialStarters, g.initialReserves, g.cfg.FieldSpots)
	g.planner = NewPlanner(g.cfg, g.roster.EligibleCount(), g.goalkeeperID)
	g.pending = nil
	g.history = nil
	g.suspended = false
	g.ended = false
	g.scoring = models.Scoring{PlayerPoints: map[string]int{}}
	g.plan = models.Plan{Rotations: g.simulateForward(0, g.roster, g.planner.Clone())}
}

// ConfirmRotation applies the pending rotation to the live roster.
func (g *Game) ConfirmRotation() error {
	if g.pending == nil {
		return ErrNoPendingRotation
	}
	now := g.clock.CurrentTime
	rot := *g.pending
	if err := g.roster.ApplyRotation(rot.Off, rot.On); err != nil {
		g.pending = nil
		g.recover(now, "confirm failed: "+err.Error())
		return err
	}
	g.history = append(g.history, rot)
	g.planner.lastSubTime = now
	late := now-g.pendingSetAt > lateConfirmThreshold
	g.pending = nil
	g.regeneratePlan(now)
	if late {
		g.recover(now, "late confirm")
	}
	g.emitUpdate()
	return nil
}

// CancelRotation discards the pending rotation without applying it,
// then replans from current ground truth.
func (g *Game) CancelRotation() error {
	if g.pending == nil {
		return ErrNoPendingRotation
	}
	now := g.clock.CurrentTime
	g.pending = nil
	g.recover(now, "cancelled rotation")
	g.emitUpdate()
	return nil
}

// EmergencySubstitution bypasses the gap lockout and applies
// immediately (injury, tactical substitution). If removeFromGame is
// set, the off players are marked Removed after the swap.
func (g *Game) EmergencySubstitution(off, on []string, removeFromGame bool) error {
	now := g.clock.CurrentTime
	if err := g.roster.ApplyRotation(off, on); err != nil {
		return err
	}
	rot := models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonEmergency}
	g.history = append(g.history, rot)
	g.planner.lastSubTime = now
	if removeFromGame {
		for _, id := range off {
			g.roster.Remove(id)
		}
		g.planner.Retarget(g.roster.EligibleCount())
	}
	g.pending = nil
	g.recover(now, "emergency substitution")
	g.emitRotation(rot)
	g.emitUpdate()
	return nil
}

// PlayerFouledOut removes a player permanently. If they were on court,
// the least-played bench player backfills automatically.
func (g *Game) PlayerFouledOut(id string) error {
	if !g.roster.Has(id) {
		return ErrUnknownPlayer
	}
	now := g.clock.CurrentTime
	backfilled, err := g.roster.Remove(id)
	if err != nil {
		return err
	}
	if backfilled != "" {
		rot := models.Rotation{Time: now, Off: []string{id}, On: []string{backfilled}, Reason: models.ReasonFouledOut}
		g.history = append(g.history, rot)
		g.planner.lastSubTime = now
		g.emitRotation(rot)
	}
	g.planner.Retarget(g.roster.EligibleCount())
	g.pending = nil
	g.recover(now, "player fouled out")
	g.emitUpdate()
	return nil
}

// RemovePlayer removes a player (e.g. injury not tied to a foul
// limit). Backfill behaves like PlayerFouledOut but is logged under
// ReasonEmergency since it is a host-initiated disruption rather than
// a rules-driven foul-out.
func (g *Game) RemovePlayer(id string) error {
	if !g.roster.Has(id) {
		return ErrUnknownPlayer
	}
	now := g.clock.CurrentTime
	backfilled, err := g.roster.Remove(id)
	if err != nil {
		return err
	}
	if backfilled != "" {
		rot := models.Rotation{Time: now, Off: []string{id}, On: []string{backfilled}, Reason: models.ReasonEmergency}
		g.history = append(g.history, rot)
		g.planner.lastSubTime = now
		g.emitRotation(rot)
	}
	g.planner.Retarget(g.roster.EligibleCount())
	g.pending = nil
	g.recover(now, "player removed")
	g.emitUpdate()
	return nil
}

// ReturnPlayer reinstates a removed player to the bench. Timing is
// untouched: remove then reinstate round-trips to an equivalent state.
func (g *Game) ReturnPlayer(id string) error {
	if err := g.roster.Reinstate(id); err != nil {
		return err
	}
	now := g.clock.CurrentTime
	g.planner.Retarget(g.roster.EligibleCount())
	g.pending = nil
	g.recover(now, "player reinstated")
	g.emitUpdate()
	return nil
}

// UpdatePlayerScore adjusts one player's point total.
func (g *Game) UpdatePlayerScore(id string, delta int) error {
	if !g.roster.Has(id) {
		return ErrUnknownPlayer
	}
	if g.scoring.PlayerPoints == nil {
		g.scoring.PlayerPoints = map[string]int{}
	}
	g.scoring.PlayerPoints[id] += delta
	g.recomputeTopScorers()
	g.emitScore()
	return nil
}

// UpdateTeamScore adjusts the home or away team total directly
// (opposition scoring, not tied to a roster player).
func (g *Game) UpdateTeamScore(isHome bool, delta int) {
	if isHome {
		g.scoring.Home += delta
	} else {
		g.scoring.Away += delta
	}
	g.emitScore()
}

func (g *Game) UpdateTeamName(isHome bool, name string) {
	if isHome {
		g.scoring.HomeTeamName = name
	} else {
		g.scoring.AwayTeamName = name
	}
	g.emitScore()
}

func (g *Game) recomputeTopScorers() {
	best := -1
	var top []string
	for id, pts := range g.scoring.PlayerPoints {
		if pts > best {
			best = pts
			top = []string{id}
		} else if pts == best {
			top = append(top, id)
		}
	}
	g.scoring.TopScorers = top
}

// HandleVisibilityChange marks the game suspended while the host tab
// is hidden. Tick becomes a no-op until the host resumes and calls
// ApplyMissedTime with the elapsed wall-clock gap.
func (g *Game) HandleVisibilityChange(hidden bool) {
	g.suspended = hidden
}

// ApplyMissedTime replays delta seconds of accrual and clock advance
// after a suspension. delta<=0 or a finished game is a silent no-op.
// delta>3600 is rejected as stale; state is unchanged.
func (g *Game) ApplyMissedTime(delta int) error {
	if delta <= 0 || g.ended || g.clock.State == ClockEnded {
		return nil
	}
	if delta > maxCatchupSeconds {
		return ErrCatchUpRejected
	}
	for i := 0; i < delta; i++ {
		if g.clock.State == ClockEnded {
			break
		}
		g.roster.IncrementCourt(1)
		g.roster.IncrementBench(1)
		res := g.clock.AdvanceOneSecond()
		if res.PeriodEnded {
			g.emitPeriodEnd(PeriodEndInfo{EndedPeriod: res.EndedPeriodNum, NextPeriod: g.clock.CurrentPeriod})
		}
		if res.GameEnded {
			g.finish()
			return nil
		}
	}
	g.pending = nil
	g.recover(g.clock.CurrentTime, "tab-hidden catch-up")
	g.emitUpdate()
	return nil
}

// --- tick protocol ---

// Tick advances the game by one second. Hosts call this once per
// second while the clock is Running and the game is not suspended. Any
// panic inside is recovered so the clock and listeners stay alive; a
// single bad tick never takes down the game.
func (g *Game) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.emitError(ErrorKindTick, "recovered from tick panic")
			err = nil
		}
	}()

	if g.suspended || g.ended || g.clock.State != ClockRunning {
		return nil
	}

	now := g.clock.CurrentTime
	g.roster.IncrementCourt(1)
	g.roster.IncrementBench(1)
	res := g.clock.AdvanceOneSecond()
	now = g.clock.CurrentTime

	if res.PeriodEnded {
		g.pending = nil
		g.emitPeriodEnd(PeriodEndInfo{EndedPeriod: res.EndedPeriodNum, NextPeriod: g.clock.CurrentPeriod})
	}
	if res.GameEnded {
		g.finish()
		return nil
	}

	periodLeft, gameLeft := g.clock.Remaining()

	if next, ok := g.plan.Next(); ok {
		toNext := next.Time - now
		if toNext == g.cfg.LookAheadWindow {
			g.emitEarlyWarning(toNext)
		}
		if g.cfg.EnableWarningSound && toNext == g.cfg.WarningBeepSeconds {
			g.emitWarning(toNext)
		}
	}

	if now%g.cfg.CheckInterval == 0 {
		g.checkSubstitution(now, periodLeft, gameLeft)
	}

	if now-g.lastRepairAt >= 30 {
		g.lastRepairAt = now
		if err := g.roster.Repair(); err != nil {
			g.emitError(ErrorKindRepaired, err.Error())
		}
	}

	g.emitUpdate()
	return nil
}

func (g *Game) checkSubstitution(now, periodLeft, gameLeft int) {
	if g.pending != nil {
		return
	}
	rot := g.planner.Check(now, periodLeft, gameLeft, g.clock.IsHalftime(), g.roster)
	if rot == nil {
		return
	}
	if len(rot.Off) == 0 || len(rot.Off) != len(rot.On) || !validRotationAgainst(*rot, g.roster) {
		g.emitError(ErrorKindRotationRejected, "planner proposal referenced stale roster membership")
		g.recover(now, "stale proposal")
		return
	}
	g.pending = rot
	g.pendingSetAt = now
	g.regeneratePlan(now)
	g.emitRotation(*rot)
}

func (g *Game) finish() {
	g.ended = true
	stats := g.computeFinalStats()
	g.emitUpdate()
	g.emitGameEnd(stats)
}

// --- look-ahead plan and recovery ---

// simulateForward projects rotations from `from` to GameLength against
// a private clone of roster/planner state, never mutating the live
// Game. Used for the initial plan and for Recovery's replan step.
func (g *Game) simulateForward(from int, roster *RosterStore, planner *Planner) []models.Rotation {
	sim := roster.Clone()
	p := planner.Clone()
	var out []models.Rotation
	for t := from; t < g.cfg.GameLength; t++ {
		sim.IncrementCourt(1)
		sim.IncrementBench(1)
		next := t + 1
		if next%g.cfg.CheckInterval != 0 {
			continue
		}
		periodElapsed := next % g.cfg.PeriodLength
		periodLeft := g.cfg.PeriodLength - periodElapsed
		gameLeft := g.cfg.GameLength - next
		half := g.cfg.GameLength / 2
		isHalf := abs(next-half) <= 30

		rot := p.Check(next, periodLeft, gameLeft, isHalf, sim)
		if rot == nil {
			continue
		}
		if err := sim.ApplyRotation(rot.Off, rot.On); err != nil {
			continue
		}
		out = append(out, *rot)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// regeneratePlan refreshes the look-ahead plan from `now`, assuming
// the pending rotation (if any) lands exactly as proposed.
func (g *Game) regeneratePlan(now int) {
	base := g.roster
	if g.pending != nil {
		clone := g.roster.Clone()
		if clone.ApplyRotation(g.pending.Off, g.pending.On) == nil {
			base = clone
		}
	}
	g.plan = models.Plan{Rotations: g.simulateForward(now, base, g.planner.Clone())}
}

// --- snapshots ---

// Snapshot returns the current, immutable-copy GameState.
func (g *Game) Snapshot() models.GameState {
	court := g.roster.CourtIDs()
	bench := g.roster.BenchIDs()
	removed := g.roster.RemovedIDs()

	minutes := make(map[string]int, len(g.roster.EligibleIDs()))
	benchMinutes := make(map[string]int, len(g.roster.EligibleIDs()))
	positions := make(map[string]string)
	for _, id := range g.roster.EligibleIDs() {
		t := g.roster.Timing(id)
		minutes[id] = t.TotalTimePlayed
		benchMinutes[id] = t.TotalBenchTime
		if p, ok := g.roster.Player(id); ok && p.Position != nil {
			positions[id] = *p.Position
		}
	}

	eligible := g.roster.EligibleIDs()
	timing := allTiming(g.roster, eligible)
	variance := LiveDeviation(timing, eligible, g.goalkeeperID)

	var gk *string
	if g.goalkeeperID != "" {
		id := g.goalkeeperID
		gk = &id
	}

	var nextRot *models.Rotation
	if next, ok := g.plan.Next(); ok {
		nr := next
		nextRot = &nr
	}

	return models.GameState{
		CurrentTime:           g.clock.CurrentTime,
		CurrentPeriod:         g.clock.CurrentPeriod,
		PeriodElapsed:         g.clock.PeriodElapsed,
		Running:               g.clock.State == ClockRunning,
		Paused:                g.clock.State == ClockPaused,
		GameOver:              g.ended,
		Court:                 court,
		Bench:                 bench,
		Removed:               removed,
		Minutes:               minutes,
		BenchMinutes:          benchMinutes,
		Positions:             positions,
		Goalkeeper:            gk,
		PendingRotation:       g.pending,
		NextScheduledRotation: nextRot,
		RotationHistoryCount:  len(g.history),
		RemainingRotations:    len(g.plan.Remaining()),
		Variance:              variance,
		TargetMinutes:         g.planner.Targets().TargetPlayingTime,
		Scoring:               g.scoring,
	}
}

func (g *Game) computeFinalStats() models.FinalStats {
	eligible := g.roster.EligibleIDs()
	timing := allTiming(g.roster, eligible)

	players := make(map[string]models.PlayerFinalStats, len(eligible))
	minM, maxM, sumM := -1, -1, 0
	for _, id := range eligible {
		t := timing[id]
		pct := 0.0
		if g.cfg.GameLength > 0 {
			pct = float64(t.TotalTimePlayed) / float64(g.cfg.GameLength) * 100
		}
		var goals *int
		if pts, ok := g.scoring.PlayerPoints[id]; ok {
			p := pts
			goals = &p
		}
		players[id] = models.PlayerFinalStats{
			Minutes:      t.TotalTimePlayed / 60,
			BenchMinutes: t.TotalBenchTime / 60,
			Percentage:   pct,
			Goals:        goals,
		}
		sumM += t.TotalTimePlayed
		if minM == -1 || t.TotalTimePlayed < minM {
			minM = t.TotalTimePlayed
		}
		if t.TotalTimePlayed > maxM {
			maxM = t.TotalTimePlayed
		}
	}
	if minM == -1 {
		minM = 0
	}

	var gk *string
	if g.goalkeeperID != "" {
		if p, ok := g.roster.Player(g.goalkeeperID); ok {
			name := p.Name
			gk = &name
		}
	}

	avg := 0.0
	if len(eligible) > 0 {
		avg = float64(sumM) / float64(len(eligible)) / 60.0
	}

	return models.FinalStats{
		Players:        players,
		Variance:       FinalVariance(timing, eligible, g.goalkeeperID),
		Rotations:      len(g.history),
		AverageMinutes: avg,
		MaxMinutes:     maxM / 60,
		MinMinutes:     minM / 60,
		Goalkeeper:     gk,
	}
}

// Config exposes the resolved GameConfig (read-only use by the host).
func (g *Game) Config() models.GameConfig { return g.cfg }

// History returns the confirmed/applied rotation log.
func (g *Game) History() []models.Rotation { return append([]models.Rotation{}, g.history...) }
