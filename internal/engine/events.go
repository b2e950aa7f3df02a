// internal/engine/events.go
// Event contracts emitted by Game to its subscribers (spec §4.6).

package engine

import "rotation-planner/internal/models"

// PeriodEndInfo accompanies OnPeriodEnd.
type PeriodEndInfo struct {
	EndedPeriod int
	NextPeriod  int
}

// RecoveryInfo accompanies OnRecovery, reporting what the Recovery
// Controller did and whether it succeeded.
type RecoveryInfo struct {
	Reason    string
	At        int
	Succeeded bool
	NewPlan   int // number of rotations generated into the new plan tail
}

// Listener receives every observable event a Game produces. Hosts
// register one listener per game (typically a thin adapter that
// forwards to a websocket hub and an analytics sink).
type Listener interface {
	OnUpdate(models.GameState)
	OnRotation(models.Rotation)
	OnWarning(secondsToNextRotation int)
	OnEarlyWarning(secondsToNextRotation int)
	OnPeriodEnd(PeriodEndInfo)
	OnGameEnd(models.FinalStats)
	OnRecovery(RecoveryInfo)
	OnError(kind ErrorKind, msg string)
	OnScoreUpdate(models.Scoring)
}

// NopListener is a Listener whose methods all do nothing, embeddable
// by hosts that only care about a subset of events.
type NopListener struct{}

func (NopListener) OnUpdate(models.GameState)         {}
func (NopListener) OnRotation(models.Rotation)        {}
func (NopListener) OnWarning(int)                     {}
func (NopListener) OnEarlyWarning(int)                {}
func (NopListener) OnPeriodEnd(PeriodEndInfo)         {}
func (NopListener) OnGameEnd(models.FinalStats)       {}
func (NopListener) OnRecovery(RecoveryInfo)           {}
func (NopListener) OnError(ErrorKind, string)         {}
func (NopListener) OnScoreUpdate(models.Scoring)      {}
