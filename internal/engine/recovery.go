// internal/engine/recovery.go
// Recovery Controller (spec §4.7): the replan procedure invoked after
// any ground-truth divergence between the look-ahead plan and the
// live roster — late confirm, cancel, emergency substitution,
// foul-out, removal, reinstatement, or a tab-hidden catch-up.
//
// Recovery never stops the clock. A failed replan is a soft warning:
// the plan tail is cleared and the next check-interval tick falls back
// to the Urgency Planner deciding live, off current ground truth.

package engine

import "rotation-planner/internal/models"

// recover resyncs planner bookkeeping to ground truth, retargets for
// the current eligible roster size, and regenerates the plan tail from
// now to GameLength.
func (g *Game) recover(now int, reason string) {
	g.planner.lastSubTime = now
	if g.clock.IsHalftime() {
		g.planner.halftimeDone = true
	}
	g.planner.Retarget(g.roster.EligibleCount())

	rotations := g.simulateForward(now, g.roster, g.planner.Clone())
	succeeded := true
	if len(rotations) > 0 && !validRotationAgainst(rotations[0], g.roster) {
		succeeded = false
		rotations = nil
	}
	g.plan = models.Plan{Rotations: rotations}
	g.emitRecovery(RecoveryInfo{Reason: reason, At: now, Succeeded: succeeded, NewPlan: len(rotations)})
	if !succeeded {
		g.emitError(ErrorKindRecoveryFailed, "recovery produced an invalid first rotation; plan tail cleared")
	}
}

// validRotationAgainst checks a proposed rotation's off/on sets still
// match the roster's current court/bench membership.
func validRotationAgainst(rot models.Rotation, rs *RosterStore) bool {
	for _, id := range rot.Off {
		if s, ok := rs.Status(id); !ok || s != models.StatusOnCourt {
			return false
		}
	}
	for _, id := range rot.On {
		if s, ok := rs.Status(id); !ok || s != models.StatusOnBench {
			return false
		}
	}
	return true
}
