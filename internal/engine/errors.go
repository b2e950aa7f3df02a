// internal/engine/errors.go
// Error taxonomy for the rotation engine (spec §7)

package engine

import "errors"

// Sentinel errors returned by Game commands. Callers use errors.Is.
var (
	// ErrValidation covers invalid setup input. Recoverable locally;
	// the engine is never constructed, or an in-flight command is
	// rejected and state is left unchanged.
	ErrValidation = errors.New("validation error")

	// ErrInsufficientPlayers is returned when a command would leave
	// fewer than fieldSpots eligible players.
	ErrInsufficientPlayers = errors.New("insufficient players")

	// ErrNoPendingRotation is returned by ConfirmRotation/CancelRotation
	// when nothing is pending. Idempotent no-op, not a mutation.
	ErrNoPendingRotation = errors.New("no pending rotation")

	// ErrInvalidTransition covers illegal clock state transitions.
	ErrInvalidTransition = errors.New("invalid clock transition")

	// ErrUnknownPlayer is returned when a command names a player not
	// on the roster.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrCatchUpRejected covers applyMissedTime(delta) where delta is
	// stale (> maxCatchup). Delta <= 0 or game-over is a silent no-op,
	// not an error.
	ErrCatchUpRejected = errors.New("catch-up rejected: stale delta")
)

// ErrorKind tags an onError event for observability, distinguishing
// auto-repaired invariant violations from fatal-looking but swallowed
// tick errors.
type ErrorKind string

const (
	ErrorKindRepaired         ErrorKind = "repaired"
	ErrorKindRotationRejected ErrorKind = "rotation-rejected"
	ErrorKindTick             ErrorKind = "tick-error"
	ErrorKindRecoveryFailed   ErrorKind = "recovery-failed"
)

// RotationRejection is raised internally when a scheduled or proposed
// rotation refers to players outside the expected court/bench sets.
type RotationRejection struct {
	Reason string
}

func (e *RotationRejection) Error() string {
	return "rotation rejected: " + e.Reason
}
