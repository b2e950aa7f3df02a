// internal/engine/targets.go
// Dynamic Target Solver (spec §4.3). Pure functions of roster size and
// config; recomputed whenever the eligible player count changes
// (substitution, removal, reinstatement).

package engine

import "rotation-planner/internal/models"

// targetsConfigFrom adapts a resolved GameConfig into the solver's
// narrower input shape.
func targetsConfigFrom(cfg models.GameConfig) TargetsConfig {
	return TargetsConfig{
		GameLength:          cfg.GameLength,
		FieldSpots:          cfg.FieldSpots,
		NumPeriods:          cfg.NumPeriods,
		FinalNoSubWindow:    cfg.FinalNoSubWindow,
		CheckInterval:       cfg.CheckInterval,
		IdealShiftsOverride: cfg.IdealShiftsPerPlayer,
		Sport:               cfg.Sport,
	}
}

// Targets is the solver's output, consumed by the Urgency Planner.
type Targets struct {
	TargetPlayingTime     int // seconds, per eligible player over the full game
	IdealShiftsPerPlayer  int
	MinSubstitutionGap    int // seconds between rotation events
	ProratedMaxCourtStint int
	ProratedMaxBenchStint int
	ProtectedTime         int // FinalNoSubWindow summed over all periods, capped at 40% of GameLength
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// minSpacing is the sport-specific floor on time between substitutions,
// widened when the bench is deep enough that players can absorb a
// longer stint without the Urgency Planner starving them.
func minSpacing(sport string, benchPlayers int) int {
	deep := benchPlayers >= 4
	if sport == "soccer" {
		if deep {
			return 150
		}
		return 120
	}
	// basketball and unspecified sports share the same floor
	if deep {
		return 105
	}
	return 75
}

// gapBracket returns the adaptive [floor, ceiling] for minSubstitutionGap
// based on total game length. The exact seconds are an engine-level
// policy choice (the source spec leaves the brackets to "see Glossary"
// without pinning numbers); these are documented defaults, not derived
// from any external constant.
func gapBracket(gameLength int) (floor, ceiling int) {
	switch {
	case gameLength < 20*60:
		return 30, 180
	case gameLength < 50*60:
		return 45, 240
	default:
		return 60, 300
	}
}

// Solve computes Targets for the given config and current eligible
// roster size N (court + bench, excluding removed players).
func Solve(cfg TargetsConfig, n int) Targets {
	gameLength := cfg.GameLength
	fieldSpots := cfg.FieldSpots
	benchPlayers := n - fieldSpots
	if benchPlayers < 0 {
		benchPlayers = 0
	}

	protectedTime := cfg.FinalNoSubWindow * cfg.NumPeriods
	if cap := gameLength * 2 / 5; protectedTime > cap {
		protectedTime = cap
	}

	targetPlayingTime := gameLength
	if n > 0 {
		targetPlayingTime = gameLength * fieldSpots / n
	}

	floorMin := cfg.CheckInterval * 2
	floorMax := gameLength / 4
	if floorMax < floorMin {
		floorMax = floorMin
	}
	desiredStint := clampInt(targetPlayingTime/2, floorMin, floorMax)

	idealShifts := cfg.IdealShiftsOverride
	if idealShifts <= 0 {
		base := 1
		if desiredStint > 0 {
			base = targetPlayingTime / desiredStint
		}
		if base < 1 {
			base = 1
		}
		spacing := minSpacing(cfg.Sport, benchPlayers)
		best := base
		bestGap := -1
		for cand := base - 2; cand <= base+2; cand++ {
			if cand < 1 {
				continue
			}
			gap := rawGap(gameLength, protectedTime, benchPlayers, cand)
			if gap < spacing {
				continue
			}
			if gap > bestGap {
				bestGap = gap
				best = cand
			}
		}
		idealShifts = best
	}

	rg := rawGap(gameLength, protectedTime, benchPlayers, idealShifts)
	floor, ceiling := gapBracket(gameLength)
	minGap := clampInt(rg, floor, ceiling)

	courtCeil := minGap * 9 / 10
	if courtCeil < floorMin {
		courtCeil = floorMin
	}
	maxCourtStint := clampInt(targetPlayingTime/idealShifts, floorMin, courtCeil)

	benchTarget := gameLength - targetPlayingTime
	maxBenchStint := clampInt(benchTarget/idealShifts, floorMin, courtCeil)

	return Targets{
		TargetPlayingTime:     targetPlayingTime,
		IdealShiftsPerPlayer:  idealShifts,
		MinSubstitutionGap:    minGap,
		ProratedMaxCourtStint: maxCourtStint,
		ProratedMaxBenchStint: maxBenchStint,
		ProtectedTime:         protectedTime,
	}
}

// rawGap estimates spacing between substitution events given how many
// shift-changes the bench must absorb over the unprotected portion of
// the game.
func rawGap(gameLength, protectedTime, benchPlayers, idealShifts int) int {
	perEvent := 2
	if benchPlayers < 2 {
		perEvent = benchPlayers
	}
	if perEvent < 1 {
		perEvent = 1
	}
	numEvents := (benchPlayers*idealShifts + perEvent - 1) / perEvent
	if numEvents < 1 {
		numEvents = 1
	}
	window := gameLength - protectedTime
	if window < 0 {
		window = 0
	}
	return window / numEvents
}

// TargetsConfig is the subset of GameConfig the solver needs.
// targetsConfigFrom builds it from the resolved models.GameConfig each
// time the planner retargets.
type TargetsConfig struct {
	GameLength          int
	FieldSpots          int
	NumPeriods          int
	FinalNoSubWindow    int
	CheckInterval       int
	IdealShiftsOverride int
	Sport               string
}
