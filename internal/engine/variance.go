// internal/engine/variance.go
// Variance Monitor (spec §4.5). Live deviation drives the Urgency
// Planner's variance-correction rung; final variance is reported as a
// population standard deviation once the game ends.

package engine

import (
	"github.com/montanaflynn/stats"

	"rotation-planner/internal/models"
)

// LiveDeviation is max(totalTimePlayed) - min(totalTimePlayed) across
// eligible players, optionally excluding one player (the goalkeeper,
// who is tracked separately and never pooled with outfield variance).
func LiveDeviation(timing map[string]models.PlayerTiming, eligible []string, exclude string) int {
	first := true
	var lo, hi int
	for _, id := range eligible {
		if id == exclude {
			continue
		}
		v := timing[id].TotalTimePlayed
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if first {
		return 0
	}
	return hi - lo
}

// FinalVariance is the population standard deviation of totalTimePlayed
// across eligible players, rounded to the nearest second. Uses
// montanaflynn/stats rather than a hand-rolled sum, consistent with the
// rest of the engine's policy of reaching for the ecosystem library.
func FinalVariance(timing map[string]models.PlayerTiming, eligible []string, exclude string) int {
	data := make(stats.Float64Data, 0, len(eligible))
	for _, id := range eligible {
		if id == exclude {
			continue
		}
		data = append(data, float64(timing[id].TotalTimePlayed))
	}
	if len(data) == 0 {
		return 0
	}
	sd, err := stats.PopulationStandardDeviation(data)
	if err != nil {
		return 0
	}
	return int(sd + 0.5)
}

// dynamicVarianceThreshold is the live-deviation trigger for the
// variance-correction rung of the decision ladder. It tightens as the
// game progresses: early drift self-corrects, late drift does not.
func dynamicVarianceThreshold(now, gameLength, maxEarlyVariance, varianceGoal int) int {
	if gameLength <= 0 {
		return varianceGoal
	}
	progress := float64(now) / float64(gameLength)
	if progress > 1 {
		progress = 1
	}
	span := float64(maxEarlyVariance - varianceGoal)
	threshold := float64(maxEarlyVariance) - span*progress
	if threshold < float64(varianceGoal) {
		threshold = float64(varianceGoal)
	}
	return int(threshold)
}
