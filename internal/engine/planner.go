// internal/engine/planner.go
// Urgency Planner (spec §4.4): the decision ladder that decides, at
// each check interval, whether a substitution is due and which players
// it should involve. Rungs are tried in order; the first that fires
// wins and the rest are skipped for this check.

package engine

import (
	"sort"

	"rotation-planner/internal/models"
)

const maxPairsPerRotation = 2

// Planner holds the mutable scheduling state that persists across
// checks: when the last rotation happened, whether the one-time
// halftime batch has fired, and the current Targets (refreshed by the
// Game engine whenever eligible roster size changes).
type Planner struct {
	cfg          models.GameConfig
	targets      Targets
	lastSubTime  int
	halftimeDone bool
	goalkeeperID string // "" when the sport has no protected goalkeeper
}

// NewPlanner builds a Planner for a resolved config and initial
// eligible player count.
func NewPlanner(cfg models.GameConfig, eligibleCount int, goalkeeperID string) *Planner {
	return &Planner{
		cfg:          cfg,
		targets:      Solve(targetsConfigFrom(cfg), eligibleCount),
		goalkeeperID: goalkeeperID,
	}
}

// Retarget recomputes Targets after the eligible roster size changes
// (removal, reinstatement).
func (p *Planner) Retarget(eligibleCount int) {
	p.targets = Solve(targetsConfigFrom(p.cfg), eligibleCount)
}

func (p *Planner) Targets() Targets { return p.targets }

// Clone returns a copy for use in forward plan simulation, so a
// look-ahead run never mutates the live planner's lastSubTime or
// halftimeDone flags.
func (p *Planner) Clone() *Planner {
	cp := *p
	return &cp
}

// effectiveMinGap attenuates the base minSubstitutionGap as the game
// progresses, per the documented bracket table: unchanged below 33%
// progress; increasingly discounted past that point once live
// deviation is high enough to need faster correction than the base gap
// allows, and discounted hardest once the game is nearly over, deeper
// still if few rotations remain to land.
func (p *Planner) effectiveMinGap(now, gameLeft, deviation int) int {
	base := p.targets.MinSubstitutionGap
	progress := 1.0
	if p.cfg.GameLength > 0 {
		progress = float64(now) / float64(p.cfg.GameLength)
	}

	switch {
	case progress < 0.33:
		return base
	case progress < 0.67:
		if deviation > 120 {
			return int(float64(base) * 0.85)
		}
		return base
	case progress < 0.85:
		if deviation > 90 {
			return int(float64(base) * 0.75)
		}
		if deviation > 60 {
			return int(float64(base) * 0.85)
		}
		return base
	default:
		rotationsRemaining := 0
		if base > 0 {
			rotationsRemaining = gameLeft / base
		}
		if rotationsRemaining <= 3 {
			return int(float64(base) * 0.6)
		}
		return int(float64(base) * 0.7)
	}
}

// currentDeviation computes live deviation (max−min totalTimePlayed)
// over the eligible pool, excluding the protected goalkeeper.
func (p *Planner) currentDeviation(court, bench []string, rs *RosterStore) int {
	eligible := append(append([]string{}, court...), bench...)
	timing := allTiming(rs, eligible)
	return LiveDeviation(timing, eligible, "")
}

// eligibleOutfield returns eligible player IDs excluding the protected
// goalkeeper, if any.
func (p *Planner) eligibleOutfield(ids []string) []string {
	if p.goalkeeperID == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != p.goalkeeperID {
			out = append(out, id)
		}
	}
	return out
}

// Check runs the decision ladder once, at a check-interval boundary.
// periodLeft/gameLeft are seconds remaining in the current period and
// the game. Returns nil when no substitution is due.
func (p *Planner) Check(now, periodLeft, gameLeft int, isHalftime bool, rs *RosterStore) *models.Rotation {
	remaining := periodLeft
	if gameLeft < remaining {
		remaining = gameLeft
	}
	if remaining <= p.cfg.FinalNoSubWindow {
		return nil
	}

	court := p.eligibleOutfield(rs.CourtIDs())
	bench := p.eligibleOutfield(rs.BenchIDs())

	if isHalftime && !p.halftimeDone {
		if rot := p.halftimeBatch(now, court, bench, rs); rot != nil {
			p.halftimeDone = true
			p.lastSubTime = now
			return rot
		}
		p.halftimeDone = true
	}

	deviation := p.currentDeviation(court, bench, rs)
	if now-p.lastSubTime < p.effectiveMinGap(now, gameLeft, deviation) {
		return nil
	}

	if rot := p.urgentRung(now, court, bench, rs); rot != nil {
		p.lastSubTime = now
		return rot
	}
	if rot := p.varianceRung(now, deviation, court, bench, rs); rot != nil {
		p.lastSubTime = now
		return rot
	}
	if rot := p.proactiveRung(now, gameLeft, deviation, court, bench, rs); rot != nil {
		p.lastSubTime = now
		return rot
	}
	if rot := p.scheduledRung(now, court, bench, rs); rot != nil {
		p.lastSubTime = now
		return rot
	}
	return nil
}

// halftimeBatch refreshes the lineup once at the midpoint: on-court
// players who have played more than the eligible-pool average swap for
// the least-played bench players, up to half the on-court outfield
// count in pairs.
func (p *Planner) halftimeBatch(now int, court, bench []string, rs *RosterStore) *models.Rotation {
	if len(bench) == 0 {
		return nil
	}
	avg := averagePlayed(append(append([]string{}, court...), bench...), rs)
	overPlayed := filterSortDesc(court, rs, func(id string) int { return rs.Timing(id).TotalTimePlayed })
	var off []string
	for _, id := range overPlayed {
		if rs.Timing(id).TotalTimePlayed > avg {
			off = append(off, id)
		}
	}
	limit := len(court) / 2
	if limit < 1 {
		limit = 1
	}
	off, on := pairUp(off, bench, rs, limit)
	if len(off) == 0 {
		return nil
	}
	return &models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonHalftimeRefresh}
}

// urgentRung fires when any on-court stint has reached the prorated
// max (player must come off) or any bench stint has reached the
// prorated max (player must go on).
func (p *Planner) urgentRung(now int, court, bench []string, rs *RosterStore) *models.Rotation {
	var mustOff, mustOn []string
	for _, id := range court {
		if rs.Timing(id).CurrentCourtStint >= p.targets.ProratedMaxCourtStint {
			mustOff = append(mustOff, id)
		}
	}
	for _, id := range bench {
		if rs.Timing(id).CurrentBenchStint >= p.targets.ProratedMaxBenchStint {
			mustOn = append(mustOn, id)
		}
	}
	if len(mustOff) == 0 && len(mustOn) == 0 {
		return nil
	}
	// Rank the whole court (most fatigued first) and bench (most rested
	// first, ties on cumulative bench time) so at-cap players lead and
	// either side's urgency pulls in partners from the other.
	offRanked := append([]string{}, court...)
	sort.SliceStable(offRanked, func(i, j int) bool {
		return rs.Timing(offRanked[i]).CurrentCourtStint > rs.Timing(offRanked[j]).CurrentCourtStint
	})
	onRanked := append([]string{}, bench...)
	sort.SliceStable(onRanked, func(i, j int) bool {
		ti, tj := rs.Timing(onRanked[i]), rs.Timing(onRanked[j])
		if ti.CurrentBenchStint != tj.CurrentBenchStint {
			return ti.CurrentBenchStint > tj.CurrentBenchStint
		}
		return ti.TotalBenchTime > tj.TotalBenchTime
	})
	pairs := len(mustOff)
	if len(mustOn) > pairs {
		pairs = len(mustOn)
	}
	if pairs > len(offRanked) {
		pairs = len(offRanked)
	}
	off, on := balancedPairs(offRanked[:pairs], onRanked, court, bench, rs, maxPairsPerRotation)
	if len(off) == 0 {
		return nil
	}
	return &models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonUrgent}
}

// varianceRung fires when live deviation exceeds the dynamic threshold.
func (p *Planner) varianceRung(now, dev int, court, bench []string, rs *RosterStore) *models.Rotation {
	if len(bench) == 0 {
		return nil
	}
	threshold := dynamicVarianceThreshold(now, p.cfg.GameLength, p.cfg.MaxEarlyVariance, p.cfg.VarianceGoal)
	if dev <= threshold {
		return nil
	}
	overPlayed := filterSortDesc(court, rs, func(id string) int { return rs.Timing(id).TotalTimePlayed })
	off, on := pairUp(overPlayed, bench, rs, maxPairsPerRotation)
	if len(off) == 0 {
		return nil
	}
	return &models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonVarianceCorrection}
}

// proactiveRung fires when holding the current lineup for another
// full gap would project deviation growth the planner would rather
// pre-empt: either a flat +60s jump, or, once the game is 70% done, a
// crossing of 90s projected deviation. Candidates are ranked by the
// weighted OFF/ON scores (§4.4 Candidate orderings), not raw totals,
// so stint length pulls a player up the list independently of total
// time played.
func (p *Planner) proactiveRung(now, gameLeft, dev int, court, bench []string, rs *RosterStore) *models.Rotation {
	if len(bench) == 0 || len(court) == 0 {
		return nil
	}

	gap := p.effectiveMinGap(now, gameLeft, dev)
	projected := dev + gap // holding the lineup widens the court/bench split roughly 1:1 per second
	progress := 1.0
	if p.cfg.GameLength > 0 {
		progress = float64(now) / float64(p.cfg.GameLength)
	}

	trigger := projected >= dev+60
	if progress > 0.7 && projected > 90 {
		trigger = true
	}
	if !trigger {
		return nil
	}

	eligible := append(append([]string{}, court...), bench...)
	mean := meanPlayed(eligible, rs)

	offRanked := sortByScoreDesc(court, func(id string) float64 { return proactiveOffScore(id, mean, rs) })
	onRanked := sortByScoreDesc(bench, func(id string) float64 { return proactiveOnScore(id, mean, rs) })
	off, on := takePairs(offRanked, onRanked, maxPairsPerRotation)
	if len(off) == 0 {
		return nil
	}
	return &models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonProactive}
}

// scheduledRung is the baseline rung: it fires when there is both an
// upcoming-threshold OFF candidate (a court player within lookAhead
// seconds of its prorated cap) and a rested/upcoming ON candidate (a
// bench player within lookAhead seconds of its own), so shift counts
// stay close to IdealShiftsPerPlayer even absent urgency or excess
// variance (§4.4 rung 6, Upcoming OFF/ON candidate orderings).
func (p *Planner) scheduledRung(now int, court, bench []string, rs *RosterStore) *models.Rotation {
	if len(bench) == 0 || len(court) == 0 {
		return nil
	}

	type candidate struct {
		id        string
		timeToCap int
	}

	lookAhead := p.cfg.LookAheadWindow

	var upcomingOff []candidate
	for _, id := range court {
		timeToCap := p.targets.ProratedMaxCourtStint - rs.Timing(id).CurrentCourtStint
		if timeToCap > 0 && timeToCap <= lookAhead {
			upcomingOff = append(upcomingOff, candidate{id: id, timeToCap: timeToCap})
		}
	}
	var upcomingOn []candidate
	for _, id := range bench {
		timeToCap := p.targets.ProratedMaxBenchStint - rs.Timing(id).CurrentBenchStint
		if timeToCap > 0 && timeToCap <= lookAhead {
			upcomingOn = append(upcomingOn, candidate{id: id, timeToCap: timeToCap})
		}
	}
	if len(upcomingOff) == 0 || len(upcomingOn) == 0 {
		return nil
	}

	sort.SliceStable(upcomingOff, func(i, j int) bool {
		return upcomingOff[i].timeToCap < upcomingOff[j].timeToCap
	})
	sort.SliceStable(upcomingOn, func(i, j int) bool {
		if upcomingOn[i].timeToCap != upcomingOn[j].timeToCap {
			return upcomingOn[i].timeToCap < upcomingOn[j].timeToCap
		}
		return rs.Timing(upcomingOn[i].id).TotalBenchTime > rs.Timing(upcomingOn[j].id).TotalBenchTime
	})

	n := maxPairsPerRotation
	if n > len(upcomingOff) {
		n = len(upcomingOff)
	}
	if n > len(upcomingOn) {
		n = len(upcomingOn)
	}

	off := make([]string, n)
	on := make([]string, n)
	for i := 0; i < n; i++ {
		off[i] = upcomingOff[i].id
		on[i] = upcomingOn[i].id
	}
	return &models.Rotation{Time: now, Off: off, On: on, Reason: models.ReasonScheduledBalance}
}

// --- candidate ordering helpers ---

func allTiming(rs *RosterStore, ids []string) map[string]models.PlayerTiming {
	out := make(map[string]models.PlayerTiming, len(ids))
	for _, id := range ids {
		out[id] = rs.Timing(id)
	}
	return out
}

func averagePlayed(ids []string, rs *RosterStore) int {
	if len(ids) == 0 {
		return 0
	}
	sum := 0
	for _, id := range ids {
		sum += rs.Timing(id).TotalTimePlayed
	}
	return sum / len(ids)
}

func meanPlayed(ids []string, rs *RosterStore) float64 {
	if len(ids) == 0 {
		return 0
	}
	sum := 0
	for _, id := range ids {
		sum += rs.Timing(id).TotalTimePlayed
	}
	return float64(sum) / float64(len(ids))
}

// proactiveOffScore favors court players with a high total-played
// surplus over the mean, weighted up further by a long current stint.
func proactiveOffScore(id string, mean float64, rs *RosterStore) float64 {
	t := rs.Timing(id)
	return (float64(t.TotalTimePlayed) - mean) + 0.5*float64(t.CurrentCourtStint)
}

// proactiveOnScore favors bench players with a high total-played
// deficit under the mean, weighted up further by rest accrued both in
// the current stint and cumulatively.
func proactiveOnScore(id string, mean float64, rs *RosterStore) float64 {
	t := rs.Timing(id)
	return (mean - float64(t.TotalTimePlayed)) + 0.3*float64(t.CurrentBenchStint) + 0.1*float64(t.TotalBenchTime)
}

func sortByScoreDesc(ids []string, score func(string) float64) []string {
	out := append([]string{}, ids...)
	sort.SliceStable(out, func(i, j int) bool { return score(out[i]) > score(out[j]) })
	return out
}

// takePairs truncates two already-ranked candidate lists to the same
// length, at most limit.
func takePairs(off, on []string, limit int) (outOff, outOn []string) {
	n := limit
	if n > len(off) {
		n = len(off)
	}
	if n > len(on) {
		n = len(on)
	}
	return append([]string{}, off[:n]...), append([]string{}, on[:n]...)
}

func filterSortDesc(ids []string, rs *RosterStore, key func(string) int) []string {
	out := append([]string{}, ids...)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	return out
}

// pairUp greedily matches the highest-played offCandidates with the
// least-played benchPlayers, up to limit pairs.
func pairUp(offCandidates, bench []string, rs *RosterStore, limit int) (off, on []string) {
	benchSorted := append([]string{}, bench...)
	sort.SliceStable(benchSorted, func(i, j int) bool {
		return rs.Timing(benchSorted[i]).TotalTimePlayed < rs.Timing(benchSorted[j]).TotalTimePlayed
	})
	n := limit
	if n > len(offCandidates) {
		n = len(offCandidates)
	}
	if n > len(benchSorted) {
		n = len(benchSorted)
	}
	return append([]string{}, offCandidates[:n]...), append([]string{}, benchSorted[:n]...)
}

// balancedPairs first satisfies mustOff/mustOn urgency, then tops up
// with ordinary pairUp candidates until limit pairs are formed or one
// side runs out.
func balancedPairs(mustOff, mustOn, court, bench []string, rs *RosterStore, limit int) (off, on []string) {
	used := make(map[string]bool)
	for i := 0; i < len(mustOff) && len(off) < limit; i++ {
		off = append(off, mustOff[i])
		used[mustOff[i]] = true
	}
	for i := 0; i < len(mustOn) && len(on) < len(off); i++ {
		if used[mustOn[i]] {
			continue
		}
		on = append(on, mustOn[i])
		used[mustOn[i]] = true
	}
	// Top up the shorter side from ordinary candidates so off/on stay
	// equal length.
	if len(on) < len(off) {
		benchSorted := append([]string{}, bench...)
		sort.SliceStable(benchSorted, func(i, j int) bool {
			return rs.Timing(benchSorted[i]).TotalTimePlayed < rs.Timing(benchSorted[j]).TotalTimePlayed
		})
		for _, id := range benchSorted {
			if len(on) >= len(off) {
				break
			}
			if used[id] {
				continue
			}
			on = append(on, id)
			used[id] = true
		}
	}
	if len(off) > len(on) {
		off = off[:len(on)]
	}
	return off, on
}
