// internal/engine/roster.go
// Roster/State Store (spec §4.2). Owns player membership (court, bench,
// removed) and per-player timing. Enforces invariants I1-I3, repairing
// small drifts rather than rejecting them outright.

package engine

import (
	"sort"

	"rotation-planner/internal/models"
)

// RosterStore is the single source of ground truth for player
// membership and accumulated playing/bench time.
type RosterStore struct {
	order      []string // stable original roster order, for deterministic iteration
	players    map[string]models.Player
	status     map[string]models.PlayerStatus
	timing     map[string]models.PlayerTiming
	fieldSpots int
}

// NewRosterStore builds a store from starters (placed on court) and
// reserves (placed on bench), per SetupInput.
func NewRosterStore(starters, reserves []models.Player, fieldSpots int) *RosterStore {
	rs := &RosterStore{
		players:    make(map[string]models.Player, len(starters)+len(reserves)),
		status:     make(map[string]models.PlayerStatus, len(starters)+len(reserves)),
		timing:     make(map[string]models.PlayerTiming, len(starters)+len(reserves)),
		fieldSpots: fieldSpots,
	}
	for _, p := range starters {
		rs.order = append(rs.order, p.ID)
		rs.players[p.ID] = p
		rs.status[p.ID] = models.StatusOnCourt
		rs.timing[p.ID] = models.PlayerTiming{PlayerID: p.ID}
	}
	for _, p := range reserves {
		rs.order = append(rs.order, p.ID)
		rs.players[p.ID] = p
		rs.status[p.ID] = models.StatusOnBench
		rs.timing[p.ID] = models.PlayerTiming{PlayerID: p.ID}
	}
	return rs
}

func (rs *RosterStore) idsWithStatus(s models.PlayerStatus) []string {
	out := make([]string, 0, len(rs.order))
	for _, id := range rs.order {
		if rs.status[id] == s {
			out = append(out, id)
		}
	}
	return out
}

// CourtIDs, BenchIDs, RemovedIDs return members in stable roster order.
func (rs *RosterStore) CourtIDs() []string   { return rs.idsWithStatus(models.StatusOnCourt) }
func (rs *RosterStore) BenchIDs() []string   { return rs.idsWithStatus(models.StatusOnBench) }
func (rs *RosterStore) RemovedIDs() []string { return rs.idsWithStatus(models.StatusRemoved) }

// EligibleIDs returns every player not removed (court + bench).
func (rs *RosterStore) EligibleIDs() []string {
	out := make([]string, 0, len(rs.order))
	for _, id := range rs.order {
		if rs.status[id] != models.StatusRemoved {
			out = append(out, id)
		}
	}
	return out
}

func (rs *RosterStore) EligibleCount() int { return len(rs.EligibleIDs()) }

func (rs *RosterStore) Status(id string) (models.PlayerStatus, bool) {
	s, ok := rs.status[id]
	return s, ok
}

func (rs *RosterStore) Timing(id string) models.PlayerTiming { return rs.timing[id] }

func (rs *RosterStore) Player(id string) (models.Player, bool) {
	p, ok := rs.players[id]
	return p, ok
}

func (rs *RosterStore) Has(id string) bool {
	_, ok := rs.players[id]
	return ok
}

// IncrementCourt adds seconds of playing time to every on-court player.
func (rs *RosterStore) IncrementCourt(seconds int) {
	for id, s := range rs.status {
		if s != models.StatusOnCourt {
			continue
		}
		t := rs.timing[id]
		t.TotalTimePlayed += seconds
		t.CurrentCourtStint += seconds
		rs.timing[id] = t
	}
}

// IncrementBench adds seconds of rest time to every on-bench player.
func (rs *RosterStore) IncrementBench(seconds int) {
	for id, s := range rs.status {
		if s != models.StatusOnBench {
			continue
		}
		t := rs.timing[id]
		t.TotalBenchTime += seconds
		t.CurrentBenchStint += seconds
		rs.timing[id] = t
	}
}

// ApplyRotation swaps off players to bench and on players to court,
// resetting their current-stint counters. Atomic: either the whole
// rotation is valid and applies, or nothing changes.
func (rs *RosterStore) ApplyRotation(off, on []string) error {
	for _, id := range off {
		if rs.status[id] != models.StatusOnCourt {
			return &RotationRejection{Reason: "off player not on court: " + id}
		}
	}
	for _, id := range on {
		if rs.status[id] != models.StatusOnBench {
			return &RotationRejection{Reason: "on player not on bench: " + id}
		}
	}
	for _, id := range off {
		rs.status[id] = models.StatusOnBench
		t := rs.timing[id]
		t.CurrentBenchStint = 0
		rs.timing[id] = t
	}
	for _, id := range on {
		rs.status[id] = models.StatusOnCourt
		t := rs.timing[id]
		t.CurrentCourtStint = 0
		rs.timing[id] = t
	}
	return rs.Repair()
}

// Remove marks a player Removed (foul-out, injury, generic removal). If
// they were on court, the least-played eligible bench player (or, if
// bench is empty, nobody) backfills automatically to preserve I1.
// Returns the backfilled player id, if any.
func (rs *RosterStore) Remove(id string) (backfilled string, err error) {
	status, ok := rs.status[id]
	if !ok {
		return "", ErrUnknownPlayer
	}
	if status == models.StatusRemoved {
		return "", nil // idempotent
	}
	if rs.EligibleCount()-1 < rs.fieldSpots {
		return "", ErrInsufficientPlayers
	}
	wasOnCourt := status == models.StatusOnCourt
	rs.status[id] = models.StatusRemoved

	if !wasOnCourt {
		return "", rs.Repair()
	}

	bench := rs.BenchIDs()
	if len(bench) == 0 {
		return "", rs.Repair()
	}
	sort.SliceStable(bench, func(i, j int) bool {
		return rs.timing[bench[i]].TotalTimePlayed < rs.timing[bench[j]].TotalTimePlayed
	})
	pick := bench[0]
	rs.status[pick] = models.StatusOnCourt
	t := rs.timing[pick]
	t.CurrentCourtStint = 0
	rs.timing[pick] = t
	return pick, rs.Repair()
}

// Reinstate returns a removed player to the bench with timing
// untouched (round-trip law: remove then reinstate is a no-op on
// accumulated totals).
func (rs *RosterStore) Reinstate(id string) error {
	status, ok := rs.status[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if status != models.StatusRemoved {
		return nil // idempotent
	}
	rs.status[id] = models.StatusOnBench
	t := rs.timing[id]
	t.CurrentBenchStint = 0
	rs.timing[id] = t
	return nil
}

// Clone returns a deep copy, used by plan simulation so look-ahead
// projection never mutates live game state.
func (rs *RosterStore) Clone() *RosterStore {
	cp := &RosterStore{
		order:      append([]string{}, rs.order...),
		players:    make(map[string]models.Player, len(rs.players)),
		status:     make(map[string]models.PlayerStatus, len(rs.status)),
		timing:     make(map[string]models.PlayerTiming, len(rs.timing)),
		fieldSpots: rs.fieldSpots,
	}
	for k, v := range rs.players {
		cp.players[k] = v
	}
	for k, v := range rs.status {
		cp.status[k] = v
	}
	for k, v := range rs.timing {
		cp.timing[k] = v
	}
	return cp
}

// Repair enforces I1 (exactly fieldSpots on court, when enough eligible
// players exist) and I2 (no player occupies two statuses at once, which
// is structurally impossible given the single status map here, so this
// pass only handles count drift). Idempotent.
func (rs *RosterStore) Repair() error {
	court := rs.CourtIDs()
	eligible := rs.EligibleCount()

	if eligible < rs.fieldSpots {
		return ErrInsufficientPlayers
	}

	if len(court) > rs.fieldSpots {
		// Spill the most recently subbed-in extras back to bench,
		// lowest current court stint first, so players who have been
		// out there longest stay on.
		sort.SliceStable(court, func(i, j int) bool {
			return rs.timing[court[i]].CurrentCourtStint < rs.timing[court[j]].CurrentCourtStint
		})
		for _, id := range court[:len(court)-rs.fieldSpots] {
			rs.status[id] = models.StatusOnBench
			t := rs.timing[id]
			t.CurrentBenchStint = 0
			rs.timing[id] = t
		}
	} else if len(court) < rs.fieldSpots {
		bench := rs.BenchIDs()
		sort.SliceStable(bench, func(i, j int) bool {
			return rs.timing[bench[i]].TotalTimePlayed < rs.timing[bench[j]].TotalTimePlayed
		})
		need := rs.fieldSpots - len(court)
		if need > len(bench) {
			need = len(bench)
		}
		for _, id := range bench[:need] {
			rs.status[id] = models.StatusOnCourt
			t := rs.timing[id]
			t.CurrentCourtStint = 0
			rs.timing[id] = t
		}
	}
	return nil
}
