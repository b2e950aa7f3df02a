// internal/models/gamestate.go
// Output snapshots delivered to subscribers (§6 External Interfaces)

package models

import "time"

// GameState is the pure, immutable-copy snapshot exposed to the host
// and its subscribers after every tick/command.
type GameState struct {
	CurrentTime             int             `json:"current_time"`
	CurrentPeriod           int             `json:"current_period"`
	PeriodElapsed           int             `json:"period_elapsed"`
	Running                 bool            `json:"running"`
	Paused                  bool            `json:"paused"`
	GameOver                bool            `json:"game_over"`
	Court                   []string        `json:"court"`
	Bench                   []string        `json:"bench"`
	Removed                 []string        `json:"removed"`
	Minutes                 map[string]int  `json:"minutes"`
	BenchMinutes            map[string]int  `json:"bench_minutes"`
	Positions               map[string]string `json:"positions,omitempty"`
	Goalkeeper              *string         `json:"goalkeeper,omitempty"`
	PendingRotation         *Rotation       `json:"pending_rotation,omitempty"`
	NextScheduledRotation   *Rotation       `json:"next_scheduled_rotation,omitempty"`
	RotationHistoryCount    int             `json:"rotation_history_count"`
	RemainingRotations      int             `json:"remaining_rotations"`
	Variance                int             `json:"variance"`
	TargetMinutes           int             `json:"target_minutes"`
	Scoring                 Scoring         `json:"scoring"`
}

// PersistedSnapshot is the auto-save payload (§6). Restore is valid
// within 24h of Timestamp; older snapshots are discarded by the host.
type PersistedSnapshot struct {
	Timestamp time.Time  `json:"timestamp"`
	Config    GameConfig `json:"config"`
	State     GameState  `json:"state"`
	Players   []Player   `json:"players"`
	Rotations []Rotation `json:"rotations"`
	Scoring   Scoring    `json:"scoring"`
}

// Expired reports whether this snapshot is too old to restore from.
func (p *PersistedSnapshot) Expired(now time.Time) bool {
	return now.Sub(p.Timestamp) > 24*time.Hour
}

// PlayerFinalStats is one player's entry in FinalStats.Players.
type PlayerFinalStats struct {
	Minutes      int     `json:"minutes"`
	BenchMinutes int     `json:"bench_minutes"`
	Percentage   float64 `json:"percentage"`
	Goals        *int    `json:"goals,omitempty"`
}

// FinalStats is the end-of-game report (§6, §8 S1-S6).
type FinalStats struct {
	Players         map[string]PlayerFinalStats `json:"players"`
	Variance        int                         `json:"variance"` // population std-dev, seconds
	Rotations       int                         `json:"rotations"`
	AverageMinutes  float64                     `json:"average_minutes"`
	MaxMinutes      int                         `json:"max_minutes"`
	MinMinutes      int                         `json:"min_minutes"`
	Goalkeeper      *string                     `json:"goalkeeper,omitempty"`
}
