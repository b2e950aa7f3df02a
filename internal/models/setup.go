// internal/models/setup.go
// Setup input and derived game configuration

package models

import (
	"fmt"
	"strings"
)

// GameFormat mirrors the source UI's period naming; it only affects
// defaulting, the engine always works in periods.
type GameFormat string

const (
	FormatHalves   GameFormat = "halves"
	FormatQuarters GameFormat = "quarters"
)

// SetupInput is the external setup payload consumed from the host
// (HTTP body, loaded saved roster, etc). Field ranges per spec §6.
type SetupInput struct {
	Format               GameFormat `json:"format" binding:"omitempty,oneof=halves quarters"`
	MinutesPerPeriod     int        `json:"minutes_per_period" binding:"required,min=1,max=60"`
	NumPeriods           int        `json:"num_periods" binding:"omitempty,min=1"`
	FieldSpots           int        `json:"field_spots" binding:"required,min=4,max=15"`
	NumReserves          int        `json:"num_reserves" binding:"min=0,max=30"`
	NumGoalkeepers       int        `json:"num_goalkeepers" binding:"omitempty,oneof=0 1"`
	StarterNames         []string   `json:"starter_names" binding:"required,min=1,dive,required"`
	ReserveNames         []string   `json:"reserve_names" binding:"dive,required"`
	JerseyNumbers        map[string]string `json:"jersey_numbers,omitempty"`
	IdealShiftsPerPlayer *int       `json:"ideal_shifts_per_player,omitempty"`
	EnableWarningSound   bool       `json:"enable_warning_sound"`
	WarningBeepSeconds   *int       `json:"warning_beep_seconds,omitempty"`
	Sport                string     `json:"sport,omitempty"` // "basketball" | "soccer" | "afl", advisory only
}

// ValidationError lists every setup violation at once, mirroring the
// teacher's structured-error-on-register convention.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid setup: %s", strings.Join(e.Violations, "; "))
}

// Validate checks SetupInput against spec §6 and returns a
// ValidationError listing every violation found, or nil.
func (s *SetupInput) Validate() error {
	var v []string

	if s.MinutesPerPeriod < 1 || s.MinutesPerPeriod > 60 {
		v = append(v, "minutes_per_period must be in [1,60]")
	}
	if s.FieldSpots < 4 || s.FieldSpots > 15 {
		v = append(v, "field_spots must be in [4,15]")
	}
	if s.NumReserves < 0 || s.NumReserves > 30-s.FieldSpots {
		v = append(v, "num_reserves out of range for field_spots")
	}
	if s.NumGoalkeepers < 0 || s.NumGoalkeepers > 1 {
		v = append(v, "num_goalkeepers must be 0 or 1")
	}

	total := len(s.StarterNames) + len(s.ReserveNames)
	if total < 9 && s.Sport != "soccer" && s.Sport != "afl" {
		v = append(v, "total roster must have at least 9 players for basketball")
	}
	if s.Sport == "soccer" && total > 17 {
		v = append(v, "total roster must not exceed 17 players for soccer")
	}
	if total > 30 {
		v = append(v, "total roster must not exceed 30 players")
	}
	if len(s.StarterNames)+len(s.ReserveNames) < s.FieldSpots {
		v = append(v, "roster smaller than field_spots")
	}

	seenNames := make(map[string]bool, total)
	for _, n := range append(append([]string{}, s.StarterNames...), s.ReserveNames...) {
		name := strings.TrimSpace(n)
		if name == "" {
			v = append(v, "player names must be non-empty")
			continue
		}
		key := strings.ToLower(name)
		if seenNames[key] {
			v = append(v, fmt.Sprintf("duplicate player name: %s", name))
		}
		seenNames[key] = true
	}

	if len(s.JerseyNumbers) > 0 {
		seenJerseys := make(map[string]bool, len(s.JerseyNumbers))
		for _, num := range s.JerseyNumbers {
			if num == "" {
				continue
			}
			if seenJerseys[num] {
				v = append(v, fmt.Sprintf("duplicate jersey number: %s", num))
			}
			seenJerseys[num] = true
		}
	}

	if s.IdealShiftsPerPlayer != nil && *s.IdealShiftsPerPlayer < 1 {
		v = append(v, "ideal_shifts_per_player must be >= 1 when set")
	}

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

// NumPeriodsOrDefault resolves NumPeriods from Format when unset.
func (s *SetupInput) NumPeriodsOrDefault() int {
	if s.NumPeriods > 0 {
		return s.NumPeriods
	}
	if s.Format == FormatQuarters {
		return 4
	}
	return 2
}

// GameConfig is the engine's resolved configuration, derived once at
// setup and recomputed (targets only) on roster-size change.
type GameConfig struct {
	PeriodLength         int  // seconds
	NumPeriods           int
	FieldSpots           int
	GameLength           int // PeriodLength * NumPeriods
	FinalNoSubWindow     int
	CheckInterval        int
	LookAheadWindow      int
	IdealShiftsPerPlayer int // override, 0 = derive
	VarianceGoal         int
	MaxEarlyVariance     int
	WarningBeepSeconds   int
	EnableWarningSound   bool
	Sport                string
}

// DefaultGameConfig builds a GameConfig from a validated SetupInput,
// applying spec §3 defaults.
func DefaultGameConfig(s SetupInput) GameConfig {
	numPeriods := s.NumPeriodsOrDefault()
	periodLength := s.MinutesPerPeriod * 60

	cfg := GameConfig{
		PeriodLength:       periodLength,
		NumPeriods:         numPeriods,
		FieldSpots:         s.FieldSpots,
		GameLength:         periodLength * numPeriods,
		FinalNoSubWindow:   45,
		CheckInterval:      15,
		LookAheadWindow:    60,
		VarianceGoal:       60,
		MaxEarlyVariance:   90,
		WarningBeepSeconds: 10,
		EnableWarningSound: s.EnableWarningSound,
		Sport:              s.Sport,
	}

	if s.IdealShiftsPerPlayer != nil {
		cfg.IdealShiftsPerPlayer = *s.IdealShiftsPerPlayer
	}
	if s.WarningBeepSeconds != nil {
		cfg.WarningBeepSeconds = *s.WarningBeepSeconds
	}

	return cfg
}
