// internal/models/gamerecord.go
// Durable host-side records: a game's persisted lifecycle row (MySQL)
// and an analytics event row (MongoDB), grounded on the teacher's
// tournament/match repository record shapes.

package models

import "time"

// GameRecord is the MySQL-backed durable record of a game, written on
// creation and refreshed on onGameEnd. It is what a GET request falls
// back to once a game's in-memory engine has been evicted.
type GameRecord struct {
	ID           string       `json:"id" db:"id"`
	OrganizerID  string       `json:"organizer_id" db:"organizer_id"`
	Config       GameConfig   `json:"-" db:"-"`
	ConfigJSON   []byte       `json:"-" db:"config"`
	State        GameState    `json:"-" db:"-"`
	StateJSON    []byte       `json:"-" db:"state"`
	Rotations    RotationList `json:"rotations" db:"rotations"`
	Scoring      Scoring      `json:"-" db:"-"`
	ScoringJSON  []byte       `json:"-" db:"scoring"`
	FinalStats   *FinalStats  `json:"final_stats,omitempty" db:"-"`
	FinalJSON    []byte       `json:"-" db:"final_stats"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// RotationEvent is one MongoDB document logged for every emitted
// Rotation and disruption (emergency, foul-out, recovery), mirroring
// the teacher's AnalyticsService.LogEvent bson.M convention.
type RotationEvent struct {
	GameID    string         `json:"game_id" bson:"game_id"`
	Time      int            `json:"time" bson:"time"`
	Off       []string       `json:"off" bson:"off"`
	On        []string       `json:"on" bson:"on"`
	Reason    RotationReason `json:"reason" bson:"reason"`
	LoggedAt  time.Time      `json:"logged_at" bson:"logged_at"`
}
