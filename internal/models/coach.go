// internal/models/coach.go
// Coach account and authentication models (host layer, not part of
// the rotation engine core)

package models

import "time"

// Coach represents a user of the host service who owns games.
type Coach struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	FullName      string    `json:"full_name" db:"full_name"`
	Role          CoachRole `json:"role" db:"role"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CoachRole defines access levels on the host API.
type CoachRole string

const (
	RoleCoach CoachRole = "coach"
	RoleAdmin CoachRole = "admin"
)

// TokenPair represents JWT access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginRequest represents authentication credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest represents new coach registration data.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

// SavedRoster is a reusable named roster a coach can load into a new
// SetupInput instead of retyping player lists every game.
type SavedRoster struct {
	ID            string     `json:"id" db:"id"`
	CoachID       string     `json:"coach_id" db:"coach_id"`
	Name          string     `json:"name" db:"name"`
	PlayerNames   StringList `json:"player_names" db:"player_names"`
	JerseyNumbers StringMap  `json:"jersey_numbers,omitempty" db:"jersey_numbers"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
