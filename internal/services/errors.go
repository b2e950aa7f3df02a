// internal/services/errors.go
// Common errors used across services

package services

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrGameNotRunning     = errors.New("game is not running")
	ErrGameAlreadyExists  = errors.New("game already exists")
	ErrGameEvicted        = errors.New("game no longer held in memory")
)
