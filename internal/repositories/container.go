// internal/repositories/container.go
// Repository container for dependency injection

package repositories

import (
	"context"
	"database/sql"

	"rotation-planner/internal/database"
)

// Container holds all repository instances.
type Container struct {
	Game   *GameRepository
	Coach  *CoachRepository
	Roster *RosterRepository
	db     *sql.DB
}

// NewContainer creates a new repository container.
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Game:   NewGameRepository(conn.MySQL),
		Coach:  NewCoachRepository(conn.MySQL),
		Roster: NewRosterRepository(conn.MySQL),
		db:     conn.MySQL,
	}
}

// BeginTx starts a new database transaction.
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
