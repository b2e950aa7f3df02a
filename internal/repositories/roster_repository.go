// internal/repositories/roster_repository.go
// SavedRoster data access layer, adapted from the teacher's
// participant_repository.go CRUD shape.

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"rotation-planner/internal/models"
)

type RosterRepository struct {
	db *sql.DB
}

func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Create(ctx context.Context, roster *models.SavedRoster) error {
	query := `
		INSERT INTO saved_rosters (id, coach_id, name, player_names, jersey_numbers, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		roster.ID, roster.CoachID, roster.Name, roster.PlayerNames, roster.JerseyNumbers, roster.CreatedAt,
	)
	return err
}

func (r *RosterRepository) ListByCoach(ctx context.Context, coachID string) ([]*models.SavedRoster, error) {
	query := `
		SELECT id, coach_id, name, player_names, jersey_numbers, created_at
		FROM saved_rosters WHERE coach_id = ? ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SavedRoster
	for rows.Next() {
		var roster models.SavedRoster
		if err := rows.Scan(&roster.ID, &roster.CoachID, &roster.Name, &roster.PlayerNames, &roster.JerseyNumbers, &roster.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &roster)
	}
	return out, rows.Err()
}

func (r *RosterRepository) GetByID(ctx context.Context, id string) (*models.SavedRoster, error) {
	query := `
		SELECT id, coach_id, name, player_names, jersey_numbers, created_at
		FROM saved_rosters WHERE id = ?
	`
	var roster models.SavedRoster
	err := r.db.QueryRowContext(ctx, query, id).Scan(&roster.ID, &roster.CoachID, &roster.Name, &roster.PlayerNames, &roster.JerseyNumbers, &roster.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved roster not found")
	}
	return &roster, err
}

func (r *RosterRepository) Delete(ctx context.Context, id, coachID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM saved_rosters WHERE id = ? AND coach_id = ?", id, coachID)
	return err
}
