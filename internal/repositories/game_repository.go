// internal/repositories/game_repository.go
// Game data access layer, grounded on the teacher's tournament_repository.go
// Create/GetByID/Update/List shape and its JSON-column marshal convention.

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rotation-planner/internal/models"
)

// GameRepository handles durable storage of a game's lifecycle record.
type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

func marshalGameRecord(rec *models.GameRecord) error {
	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	scoringJSON, err := json.Marshal(rec.Scoring)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring: %w", err)
	}
	rec.ConfigJSON = configJSON
	rec.StateJSON = stateJSON
	rec.ScoringJSON = scoringJSON
	if rec.FinalStats != nil {
		finalJSON, err := json.Marshal(rec.FinalStats)
		if err != nil {
			return fmt.Errorf("failed to marshal final stats: %w", err)
		}
		rec.FinalJSON = finalJSON
	}
	return nil
}

func unmarshalGameRecord(rec *models.GameRecord) error {
	if err := json.Unmarshal(rec.ConfigJSON, &rec.Config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := json.Unmarshal(rec.StateJSON, &rec.State); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if len(rec.ScoringJSON) > 0 {
		if err := json.Unmarshal(rec.ScoringJSON, &rec.Scoring); err != nil {
			return fmt.Errorf("failed to unmarshal scoring: %w", err)
		}
	}
	if len(rec.FinalJSON) > 0 {
		var fs models.FinalStats
		if err := json.Unmarshal(rec.FinalJSON, &fs); err != nil {
			return fmt.Errorf("failed to unmarshal final stats: %w", err)
		}
		rec.FinalStats = &fs
	}
	return nil
}

// Create inserts a new game record.
func (r *GameRepository) Create(ctx context.Context, rec *models.GameRecord) error {
	if err := marshalGameRecord(rec); err != nil {
		return err
	}
	query := `
		INSERT INTO games (
			id, organizer_id, config, state, rotations, scoring, final_stats,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OrganizerID, rec.ConfigJSON, rec.StateJSON, rec.Rotations,
		rec.ScoringJSON, rec.FinalJSON, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// GetByID retrieves a game record: the GameService's snapshot fallback
// for games not in memory, its ownership check, and its end-of-game
// persist all read through it.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.GameRecord, error) {
	query := `
		SELECT id, organizer_id, config, state, rotations, scoring, final_stats,
			created_at, updated_at
		FROM games WHERE id = ?
	`
	var rec models.GameRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.OrganizerID, &rec.ConfigJSON, &rec.StateJSON, &rec.Rotations,
		&rec.ScoringJSON, &rec.FinalJSON, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalGameRecord(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update persists the latest state of a game record. The GameService
// calls it on onGameEnd to store the final stats; onUpdate snapshots go
// to the Redis cache only.
func (r *GameRepository) Update(ctx context.Context, rec *models.GameRecord) error {
	if err := marshalGameRecord(rec); err != nil {
		return err
	}
	query := `
		UPDATE games SET
			state = ?, rotations = ?, scoring = ?, final_stats = ?, updated_at = NOW()
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, rec.StateJSON, rec.Rotations, rec.ScoringJSON, rec.FinalJSON, rec.ID)
	return err
}

// ListByOrganizer returns every game a coach owns, most recent first.
func (r *GameRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*models.GameRecord, error) {
	query := `
		SELECT id, organizer_id, config, state, rotations, scoring, final_stats,
			created_at, updated_at
		FROM games WHERE organizer_id = ?
		ORDER BY created_at DESC LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		if err := rows.Scan(
			&rec.ID, &rec.OrganizerID, &rec.ConfigJSON, &rec.StateJSON, &rec.Rotations,
			&rec.ScoringJSON, &rec.FinalJSON, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalGameRecord(&rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Delete removes a game record (coach-initiated cleanup).
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	return err
}
