// internal/repositories/coach_repository.go
// Coach data access layer, adapted from the teacher's user_repository.go

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"rotation-planner/internal/models"
)

type CoachRepository struct {
	db *sql.DB
}

func NewCoachRepository(db *sql.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) Create(ctx context.Context, c *models.Coach) error {
	query := `
		INSERT INTO coaches (
			id, email, password_hash, full_name, role, email_verified, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Email, c.PasswordHash, c.FullName, c.Role, c.EmailVerified, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CoachRepository) GetByEmail(ctx context.Context, email string) (*models.Coach, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, email_verified, created_at, updated_at
		FROM coaches WHERE email = ?
	`
	var c models.Coach
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.FullName, &c.Role, &c.EmailVerified, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("coach not found")
	}
	return &c, err
}

func (r *CoachRepository) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, email_verified, created_at, updated_at
		FROM coaches WHERE id = ?
	`
	var c models.Coach
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.FullName, &c.Role, &c.EmailVerified, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("coach not found")
	}
	return &c, err
}
