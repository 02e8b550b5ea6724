package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

const userColumns = `id, full_name, role, municipality_id, active,
warning_count, last_warning_reason, last_warning_at,
work_start, work_end, grace_minutes, created_at, updated_at`

// UserRepository handles persistence for worker profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ByID fetches one user profile.
func (r *UserRepository) ByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &user, nil
}

// AddWarning increments the worker's warning counter and stamps the reason.
func (r *UserRepository) AddWarning(ctx context.Context, userID, reason string) error {
	query := `UPDATE users SET
warning_count = warning_count + 1,
last_warning_reason = $1, last_warning_at = $2, updated_at = $2
WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, reason, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("add user warning: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return nil
}

// ReduceWarnings lowers the warning counter by n, never below zero.
func (r *UserRepository) ReduceWarnings(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}
	query := `UPDATE users SET
warning_count = GREATEST(warning_count - $1, 0), updated_at = $2
WHERE id = $3`

	if _, err := r.db.ExecContext(ctx, query, n, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("reduce user warnings: %w", err)
	}
	return nil
}
