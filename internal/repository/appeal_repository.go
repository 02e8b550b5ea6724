package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

const appealColumns = `id, user_id, entity_type, entity_id, reason, status,
reviewed_by, reviewed_at, review_notes, disposition, created_at, updated_at`

// appealRow flattens the tagged entity reference for sqlx scanning.
type appealRow struct {
	ID          string                  `db:"id"`
	UserID      string                  `db:"user_id"`
	EntityType  models.AppealEntityType `db:"entity_type"`
	EntityID    string                  `db:"entity_id"`
	Reason      string                  `db:"reason"`
	Status      models.AppealStatus     `db:"status"`
	ReviewedBy  *string                 `db:"reviewed_by"`
	ReviewedAt  *time.Time              `db:"reviewed_at"`
	ReviewNotes *string                 `db:"review_notes"`
	Disposition *models.TaskStatus      `db:"disposition"`
	CreatedAt   time.Time               `db:"created_at"`
	UpdatedAt   time.Time               `db:"updated_at"`
}

func (row *appealRow) toModel() *models.Appeal {
	return &models.Appeal{
		ID:          row.ID,
		UserID:      row.UserID,
		Entity:      models.EntityRef{Type: row.EntityType, ID: row.EntityID},
		Reason:      row.Reason,
		Status:      row.Status,
		ReviewedBy:  row.ReviewedBy,
		ReviewedAt:  row.ReviewedAt,
		ReviewNotes: row.ReviewNotes,
		Disposition: row.Disposition,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// AppealRepository handles persistence for appeals.
type AppealRepository struct {
	db *sqlx.DB
}

// NewAppealRepository constructs the repository.
func NewAppealRepository(db *sqlx.DB) *AppealRepository {
	return &AppealRepository{db: db}
}

// Insert opens an appeal. The partial unique index uq_appeal_open_entity
// (entity_type, entity_id) WHERE status='Pending' enforces one open appeal
// per entity; a violation surfaces as the open-appeal conflict.
func (r *AppealRepository) Insert(ctx context.Context, appeal *models.Appeal) (*models.Appeal, error) {
	now := time.Now().UTC()
	if appeal.ID == "" {
		appeal.ID = uuid.NewString()
	}
	appeal.Status = models.AppealPending
	appeal.CreatedAt = now
	appeal.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO appeals (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING %s`, appealColumns, appealColumns)

	var row appealRow
	err := r.db.GetContext(ctx, &row, query,
		appeal.ID, appeal.UserID, appeal.Entity.Type, appeal.Entity.ID, appeal.Reason, appeal.Status,
		appeal.ReviewedBy, appeal.ReviewedAt, appeal.ReviewNotes, appeal.Disposition,
		appeal.CreatedAt, appeal.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, appErrors.ErrOpenAppealExists
		}
		return nil, fmt.Errorf("insert appeal: %w", err)
	}
	return row.toModel(), nil
}

// ByID fetches one appeal.
func (r *AppealRepository) ByID(ctx context.Context, id string) (*models.Appeal, error) {
	query := fmt.Sprintf(`SELECT %s FROM appeals WHERE id = $1`, appealColumns)

	var row appealRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appeal not found")
		}
		return nil, fmt.Errorf("appeal by id: %w", err)
	}
	return row.toModel(), nil
}

// Resolve records the terminal review decision. The status guard keeps
// reviews single-shot.
func (r *AppealRepository) Resolve(ctx context.Context, appeal *models.Appeal) (*models.Appeal, error) {
	appeal.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`UPDATE appeals SET
status = $1, reviewed_by = $2, reviewed_at = $3, review_notes = $4, disposition = $5, updated_at = $6
WHERE id = $7 AND status = $8
RETURNING %s`, appealColumns)

	var row appealRow
	err := r.db.GetContext(ctx, &row, query,
		appeal.Status, appeal.ReviewedBy, appeal.ReviewedAt, appeal.ReviewNotes, appeal.Disposition,
		appeal.UpdatedAt, appeal.ID, models.AppealPending,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAppealFinalized
		}
		return nil, fmt.Errorf("resolve appeal: %w", err)
	}
	return row.toModel(), nil
}

// List returns appeals matching the filter with a total count.
func (r *AppealRepository) List(ctx context.Context, filter models.AppealFilter) ([]models.Appeal, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM appeals WHERE %s
ORDER BY created_at DESC
LIMIT %d OFFSET %d`, appealColumns, whereClause, size, offset)

	var rows []appealRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appeals: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM appeals WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appeals: %w", err)
	}

	appeals := make([]models.Appeal, 0, len(rows))
	for i := range rows {
		appeals = append(appeals, *rows[i].toModel())
	}
	return appeals, total, nil
}
