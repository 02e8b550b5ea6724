package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

const taskColumns = `id, municipality_id, zone_id, assigned_to, title, description, status,
progress, progress_notes, deadline, extended_deadline, extended_by, extension_notes,
target_lat, target_lon, max_distance_meters,
failed_completion_attempts, is_distance_warning, is_auto_rejected,
last_rejection_lat, last_rejection_lon, last_rejection_distance, last_rejection_at,
completed_at, completion_lat, completion_lon, completion_distance_meters, completion_notes,
version, created_at, updated_at`

// TaskRepository handles persistence for geofenced tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ByID fetches one task.
func (r *TaskRepository) ByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, fmt.Errorf("task by id: %w", err)
	}
	return &task, nil
}

// Update persists the full mutable task state guarded on the version the
// caller read. A zero-row update means the task changed underneath the
// caller and surfaces as a version conflict.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	readVersion := task.Version
	task.Version++
	task.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`UPDATE tasks SET
status = $1, progress = $2, progress_notes = $3, deadline = $4,
extended_deadline = $5, extended_by = $6, extension_notes = $7,
failed_completion_attempts = $8, is_distance_warning = $9, is_auto_rejected = $10,
last_rejection_lat = $11, last_rejection_lon = $12, last_rejection_distance = $13, last_rejection_at = $14,
completed_at = $15, completion_lat = $16, completion_lon = $17,
completion_distance_meters = $18, completion_notes = $19,
version = $20, updated_at = $21
WHERE id = $22 AND version = $23
RETURNING %s`, taskColumns)

	var stored models.Task
	err := r.db.GetContext(ctx, &stored, query,
		task.Status, task.Progress, task.ProgressNotes, task.Deadline,
		task.ExtendedDeadline, task.ExtendedBy, task.ExtensionNotes,
		task.FailedCompletionAttempts, task.IsDistanceWarning, task.IsAutoRejected,
		task.LastRejectionLat, task.LastRejectionLon, task.LastRejectionDistance, task.LastRejectionAt,
		task.CompletedAt, task.CompletionLat, task.CompletionLon,
		task.CompletionDistanceMeters, task.CompletionNotes,
		task.Version, task.UpdatedAt,
		task.ID, readVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrVersionConflict
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &stored, nil
}

// List returns tasks matching the filter with a total count.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.MunicipalityID != "" {
		where = append(where, fmt.Sprintf("municipality_id = $%d", len(args)+1))
		args = append(args, filter.MunicipalityID)
	}
	if filter.AssignedTo != "" {
		where = append(where, fmt.Sprintf("assigned_to = $%d", len(args)+1))
		args = append(args, filter.AssignedTo)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DistanceWarning != nil {
		where = append(where, fmt.Sprintf("is_distance_warning = $%d", len(args)+1))
		args = append(args, *filter.DistanceWarning)
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

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s
ORDER BY updated_at DESC
LIMIT %d OFFSET %d`, taskColumns, whereClause, size, offset)

	var rows []models.Task
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}
	return rows, total, nil
}
