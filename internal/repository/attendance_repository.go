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

const pqUniqueViolation = "23505"

// attendanceColumns is the full column list selected for attendance rows.
const attendanceColumns = `id, user_id, status, check_in_date, check_in_at, check_out_at,
check_in_lat, check_in_lon, check_in_accuracy, check_out_lat, check_out_lon,
zone_id, zone_name, type, late_minutes, early_leave_minutes, overtime_minutes,
is_manual_entry, manual_reason, approval_status, approved_by, approved_at,
rejection_reason, created_at, updated_at`

// AttendanceRepository handles persistence for attendance sessions.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Insert creates a new session row. The partial unique index
// uq_attendance_active_day (user_id, check_in_date) WHERE status='CheckedIn'
// is the single arbiter of "one active session per day"; a violation is
// surfaced as the already-checked-in conflict without any prior read.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *models.Attendance) (*models.Attendance, error) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO attendance (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
RETURNING %s`, attendanceColumns, attendanceColumns)

	var stored models.Attendance
	err := r.db.GetContext(ctx, &stored, query,
		rec.ID, rec.UserID, rec.Status, rec.CheckInDate, rec.CheckInAt, rec.CheckOutAt,
		rec.CheckInLat, rec.CheckInLon, rec.CheckInAcc, rec.CheckOutLat, rec.CheckOutLon,
		rec.ZoneID, rec.ZoneName, rec.Type, rec.LateMinutes, rec.EarlyLeaveMinutes, rec.OvertimeMinutes,
		rec.IsManualEntry, rec.ManualReason, rec.ApprovalStatus, rec.ApprovedBy, rec.ApprovedAt,
		rec.RejectionReason, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, appErrors.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	return &stored, nil
}

// ActiveSession returns the caller's CheckedIn session for the given date.
func (r *AttendanceRepository) ActiveSession(ctx context.Context, userID string, date time.Time) (*models.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance
WHERE user_id = $1 AND check_in_date = $2 AND status = $3`, attendanceColumns)

	var rec models.Attendance
	err := r.db.GetContext(ctx, &rec, query, userID, date, models.AttendanceCheckedIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotCheckedIn
		}
		return nil, fmt.Errorf("active attendance session: %w", err)
	}
	return &rec, nil
}

// ByID fetches one session.
func (r *AttendanceRepository) ByID(ctx context.Context, id string) (*models.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE id = $1`, attendanceColumns)

	var rec models.Attendance
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, fmt.Errorf("attendance by id: %w", err)
	}
	return &rec, nil
}

// CloseSession transitions a CheckedIn row to CheckedOut, recording the
// checkout instant, position and computed minute fields. The status guard in
// the WHERE clause keeps the operation safe under double submission.
func (r *AttendanceRepository) CloseSession(ctx context.Context, rec *models.Attendance) (*models.Attendance, error) {
	rec.UpdatedAt = time.Now().UTC()

	query := fmt.Sprintf(`UPDATE attendance SET
status = $1, check_out_at = $2, check_out_lat = $3, check_out_lon = $4,
type = $5, early_leave_minutes = $6, overtime_minutes = $7, updated_at = $8
WHERE id = $9 AND status = $10
RETURNING %s`, attendanceColumns)

	var stored models.Attendance
	err := r.db.GetContext(ctx, &stored, query,
		models.AttendanceCheckedOut, rec.CheckOutAt, rec.CheckOutLat, rec.CheckOutLon,
		rec.Type, rec.EarlyLeaveMinutes, rec.OvertimeMinutes, rec.UpdatedAt,
		rec.ID, models.AttendanceCheckedIn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotCheckedIn
		}
		return nil, fmt.Errorf("close attendance session: %w", err)
	}
	return &stored, nil
}

// ResolveManual records the supervisor decision on a pending manual entry.
// Rejection does not revert the session state.
func (r *AttendanceRepository) ResolveManual(ctx context.Context, id, reviewerID string, approved bool, reason *string) (*models.Attendance, error) {
	status := models.ApprovalApproved
	if !approved {
		status = models.ApprovalRejected
	}
	now := time.Now().UTC()

	query := fmt.Sprintf(`UPDATE attendance SET
approval_status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = $5
WHERE id = $6 AND is_manual_entry AND approval_status = $7
RETURNING %s`, attendanceColumns)

	var stored models.Attendance
	err := r.db.GetContext(ctx, &stored, query, status, reviewerID, now, reason, now, id, models.ApprovalPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "manual entry is not pending review")
		}
		return nil, fmt.Errorf("resolve manual attendance: %w", err)
	}
	return &stored, nil
}

// List returns sessions matching the filter with a total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error) {
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
	if filter.ApprovalStatus != nil {
		where = append(where, fmt.Sprintf("approval_status = $%d", len(args)+1))
		args = append(args, *filter.ApprovalStatus)
	}
	if filter.ManualOnly {
		where = append(where, "is_manual_entry")
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("check_in_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("check_in_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
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

	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE %s
ORDER BY check_in_date DESC, check_in_at DESC
LIMIT %d OFFSET %d`, attendanceColumns, whereClause, size, offset)

	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// Summary aggregates per-worker attendance between two dates for reporting.
func (r *AttendanceRepository) Summary(ctx context.Context, from, to time.Time) ([]models.AttendanceSummary, error) {
	query := `SELECT a.user_id, u.full_name,
COUNT(*) AS days,
COUNT(*) FILTER (WHERE a.type = 'Late') AS late_days,
COUNT(*) FILTER (WHERE a.is_manual_entry) AS manual_days,
COALESCE(SUM(a.late_minutes), 0) AS late_minutes,
COALESCE(SUM(EXTRACT(EPOCH FROM (a.check_out_at - a.check_in_at)) / 60), 0)::int AS total_minutes
FROM attendance a
JOIN users u ON u.id = a.user_id
WHERE a.check_in_date BETWEEN $1 AND $2
GROUP BY a.user_id, u.full_name
ORDER BY u.full_name`

	var rows []models.AttendanceSummary
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	return rows, nil
}
