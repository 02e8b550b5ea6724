package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var attendanceCols = []string{
	"id", "user_id", "status", "check_in_date", "check_in_at", "check_out_at",
	"check_in_lat", "check_in_lon", "check_in_accuracy", "check_out_lat", "check_out_lon",
	"zone_id", "zone_name", "type", "late_minutes", "early_leave_minutes", "overtime_minutes",
	"is_manual_entry", "manual_reason", "approval_status", "approved_by", "approved_at",
	"rejection_reason", "created_at", "updated_at",
}

func attendanceRow(id, userID string, now time.Time) []driverValue {
	return []driverValue{
		id, userID, string(models.AttendanceCheckedIn), now, now, nil,
		31.95, 35.91, nil, nil, nil,
		nil, nil, string(models.AttendanceOnTime), 0, 0, 0,
		false, nil, nil, nil, nil,
		nil, now, now,
	}
}

type driverValue = driver.Value

func TestAttendanceInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(attendanceCols).AddRow(attendanceRow("att-1", "u1", now)...)
	mock.ExpectQuery("INSERT INTO attendance").WillReturnRows(rows)

	stored, err := repo.Insert(context.Background(), &models.Attendance{
		UserID:      "u1",
		Status:      models.AttendanceCheckedIn,
		CheckInDate: now,
		CheckInAt:   now,
		CheckInLat:  31.95,
		CheckInLon:  35.91,
		Type:        models.AttendanceOnTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "att-1", stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceInsertDuplicateDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("INSERT INTO attendance").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_attendance_active_day"})

	_, err := repo.Insert(context.Background(), &models.Attendance{
		UserID:      "u1",
		Status:      models.AttendanceCheckedIn,
		CheckInDate: time.Now(),
		CheckInAt:   time.Now(),
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyCheckedIn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceActiveSessionMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM attendance").
		WillReturnRows(sqlmock.NewRows(attendanceCols))

	_, err := repo.ActiveSession(context.Background(), "u1", time.Now())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotCheckedIn))
}

func TestAttendanceCloseSessionAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	// Status guard filters the row out: second checkout finds nothing.
	mock.ExpectQuery("UPDATE attendance SET").
		WillReturnRows(sqlmock.NewRows(attendanceCols))

	out := time.Now()
	_, err := repo.CloseSession(context.Background(), &models.Attendance{
		ID:         "att-1",
		CheckOutAt: &out,
		Type:       models.AttendanceOnTime,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotCheckedIn))
}

func TestAttendanceResolveManualNotPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("UPDATE attendance SET").
		WillReturnRows(sqlmock.NewRows(attendanceCols))

	_, err := repo.ResolveManual(context.Background(), "att-1", "sup-1", true, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestAttendanceList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(attendanceCols).AddRow(attendanceRow("att-1", "u1", now)...)
	mock.ExpectQuery("SELECT (.+) FROM attendance WHERE").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.AttendanceFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListFiltersLeaveStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM attendance WHERE").
		WithArgs("u1", string(models.AttendanceOnLeave)).
		WillReturnRows(sqlmock.NewRows(attendanceCols))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1", string(models.AttendanceOnLeave)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	status := models.AttendanceOnLeave
	_, total, err := repo.List(context.Background(), models.AttendanceFilter{UserID: "u1", Status: &status})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
