package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

var userCols = []string{
	"id", "full_name", "role", "municipality_id", "active",
	"warning_count", "last_warning_reason", "last_warning_at",
	"work_start", "work_end", "grace_minutes", "created_at", "updated_at",
}

func TestUserByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Worker One", string(models.RoleWorker), "m1", true, 1, "distance failure", now, nil, nil, nil, now, now))

	user, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.WarningCount)
	assert.Equal(t, models.RoleWorker, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAddWarning(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddWarning(context.Background(), "u1", "completion 180m from task site")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAddWarningMissingUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddWarning(context.Background(), "ghost", "reason")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestUserReduceWarningsNoop(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	// Zero reduction never touches the database.
	require.NoError(t, repo.ReduceWarnings(context.Background(), "u1", 0))
}

func TestUserReduceWarnings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReduceWarnings(context.Background(), "u1", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
