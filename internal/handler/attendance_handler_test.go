package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/middleware"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type attendanceServiceMock struct {
	record     *models.Attendance
	err        error
	resolvedID string
}

func (m *attendanceServiceMock) CheckIn(context.Context, *models.JWTClaims, dto.CheckInRequest) (*models.Attendance, error) {
	return m.record, m.err
}

func (m *attendanceServiceMock) ManualCheckIn(context.Context, *models.JWTClaims, dto.ManualCheckInRequest) (*models.Attendance, error) {
	return m.record, m.err
}

func (m *attendanceServiceMock) CheckOut(context.Context, *models.JWTClaims, dto.CheckOutRequest) (*models.Attendance, error) {
	return m.record, m.err
}

func (m *attendanceServiceMock) Today(context.Context, *models.JWTClaims) (*models.Attendance, error) {
	return m.record, m.err
}

func (m *attendanceServiceMock) History(context.Context, *models.JWTClaims, dto.AttendanceHistoryRequest) ([]models.Attendance, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return []models.Attendance{*m.record}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *attendanceServiceMock) PendingManual(context.Context, int, int) ([]models.Attendance, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return nil, &models.Pagination{Page: 1, PageSize: 50}, nil
}

func (m *attendanceServiceMock) ResolveManual(_ context.Context, _ *models.JWTClaims, id string, _ dto.ManualApprovalRequest) (*models.Attendance, error) {
	m.resolvedID = id
	return m.record, m.err
}

func testContext(t *testing.T, method, target string, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func workerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleWorker}
}

func TestAttendanceHandlerCheckIn(t *testing.T) {
	mock := &attendanceServiceMock{record: &models.Attendance{ID: "att-1", UserID: "u1", Type: models.AttendanceOnTime}}
	h := NewAttendanceHandler(mock)

	c, w := testContext(t, http.MethodPost, "/attendance/check-in", `{"lat":31.95,"lon":35.91}`, workerClaims())
	h.CheckIn(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "att-1")
}

func TestAttendanceHandlerCheckInWithoutClaims(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := testContext(t, http.MethodPost, "/attendance/check-in", `{"lat":31.95,"lon":35.91}`, nil)
	h.CheckIn(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceHandlerCheckInBadBody(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := testContext(t, http.MethodPost, "/attendance/check-in", `{"lat":`, workerClaims())
	h.CheckIn(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerCheckInLocationRejection(t *testing.T) {
	mock := &attendanceServiceMock{err: appErrors.New("OUTSIDE_ASSIGNED_ZONES", http.StatusUnprocessableEntity, "location validation failed")}
	h := NewAttendanceHandler(mock)

	c, w := testContext(t, http.MethodPost, "/attendance/check-in", `{"lat":31.95,"lon":35.91}`, workerClaims())
	h.CheckIn(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "OUTSIDE_ASSIGNED_ZONES")
}

func TestAttendanceHandlerHistoryInvalidDate(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{record: &models.Attendance{}})

	c, w := testContext(t, http.MethodGet, "/attendance/history?dateFrom=bad-date", "", workerClaims())
	h.History(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerResolveManualPassesID(t *testing.T) {
	mock := &attendanceServiceMock{record: &models.Attendance{ID: "att-7"}}
	h := NewAttendanceHandler(mock)

	c, w := testContext(t, http.MethodPost, "/attendance/manual/att-7/resolve", `{"approve":true}`, &models.JWTClaims{UserID: "sup-1", Role: models.RoleSupervisor})
	c.Params = gin.Params{{Key: "id", Value: "att-7"}}
	h.ResolveManual(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "att-7", mock.resolvedID)
}
