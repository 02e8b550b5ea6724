package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

// Shared stubs for the service tests in this package.

type attendanceRepoStub struct {
	inserted   []models.Attendance
	insertErr  error
	active     *models.Attendance
	activeErr  error
	record     *models.Attendance
	recordErr  error
	closed     *models.Attendance
	resolved   *models.Attendance
	resolveErr error
	listRows   []models.Attendance
	listTotal  int
	summary    []models.AttendanceSummary
}

func (s *attendanceRepoStub) Insert(_ context.Context, rec *models.Attendance) (*models.Attendance, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	stored := *rec
	if stored.ID == "" {
		stored.ID = "att-1"
	}
	s.inserted = append(s.inserted, stored)
	return &stored, nil
}

func (s *attendanceRepoStub) ActiveSession(context.Context, string, time.Time) (*models.Attendance, error) {
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	return s.active, nil
}

func (s *attendanceRepoStub) ByID(context.Context, string) (*models.Attendance, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return s.record, nil
}

func (s *attendanceRepoStub) CloseSession(_ context.Context, rec *models.Attendance) (*models.Attendance, error) {
	stored := *rec
	stored.Status = models.AttendanceCheckedOut
	s.closed = &stored
	return &stored, nil
}

func (s *attendanceRepoStub) ResolveManual(context.Context, string, string, bool, *string) (*models.Attendance, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.resolved, nil
}

func (s *attendanceRepoStub) List(context.Context, models.AttendanceFilter) ([]models.Attendance, int, error) {
	return s.listRows, s.listTotal, nil
}

func (s *attendanceRepoStub) Summary(context.Context, time.Time, time.Time) ([]models.AttendanceSummary, error) {
	return s.summary, nil
}

type userRepoStub struct {
	user       *models.User
	err        error
	warnings   []string
	reducedBy  int
	reduceErrs error
}

func (s *userRepoStub) ByID(context.Context, string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *userRepoStub) AddWarning(_ context.Context, _ string, reason string) error {
	s.warnings = append(s.warnings, reason)
	return nil
}

func (s *userRepoStub) ReduceWarnings(_ context.Context, _ string, n int) error {
	s.reducedBy += n
	return s.reduceErrs
}

type municipalityRepoStub struct {
	municipality *models.Municipality
	err          error
}

func (s *municipalityRepoStub) ByID(context.Context, string) (*models.Municipality, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.municipality, nil
}

type locationStub struct {
	result *models.LocationResult
	err    error
}

func (s *locationStub) Validate(context.Context, string, string, models.LocationSample) (*models.LocationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type notifierRecorder struct {
	events []models.NotificationEvent
}

func (s *notifierRecorder) Publish(_ context.Context, event models.NotificationEvent) {
	s.events = append(s.events, event)
}

func (s *notifierRecorder) kinds() []models.NotificationKind {
	out := make([]models.NotificationKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

func workerUser() *models.User {
	mid := "m1"
	return &models.User{ID: "u1", FullName: "Worker One", Role: models.RoleWorker, MunicipalityID: &mid, Active: true}
}

func testSchedule() config.ScheduleConfig {
	return config.ScheduleConfig{DefaultStart: "08:00", DefaultEnd: "16:00", DefaultGraceMinutes: 15}
}

func at(clock string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", "2026-03-02 "+clock)
	return t
}

func newAttendanceService(repo *attendanceRepoStub, users *userRepoStub, loc *locationStub, notifier *notifierRecorder, clock time.Time) *AttendanceService {
	svc := NewAttendanceService(repo, users, &municipalityRepoStub{municipality: &models.Municipality{ID: "m1"}}, loc, notifier, testSchedule(), nil, nil)
	svc.now = func() time.Time { return clock }
	return svc
}

func TestCheckInOnTimeWithinGrace(t *testing.T) {
	repo := &attendanceRepoStub{}
	zoneID, zoneName := "z1", "Central"
	loc := &locationStub{result: &models.LocationResult{Allowed: true, Reason: models.LocationOKInZone, ZoneID: &zoneID, ZoneName: &zoneName}}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, loc, &notifierRecorder{}, at("08:10"))

	rec, err := svc.CheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckInRequest{Lat: 31.95, Lon: 35.91})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceOnTime, rec.Type)
	assert.Zero(t, rec.LateMinutes)
	assert.Equal(t, "z1", *rec.ZoneID)
}

func TestCheckInLateCountsFromGraceEnd(t *testing.T) {
	repo := &attendanceRepoStub{}
	loc := &locationStub{result: &models.LocationResult{Allowed: true, Reason: models.LocationOKNoZone}}
	// 08:20 against an 08:00 start with 15 minutes grace: 5 minutes late,
	// not 20.
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, loc, &notifierRecorder{}, at("08:20"))

	rec, err := svc.CheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckInRequest{Lat: 31.95, Lon: 35.91})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, rec.Type)
	assert.Equal(t, 5, rec.LateMinutes)
}

func TestCheckInRejectedOutsideZones(t *testing.T) {
	repo := &attendanceRepoStub{}
	notifier := &notifierRecorder{}
	loc := &locationStub{result: &models.LocationResult{Allowed: false, Reason: models.LocationOutsideZones}}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, loc, notifier, at("08:10"))

	_, err := svc.CheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckInRequest{Lat: 31.95, Lon: 35.91})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, string(models.LocationOutsideZones), appErr.Code)
	assert.Empty(t, repo.inserted)
	assert.Contains(t, notifier.kinds(), models.NotifyCheckInOutOfZone)
}

func TestCheckInDuplicateDaySurfacesConflict(t *testing.T) {
	repo := &attendanceRepoStub{insertErr: appErrors.ErrAlreadyCheckedIn}
	loc := &locationStub{result: &models.LocationResult{Allowed: true, Reason: models.LocationOKNoZone}}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, loc, &notifierRecorder{}, at("08:10"))

	_, err := svc.CheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckInRequest{Lat: 31.95, Lon: 35.91})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyCheckedIn))
}

func TestManualCheckInStartsPending(t *testing.T) {
	repo := &attendanceRepoStub{}
	notifier := &notifierRecorder{}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, &locationStub{}, notifier, at("08:30"))

	rec, err := svc.ManualCheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.ManualCheckInRequest{Reason: "device battery died"})
	require.NoError(t, err)
	assert.True(t, rec.IsManualEntry)
	require.NotNil(t, rec.ApprovalStatus)
	assert.Equal(t, models.ApprovalPending, *rec.ApprovalStatus)
	assert.Equal(t, models.AttendanceLate, rec.Type)
	assert.Contains(t, notifier.kinds(), models.NotifyManualAttendance)
}

func TestManualCheckInRequiresReason(t *testing.T) {
	svc := newAttendanceService(&attendanceRepoStub{}, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("08:30"))

	_, err := svc.ManualCheckIn(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.ManualCheckInRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCheckOutEarlyLeave(t *testing.T) {
	session := &models.Attendance{ID: "att-1", UserID: "u1", Status: models.AttendanceCheckedIn, Type: models.AttendanceOnTime, CheckInAt: at("08:05")}
	repo := &attendanceRepoStub{active: session}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("15:30"))

	rec, err := svc.CheckOut(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceEarlyLeave, rec.Type)
	assert.Equal(t, 30, rec.EarlyLeaveMinutes)
}

func TestCheckOutLateWinsOverOvertime(t *testing.T) {
	session := &models.Attendance{ID: "att-1", UserID: "u1", Status: models.AttendanceCheckedIn, Type: models.AttendanceLate, LateMinutes: 5}
	repo := &attendanceRepoStub{active: session}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("17:00"))

	rec, err := svc.CheckOut(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, rec.Type)
	assert.Equal(t, 60, rec.OvertimeMinutes)
}

func TestCheckOutWithoutSession(t *testing.T) {
	repo := &attendanceRepoStub{activeErr: appErrors.ErrNotCheckedIn}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("16:00"))

	_, err := svc.CheckOut(context.Background(), &models.JWTClaims{UserID: "u1"}, dto.CheckOutRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotCheckedIn))
}

func TestResolveManualRejectionNeedsReason(t *testing.T) {
	svc := newAttendanceService(&attendanceRepoStub{}, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("10:00"))

	_, err := svc.ResolveManual(context.Background(), &models.JWTClaims{UserID: "sup-1"}, "att-1", dto.ManualApprovalRequest{Approve: false})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestResolveManualApprove(t *testing.T) {
	approved := models.ApprovalApproved
	repo := &attendanceRepoStub{resolved: &models.Attendance{ID: "att-1", UserID: "u1", ApprovalStatus: &approved}}
	notifier := &notifierRecorder{}
	svc := newAttendanceService(repo, &userRepoStub{user: workerUser()}, &locationStub{}, notifier, at("10:00"))

	rec, err := svc.ResolveManual(context.Background(), &models.JWTClaims{UserID: "sup-1"}, "att-1", dto.ManualApprovalRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, *rec.ApprovalStatus)
	assert.Contains(t, notifier.kinds(), models.NotifyManualReviewed)
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := newAttendanceService(&attendanceRepoStub{}, &userRepoStub{user: workerUser()}, &locationStub{}, &notifierRecorder{}, at("10:00"))

	_, err := svc.Summary(context.Background(), dto.AttendanceReportRequest{DateFrom: at("10:00"), DateTo: at("09:00")})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
