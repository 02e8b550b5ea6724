package service

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

// AttendanceRepository persists attendance sessions.
type AttendanceRepository interface {
	Insert(ctx context.Context, rec *models.Attendance) (*models.Attendance, error)
	ActiveSession(ctx context.Context, userID string, date time.Time) (*models.Attendance, error)
	ByID(ctx context.Context, id string) (*models.Attendance, error)
	CloseSession(ctx context.Context, rec *models.Attendance) (*models.Attendance, error)
	ResolveManual(ctx context.Context, id, reviewerID string, approved bool, reason *string) (*models.Attendance, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, int, error)
	Summary(ctx context.Context, from, to time.Time) ([]models.AttendanceSummary, error)
}

// AttendanceUserRepository provides worker profiles.
type AttendanceUserRepository interface {
	ByID(ctx context.Context, id string) (*models.User, error)
}

// LocationValidator runs the GPS validation pipeline.
type LocationValidator interface {
	Validate(ctx context.Context, userID, municipalityID string, sample models.LocationSample) (*models.LocationResult, error)
}

// EventPublisher emits outbound notification events.
type EventPublisher interface {
	Publish(ctx context.Context, event models.NotificationEvent)
}

// AttendanceService drives the check-in/check-out state machine and the
// manual-entry review sub-flow.
type AttendanceService struct {
	attendance     AttendanceRepository
	users          AttendanceUserRepository
	municipalities LocationMunicipalityRepository
	location       LocationValidator
	notifier       EventPublisher
	schedule       config.ScheduleConfig
	validate       *validator.Validate
	logger         *zap.Logger
	now            func() time.Time
}

// NewAttendanceService constructs the service.
func NewAttendanceService(
	attendance AttendanceRepository,
	users AttendanceUserRepository,
	municipalities LocationMunicipalityRepository,
	location LocationValidator,
	notifier EventPublisher,
	schedule config.ScheduleConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		attendance:     attendance,
		users:          users,
		municipalities: municipalities,
		location:       location,
		notifier:       notifier,
		schedule:       schedule,
		validate:       validate,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CheckIn opens a session for the calendar day derived on the server. The
// database's partial unique index is the only duplicate guard; a violation
// surfaces as the already-checked-in conflict.
func (s *AttendanceService) CheckIn(ctx context.Context, claims *models.JWTClaims, req dto.CheckInRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in request")
	}

	user, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	municipalityID := ""
	if user.MunicipalityID != nil {
		municipalityID = *user.MunicipalityID
	}

	result, err := s.location.Validate(ctx, user.ID, municipalityID, models.LocationSample{
		Lat: req.Lat, Lon: req.Lon, Accuracy: req.Accuracy,
	})
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		if result.Reason == models.LocationOutsideZones {
			s.notifier.Publish(ctx, models.NotificationEvent{
				Kind:     models.NotifyCheckInOutOfZone,
				UserID:   user.ID,
				EntityID: user.ID,
				Reason:   string(result.Reason),
			})
		}
		return nil, locationError(result.Reason)
	}

	now := s.now()
	day := dateOf(now)

	schedule, err := s.effectiveScheduleFor(ctx, user)
	if err != nil {
		return nil, err
	}
	_, graceEnd, _, err := scheduleBounds(day, schedule)
	if err != nil {
		return nil, err
	}
	attType, lateMinutes := lateness(now, graceEnd)

	rec := &models.Attendance{
		UserID:      user.ID,
		Status:      models.AttendanceCheckedIn,
		CheckInDate: day,
		CheckInAt:   now,
		CheckInLat:  req.Lat,
		CheckInLon:  req.Lon,
		CheckInAcc:  req.Accuracy,
		ZoneID:      result.ZoneID,
		ZoneName:    result.ZoneName,
		Type:        attType,
		LateMinutes: lateMinutes,
	}
	return s.attendance.Insert(ctx, rec)
}

// ManualCheckIn opens a session without GPS verification. The entry starts
// in the Pending approval state and is routed to supervisors.
func (s *AttendanceService) ManualCheckIn(ctx context.Context, claims *models.JWTClaims, req dto.ManualCheckInRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual check-in request")
	}

	user, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day := dateOf(now)

	schedule, err := s.effectiveScheduleFor(ctx, user)
	if err != nil {
		return nil, err
	}
	_, graceEnd, _, err := scheduleBounds(day, schedule)
	if err != nil {
		return nil, err
	}
	attType, lateMinutes := lateness(now, graceEnd)

	pending := models.ApprovalPending
	reason := req.Reason
	rec := &models.Attendance{
		UserID:         user.ID,
		Status:         models.AttendanceCheckedIn,
		CheckInDate:    day,
		CheckInAt:      now,
		Type:           attType,
		LateMinutes:    lateMinutes,
		IsManualEntry:  true,
		ManualReason:   &reason,
		ApprovalStatus: &pending,
	}
	if req.Lat != nil {
		rec.CheckInLat = *req.Lat
	}
	if req.Lon != nil {
		rec.CheckInLon = *req.Lon
	}

	stored, err := s.attendance.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyManualAttendance,
		UserID:   user.ID,
		EntityID: stored.ID,
		Reason:   req.Reason,
	})
	return stored, nil
}

// CheckOut closes the day's active session. Only CheckedIn rows transition;
// a repeated checkout reports the no-active-session conflict.
func (s *AttendanceService) CheckOut(ctx context.Context, claims *models.JWTClaims, req dto.CheckOutRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-out request")
	}

	now := s.now()
	day := dateOf(now)

	session, err := s.attendance.ActiveSession(ctx, claims.UserID, day)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.effectiveScheduleFor(ctx, user)
	if err != nil {
		return nil, err
	}
	_, _, end, err := scheduleBounds(day, schedule)
	if err != nil {
		return nil, err
	}

	attType, earlyLeave, overtime := checkOutClassification(session.Type, now, end)
	session.Type = attType
	session.EarlyLeaveMinutes = earlyLeave
	session.OvertimeMinutes = overtime
	session.CheckOutAt = &now
	session.CheckOutLat = req.Lat
	session.CheckOutLon = req.Lon

	return s.attendance.CloseSession(ctx, session)
}

// Today returns the caller's latest session for the current day, if any.
func (s *AttendanceService) Today(ctx context.Context, claims *models.JWTClaims) (*models.Attendance, error) {
	day := dateOf(s.now())
	rows, _, err := s.attendance.List(ctx, models.AttendanceFilter{
		UserID:   claims.UserID,
		DateFrom: &day,
		DateTo:   &day,
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// History lists the caller's sessions.
func (s *AttendanceService) History(ctx context.Context, claims *models.JWTClaims, req dto.AttendanceHistoryRequest) ([]models.Attendance, *models.Pagination, error) {
	rows, total, err := s.attendance.List(ctx, models.AttendanceFilter{
		UserID:   claims.UserID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, paginationFor(req.Page, req.PageSize, total), nil
}

// PendingManual lists manual entries awaiting supervisor review.
func (s *AttendanceService) PendingManual(ctx context.Context, page, pageSize int) ([]models.Attendance, *models.Pagination, error) {
	pending := models.ApprovalPending
	rows, total, err := s.attendance.List(ctx, models.AttendanceFilter{
		ManualOnly:     true,
		ApprovalStatus: &pending,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, paginationFor(page, pageSize, total), nil
}

// ResolveManual records the review decision. A rejected entry keeps its
// session state; only the approval fields change.
func (s *AttendanceService) ResolveManual(ctx context.Context, claims *models.JWTClaims, id string, req dto.ManualApprovalRequest) (*models.Attendance, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval request")
	}
	if !req.Approve && req.Reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a rejection reason is required")
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	stored, err := s.attendance.ResolveManual(ctx, id, claims.UserID, req.Approve, reason)
	if err != nil {
		return nil, err
	}

	outcome := "approved"
	if !req.Approve {
		outcome = "rejected"
	}
	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyManualReviewed,
		UserID:   stored.UserID,
		EntityID: stored.ID,
		Reason:   outcome,
	})
	return stored, nil
}

// Summary aggregates per-worker attendance between two dates.
func (s *AttendanceService) Summary(ctx context.Context, req dto.AttendanceReportRequest) ([]models.AttendanceSummary, error) {
	if req.DateTo.Before(req.DateFrom) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range is inverted")
	}
	return s.attendance.Summary(ctx, req.DateFrom, req.DateTo)
}

func (s *AttendanceService) effectiveScheduleFor(ctx context.Context, user *models.User) (models.WorkSchedule, error) {
	var municipality *models.Municipality
	if user.MunicipalityID != nil {
		m, err := s.municipalities.ByID(ctx, *user.MunicipalityID)
		if err != nil {
			return models.WorkSchedule{}, err
		}
		municipality = m
	}
	return effectiveSchedule(user, municipality, s.schedule), nil
}

// locationError maps a rejecting pipeline reason onto a typed domain error
// so the reason code survives to the HTTP envelope.
func locationError(reason models.LocationReason) *appErrors.Error {
	return appErrors.New(string(reason), http.StatusUnprocessableEntity, "location validation failed")
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
