package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

// AppealRepository persists appeals.
type AppealRepository interface {
	Insert(ctx context.Context, appeal *models.Appeal) (*models.Appeal, error)
	ByID(ctx context.Context, id string) (*models.Appeal, error)
	Resolve(ctx context.Context, appeal *models.Appeal) (*models.Appeal, error)
	List(ctx context.Context, filter models.AppealFilter) ([]models.Appeal, int, error)
}

// AppealService runs the appeal workflow: submission against a rejected
// task or failed attendance, single terminal review, and reinstatement on
// approval.
type AppealService struct {
	appeals    AppealRepository
	tasks      TaskRepository
	attendance AttendanceRepository
	users      TaskUserRepository
	notifier   EventPublisher
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewAppealService constructs the service.
func NewAppealService(
	appeals AppealRepository,
	tasks TaskRepository,
	attendance AttendanceRepository,
	users TaskUserRepository,
	notifier EventPublisher,
	validate *validator.Validate,
	logger *zap.Logger,
) *AppealService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppealService{
		appeals:    appeals,
		tasks:      tasks,
		attendance: attendance,
		users:      users,
		notifier:   notifier,
		validate:   validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit opens an appeal. The referenced entity must exist, belong to the
// caller and be in an appealable state; at most one open appeal per entity
// is enforced by the database.
func (s *AppealService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.AppealRequest) (*models.Appeal, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appeal request")
	}
	if !req.EntityType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}

	switch req.EntityType {
	case models.AppealEntityTask:
		task, err := s.tasks.ByID(ctx, req.EntityID)
		if err != nil {
			return nil, err
		}
		if task.AssignedTo != claims.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "task belongs to another worker")
		}
		if task.Status != models.TaskRejected {
			return nil, appErrors.Clone(appErrors.ErrConflict, "only rejected tasks can be appealed")
		}
	case models.AppealEntityAttendance:
		rec, err := s.attendance.ByID(ctx, req.EntityID)
		if err != nil {
			return nil, err
		}
		if rec.UserID != claims.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "attendance record belongs to another worker")
		}
		if rec.ApprovalStatus == nil || *rec.ApprovalStatus != models.ApprovalRejected {
			return nil, appErrors.Clone(appErrors.ErrConflict, "only rejected attendance entries can be appealed")
		}
	}

	appeal, err := s.appeals.Insert(ctx, &models.Appeal{
		UserID: claims.UserID,
		Entity: models.EntityRef{Type: req.EntityType, ID: req.EntityID},
		Reason: req.Reason,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyAppealSubmitted,
		UserID:   claims.UserID,
		EntityID: appeal.ID,
		Reason:   string(req.EntityType),
	})
	return appeal, nil
}

// Pending lists appeals awaiting review.
func (s *AppealService) Pending(ctx context.Context, page, pageSize int) ([]models.Appeal, *models.Pagination, error) {
	pending := models.AppealPending
	rows, total, err := s.appeals.List(ctx, models.AppealFilter{
		Status:   &pending,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, paginationFor(page, pageSize, total), nil
}

// Review records the terminal decision. Approving a TaskRejection appeal
// reinstates the task to the reviewer's disposition: Completed keeps the
// strike history and refunds the worker's warnings, Pending clears the
// strikes for a fresh retry.
func (s *AppealService) Review(ctx context.Context, claims *models.JWTClaims, appealID string, req dto.AppealReviewRequest) (*models.Appeal, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review request")
	}

	appeal, err := s.appeals.ByID(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if appeal.Status != models.AppealPending {
		return nil, appErrors.ErrAppealFinalized
	}

	now := s.now()
	appeal.ReviewedBy = &claims.UserID
	appeal.ReviewedAt = &now
	if req.Notes != "" {
		notes := req.Notes
		appeal.ReviewNotes = &notes
	}

	if !req.Approve {
		appeal.Status = models.AppealRejected
		resolved, err := s.appeals.Resolve(ctx, appeal)
		if err != nil {
			return nil, err
		}
		s.publishReviewed(ctx, resolved, "rejected")
		return resolved, nil
	}

	appeal.Status = models.AppealApproved
	switch appeal.Entity.Type {
	case models.AppealEntityTask:
		disposition := models.TaskCompleted
		if req.Disposition != nil {
			disposition = *req.Disposition
		}
		if disposition != models.TaskCompleted && disposition != models.TaskPending {
			return nil, appErrors.Clone(appErrors.ErrValidation, "disposition must be Completed or Pending")
		}
		appeal.Disposition = &disposition
		if err := s.reinstateTask(ctx, appeal, disposition); err != nil {
			return nil, err
		}
	case models.AppealEntityAttendance:
		if err := s.correctAttendance(ctx, claims, appeal); err != nil {
			return nil, err
		}
	}

	resolved, err := s.appeals.Resolve(ctx, appeal)
	if err != nil {
		return nil, err
	}
	s.publishReviewed(ctx, resolved, "approved")
	return resolved, nil
}

func (s *AppealService) reinstateTask(ctx context.Context, appeal *models.Appeal, disposition models.TaskStatus) error {
	task, err := s.tasks.ByID(ctx, appeal.Entity.ID)
	if err != nil {
		return err
	}

	attempts := task.FailedCompletionAttempts
	now := s.now()

	task.Status = disposition
	task.IsAutoRejected = false
	task.IsDistanceWarning = false
	switch disposition {
	case models.TaskCompleted:
		// Attempts stay on record for reporting; the worker's warning
		// balance is refunded instead.
		task.Progress = 100
		task.CompletedAt = &now
	case models.TaskPending:
		task.FailedCompletionAttempts = 0
		task.Progress = 0
	}

	stored, err := s.tasks.Update(ctx, task)
	if err != nil {
		return err
	}

	if disposition == models.TaskCompleted && attempts > 0 {
		user, err := s.users.ByID(ctx, stored.AssignedTo)
		if err != nil {
			return err
		}
		refund := attempts
		if user.WarningCount < refund {
			refund = user.WarningCount
		}
		if err := s.users.ReduceWarnings(ctx, stored.AssignedTo, refund); err != nil {
			return err
		}
	}

	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyTaskReinstated,
		UserID:   stored.AssignedTo,
		EntityID: stored.ID,
		Reason:   string(disposition),
	})
	return nil
}

// correctAttendance writes a corrective session row for the appealed day:
// a manual entry pre-approved by the reviewing supervisor.
func (s *AppealService) correctAttendance(ctx context.Context, claims *models.JWTClaims, appeal *models.Appeal) error {
	original, err := s.attendance.ByID(ctx, appeal.Entity.ID)
	if err != nil {
		return err
	}

	now := s.now()
	approved := models.ApprovalApproved
	reason := "appeal approved"
	corrective := &models.Attendance{
		UserID:         original.UserID,
		Status:         models.AttendanceCheckedOut,
		CheckInDate:    original.CheckInDate,
		CheckInAt:      original.CheckInAt,
		CheckOutAt:     original.CheckOutAt,
		Type:           original.Type,
		LateMinutes:    original.LateMinutes,
		IsManualEntry:  true,
		ManualReason:   &reason,
		ApprovalStatus: &approved,
		ApprovedBy:     &claims.UserID,
		ApprovedAt:     &now,
	}
	if _, err := s.attendance.Insert(ctx, corrective); err != nil {
		return err
	}
	return nil
}

func (s *AppealService) publishReviewed(ctx context.Context, appeal *models.Appeal, outcome string) {
	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyAppealReviewed,
		UserID:   appeal.UserID,
		EntityID: appeal.ID,
		Reason:   outcome,
	})
}
