package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
	"github.com/baladia/fieldops-api/pkg/geo"
)

// TaskRepository persists tasks.
type TaskRepository interface {
	ByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
}

// TaskUserRepository mutates worker warning counters.
type TaskUserRepository interface {
	ByID(ctx context.Context, id string) (*models.User, error)
	AddWarning(ctx context.Context, userID, reason string) error
	ReduceWarnings(ctx context.Context, userID string, n int) error
}

// TaskService enforces the two-strike completion integrity policy and the
// supervisor controls around it.
type TaskService struct {
	tasks    TaskRepository
	users    TaskUserRepository
	notifier EventPublisher
	metrics  *MetricsService
	cfg      config.TaskConfig
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewTaskService constructs the service.
func NewTaskService(
	tasks TaskRepository,
	users TaskUserRepository,
	notifier EventPublisher,
	metrics *MetricsService,
	cfg config.TaskConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *TaskService {
	if cfg.StrikeLimit <= 0 {
		cfg.StrikeLimit = 2
	}
	if cfg.DefaultMaxDistanceMeters <= 0 {
		cfg.DefaultMaxDistanceMeters = 100
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
		validate: validate,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Complete runs the distance verification for one completion submission.
// Within range completes the task and clears strikes. The first failure is
// a warning, the second auto-rejects; anything after that is terminal and
// must go through an appeal.
func (s *TaskService) Complete(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskCompletionRequest) (*models.TaskCompletionResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion request")
	}
	if req.Lat == 0 && req.Lon == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "coordinates are required")
	}

	task, err := s.tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignedTo != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "task is assigned to another worker")
	}

	switch task.Status {
	case models.TaskCompleted:
		return nil, appErrors.Clone(appErrors.ErrConflict, "task is already completed")
	case models.TaskCancelled:
		return nil, appErrors.Clone(appErrors.ErrConflict, "task is cancelled")
	case models.TaskRejected:
		return nil, appErrors.ErrPolicyTerminal
	}

	now := s.now()
	maxDistance := s.cfg.DefaultMaxDistanceMeters
	if task.MaxDistanceMeters != nil {
		maxDistance = *task.MaxDistanceMeters
	}
	distance := geo.Haversine(req.Lat, req.Lon, task.TargetLat, task.TargetLon)

	var outcome models.TaskCompletionOutcome
	if distance <= maxDistance {
		outcome = models.CompletionAccepted
		task.Status = models.TaskCompleted
		task.Progress = 100
		task.CompletedAt = &now
		task.CompletionLat = &req.Lat
		task.CompletionLon = &req.Lon
		task.CompletionDistanceMeters = &distance
		if req.Notes != "" {
			notes := req.Notes
			task.CompletionNotes = &notes
		}
		task.FailedCompletionAttempts = 0
		task.IsDistanceWarning = false
	} else {
		task.FailedCompletionAttempts++
		task.LastRejectionLat = &req.Lat
		task.LastRejectionLon = &req.Lon
		task.LastRejectionDistance = &distance
		task.LastRejectionAt = &now

		if task.FailedCompletionAttempts >= s.cfg.StrikeLimit {
			outcome = models.CompletionAutoRejected
			task.Status = models.TaskRejected
			task.IsAutoRejected = true
		} else {
			outcome = models.CompletionWarning
			task.IsDistanceWarning = true
		}
	}

	stored, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case models.CompletionWarning:
		reason := fmt.Sprintf("completion submitted %.0fm from the task site (limit %.0fm)", distance, maxDistance)
		if err := s.users.AddWarning(ctx, stored.AssignedTo, reason); err != nil {
			s.logger.Warn("recording worker warning failed",
				zap.String("task_id", stored.ID), zap.Error(err))
		}
		s.notifier.Publish(ctx, models.NotificationEvent{
			Kind:           models.NotifyDistanceWarning,
			UserID:         stored.AssignedTo,
			EntityID:       stored.ID,
			Reason:         reason,
			DistanceMeters: &distance,
		})
	case models.CompletionAutoRejected:
		s.notifier.Publish(ctx, models.NotificationEvent{
			Kind:           models.NotifyTaskAutoRejected,
			UserID:         stored.AssignedTo,
			EntityID:       stored.ID,
			Reason:         "second distance failure",
			DistanceMeters: &distance,
		})
	}
	if s.metrics != nil {
		s.metrics.RecordCompletionOutcome(outcome)
	}

	return &models.TaskCompletionResult{
		Outcome:           outcome,
		DistanceMeters:    distance,
		MaxDistanceMeters: maxDistance,
		AttemptsUsed:      stored.FailedCompletionAttempts,
		Task:              stored,
	}, nil
}

// Progress updates the completion percentage. Reaching 100 routes through
// the completion verification path and therefore needs coordinates.
func (s *TaskService) Progress(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskProgressRequest) (*models.Task, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress request")
	}

	if req.Progress == 100 {
		if req.Lat == nil || req.Lon == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "coordinates are required to finish a task")
		}
		result, err := s.Complete(ctx, claims, taskID, dto.TaskCompletionRequest{
			Lat: *req.Lat, Lon: *req.Lon, Accuracy: req.Accuracy, Notes: req.Notes,
		})
		if err != nil {
			return nil, err
		}
		return result.Task, nil
	}

	task, err := s.tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignedTo != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "task is assigned to another worker")
	}
	if task.Status != models.TaskPending && task.Status != models.TaskInProgress {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("task is %s", task.Status))
	}

	// Intermediate updates carrying a GPS reading are distance-gated like
	// completions, but a failure here never counts as a strike.
	if req.Lat != nil && req.Lon != nil {
		maxDistance := s.cfg.DefaultMaxDistanceMeters
		if task.MaxDistanceMeters != nil {
			maxDistance = *task.MaxDistanceMeters
		}
		distance := geo.Haversine(*req.Lat, *req.Lon, task.TargetLat, task.TargetLon)
		if distance > maxDistance {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("progress update submitted %.0fm from the task site (limit %.0fm)", distance, maxDistance))
		}
	}

	if task.Status == models.TaskPending {
		task.Status = models.TaskInProgress
	}
	task.Progress = req.Progress
	if req.Notes != "" {
		notes := req.Notes
		task.ProgressNotes = &notes
	}

	return s.tasks.Update(ctx, task)
}

// Extend records a supervisor deadline extension alongside the original
// deadline. Strike counters are deliberately untouched.
func (s *TaskService) Extend(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskExtensionRequest) (*models.Task, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid extension request")
	}

	task, err := s.tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskCompleted || task.Status == models.TaskCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("task is %s", task.Status))
	}

	deadline := req.Deadline
	task.ExtendedDeadline = &deadline
	task.ExtendedBy = &claims.UserID
	if req.Notes != "" {
		notes := req.Notes
		task.ExtensionNotes = &notes
	}

	return s.tasks.Update(ctx, task)
}

// Reset reopens a rejected task with a clean slate: strikes cleared, flags
// dropped, status back to InProgress.
func (s *TaskService) Reset(ctx context.Context, claims *models.JWTClaims, taskID string) (*models.Task, error) {
	task, err := s.tasks.ByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskRejected {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only rejected tasks can be reset")
	}

	task.Status = models.TaskInProgress
	task.FailedCompletionAttempts = 0
	task.IsDistanceWarning = false
	task.IsAutoRejected = false

	stored, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, models.NotificationEvent{
		Kind:     models.NotifyTaskReinstated,
		UserID:   stored.AssignedTo,
		EntityID: stored.ID,
		Reason:   fmt.Sprintf("reset by %s", claims.UserID),
	})
	return stored, nil
}

// LocationWarnings lists tasks flagged by a first-strike distance failure.
func (s *TaskService) LocationWarnings(ctx context.Context, municipalityID string, page, pageSize int) ([]models.Task, *models.Pagination, error) {
	flagged := true
	rows, total, err := s.tasks.List(ctx, models.TaskFilter{
		MunicipalityID:  municipalityID,
		DistanceWarning: &flagged,
		Page:            page,
		PageSize:        pageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, paginationFor(page, pageSize, total), nil
}
