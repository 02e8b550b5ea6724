package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/jobs"
)

// EventSink delivers one notification event to a downstream channel.
type EventSink interface {
	Deliver(ctx context.Context, event models.NotificationEvent) error
}

// logSink is the default sink: it records events in the structured log.
// Real channels (push, SMS) plug in behind EventSink.
type logSink struct {
	logger *zap.Logger
}

func (s *logSink) Deliver(_ context.Context, event models.NotificationEvent) error {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("user_id", event.UserID),
		zap.String("entity_id", event.EntityID),
		zap.String("reason", event.Reason),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.DistanceMeters != nil {
		fields = append(fields, zap.Float64("distance_meters", *event.DistanceMeters))
	}
	s.logger.Info("notification_event", fields...)
	return nil
}

// NotifierService dispatches outbound notification events through the
// background job queue. The engine only emits events; it knows nothing
// about delivery channels.
type NotifierService struct {
	queue  *jobs.Queue[models.NotificationEvent]
	logger *zap.Logger
}

// NewNotifierService constructs the dispatcher with the given sink. A nil
// sink falls back to structured-log delivery.
func NewNotifierService(sink EventSink, queueCfg jobs.QueueConfig, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = &logSink{logger: logger}
	}

	handler := func(ctx context.Context, job jobs.Job[models.NotificationEvent]) error {
		return sink.Deliver(ctx, job.Payload)
	}

	queueCfg.Logger = logger
	return &NotifierService{
		queue:  jobs.NewQueue("notifications", handler, queueCfg),
		logger: logger,
	}
}

// Start launches the dispatch workers.
func (s *NotifierService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotifierService) Stop() {
	s.queue.Stop()
}

// Publish enqueues one event. Dispatch failures are retried by the queue;
// an enqueue failure is logged and dropped so business flows never block
// on notifications.
func (s *NotifierService) Publish(_ context.Context, event models.NotificationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	job := jobs.Job[models.NotificationEvent]{
		ID:      uuid.NewString(),
		Type:    string(event.Kind),
		Payload: event,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("dropping notification event",
			zap.String("kind", string(event.Kind)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}
