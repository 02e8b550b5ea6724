package models

import "time"

// NotificationKind identifies the outbound event type. The engine emits
// events; delivery channels are a downstream concern.
type NotificationKind string

const (
	NotifyDistanceWarning   NotificationKind = "DistanceWarning"
	NotifyTaskAutoRejected  NotificationKind = "TaskAutoRejected"
	NotifyTaskReinstated    NotificationKind = "TaskReinstated"
	NotifyManualAttendance  NotificationKind = "ManualAttendanceSubmitted"
	NotifyManualReviewed    NotificationKind = "ManualAttendanceReviewed"
	NotifyAppealSubmitted   NotificationKind = "AppealSubmitted"
	NotifyAppealReviewed    NotificationKind = "AppealReviewed"
	NotifyCheckInOutOfZone  NotificationKind = "CheckInOutsideZones"
)

// NotificationEvent is the payload handed to the dispatcher.
type NotificationEvent struct {
	Kind           NotificationKind `json:"kind"`
	UserID         string           `json:"user_id"`
	EntityID       string           `json:"entity_id"`
	Reason         string           `json:"reason"`
	DistanceMeters *float64         `json:"distance_meters,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}
