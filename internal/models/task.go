package models

import "time"

// TaskStatus is the task lifecycle state.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "InProgress"
	TaskCompleted  TaskStatus = "Completed"
	TaskRejected   TaskStatus = "Rejected"
	TaskCancelled  TaskStatus = "Cancelled"
)

// Task is a geofenced work item. Writes are guarded by the version column
// (optimistic concurrency); completion submissions go through the two-strike
// distance policy.
type Task struct {
	ID             string     `db:"id" json:"id"`
	MunicipalityID string     `db:"municipality_id" json:"municipality_id"`
	ZoneID         *string    `db:"zone_id" json:"zone_id,omitempty"`
	AssignedTo     string     `db:"assigned_to" json:"assigned_to"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Status         TaskStatus `db:"status" json:"status"`
	Progress       int        `db:"progress" json:"progress"`
	ProgressNotes  *string    `db:"progress_notes" json:"progress_notes,omitempty"`
	Deadline       *time.Time `db:"deadline" json:"deadline,omitempty"`

	// Supervisor deadline extension, kept apart from the original deadline.
	ExtendedDeadline *time.Time `db:"extended_deadline" json:"extended_deadline,omitempty"`
	ExtendedBy       *string    `db:"extended_by" json:"extended_by,omitempty"`
	ExtensionNotes   *string    `db:"extension_notes" json:"extension_notes,omitempty"`

	TargetLat         float64  `db:"target_lat" json:"target_lat"`
	TargetLon         float64  `db:"target_lon" json:"target_lon"`
	MaxDistanceMeters *float64 `db:"max_distance_meters" json:"max_distance_meters,omitempty"`

	FailedCompletionAttempts int  `db:"failed_completion_attempts" json:"failed_completion_attempts"`
	IsDistanceWarning        bool `db:"is_distance_warning" json:"is_distance_warning"`
	IsAutoRejected           bool `db:"is_auto_rejected" json:"is_auto_rejected"`

	// Snapshot of the last failed completion submission.
	LastRejectionLat      *float64   `db:"last_rejection_lat" json:"last_rejection_lat,omitempty"`
	LastRejectionLon      *float64   `db:"last_rejection_lon" json:"last_rejection_lon,omitempty"`
	LastRejectionDistance *float64   `db:"last_rejection_distance" json:"last_rejection_distance,omitempty"`
	LastRejectionAt       *time.Time `db:"last_rejection_at" json:"last_rejection_at,omitempty"`

	CompletedAt              *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CompletionLat            *float64   `db:"completion_lat" json:"completion_lat,omitempty"`
	CompletionLon            *float64   `db:"completion_lon" json:"completion_lon,omitempty"`
	CompletionDistanceMeters *float64   `db:"completion_distance_meters" json:"completion_distance_meters,omitempty"`
	CompletionNotes          *string    `db:"completion_notes" json:"completion_notes,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TaskFilter scopes task listings.
type TaskFilter struct {
	MunicipalityID  string
	AssignedTo      string
	Status          *TaskStatus
	DistanceWarning *bool
	Page            int
	PageSize        int
}

// TaskCompletionOutcome describes the result of a completion submission.
type TaskCompletionOutcome string

const (
	CompletionAccepted     TaskCompletionOutcome = "Accepted"
	CompletionWarning      TaskCompletionOutcome = "Warning"
	CompletionAutoRejected TaskCompletionOutcome = "AutoRejected"
)

// TaskCompletionResult is returned to the worker after a submission.
type TaskCompletionResult struct {
	Outcome           TaskCompletionOutcome `json:"outcome"`
	DistanceMeters    float64               `json:"distance_meters"`
	MaxDistanceMeters float64               `json:"max_distance_meters"`
	AttemptsUsed      int                   `json:"attempts_used"`
	Task              *Task                 `json:"task"`
}
