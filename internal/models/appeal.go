package models

import "time"

// AppealEntityType tags the entity an appeal refers to.
type AppealEntityType string

const (
	AppealEntityTask       AppealEntityType = "TaskRejection"
	AppealEntityAttendance AppealEntityType = "AttendanceFailure"
)

// Valid reports whether the entity type is supported.
func (t AppealEntityType) Valid() bool {
	return t == AppealEntityTask || t == AppealEntityAttendance
}

// AppealStatus is the review state. Reviews are terminal.
type AppealStatus string

const (
	AppealPending  AppealStatus = "Pending"
	AppealApproved AppealStatus = "Approved"
	AppealRejected AppealStatus = "Rejected"
)

// EntityRef is a tagged reference to the appealed entity. Exactly one kind
// of entity per appeal; at most one open appeal per reference.
type EntityRef struct {
	Type AppealEntityType `db:"entity_type" json:"entity_type"`
	ID   string           `db:"entity_id" json:"entity_id"`
}

// Appeal is a worker's request to overturn an automated decision.
type Appeal struct {
	ID     string       `db:"id" json:"id"`
	UserID string       `db:"user_id" json:"user_id"`
	Entity EntityRef    `json:"entity"`
	Reason string       `db:"reason" json:"reason"`
	Status AppealStatus `db:"status" json:"status"`

	ReviewedBy  *string    `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes *string    `db:"review_notes" json:"review_notes,omitempty"`

	// For approved TaskRejection appeals: the status the task was
	// reinstated to (Completed or Pending).
	Disposition *TaskStatus `db:"disposition" json:"disposition,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AppealFilter scopes appeal listings.
type AppealFilter struct {
	UserID   string
	Status   *AppealStatus
	Page     int
	PageSize int
}
