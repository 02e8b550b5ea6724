package models

import "time"

// AttendanceStatus is the session lifecycle state.
type AttendanceStatus string

const (
	AttendanceCheckedIn  AttendanceStatus = "CheckedIn"
	AttendanceCheckedOut AttendanceStatus = "CheckedOut"
	AttendanceAbsent     AttendanceStatus = "Absent"
	AttendanceOnLeave    AttendanceStatus = "OnLeave"
)

// AttendanceType classifies a completed or in-flight session. Priority when
// several apply: Late > EarlyLeave > Overtime > OnTime.
type AttendanceType string

const (
	AttendanceOnTime     AttendanceType = "OnTime"
	AttendanceLate       AttendanceType = "Late"
	AttendanceEarlyLeave AttendanceType = "EarlyLeave"
	AttendanceOvertime   AttendanceType = "Overtime"
)

// ApprovalStatus tracks the manual-entry review sub-flow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// Attendance is one work session row. Uniqueness of the active session is
// enforced by a partial unique index on (user_id, check_in_date) where
// status = 'CheckedIn'.
type Attendance struct {
	ID     string           `db:"id" json:"id"`
	UserID string           `db:"user_id" json:"user_id"`
	Status AttendanceStatus `db:"status" json:"status"`

	CheckInDate  time.Time  `db:"check_in_date" json:"check_in_date"`
	CheckInAt    time.Time  `db:"check_in_at" json:"check_in_at"`
	CheckOutAt   *time.Time `db:"check_out_at" json:"check_out_at,omitempty"`
	CheckInLat   float64    `db:"check_in_lat" json:"check_in_lat"`
	CheckInLon   float64    `db:"check_in_lon" json:"check_in_lon"`
	CheckInAcc   *float64   `db:"check_in_accuracy" json:"check_in_accuracy,omitempty"`
	CheckOutLat  *float64   `db:"check_out_lat" json:"check_out_lat,omitempty"`
	CheckOutLon  *float64   `db:"check_out_lon" json:"check_out_lon,omitempty"`
	ZoneID       *string    `db:"zone_id" json:"zone_id,omitempty"`
	ZoneName     *string    `db:"zone_name" json:"zone_name,omitempty"`

	Type              AttendanceType `db:"type" json:"type"`
	LateMinutes       int            `db:"late_minutes" json:"late_minutes"`
	EarlyLeaveMinutes int            `db:"early_leave_minutes" json:"early_leave_minutes"`
	OvertimeMinutes   int            `db:"overtime_minutes" json:"overtime_minutes"`

	IsManualEntry   bool            `db:"is_manual_entry" json:"is_manual_entry"`
	ManualReason    *string         `db:"manual_reason" json:"manual_reason,omitempty"`
	ApprovalStatus  *ApprovalStatus `db:"approval_status" json:"approval_status,omitempty"`
	ApprovedBy      *string         `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	RejectionReason *string         `db:"rejection_reason" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes history and pending-manual listings.
type AttendanceFilter struct {
	UserID         string
	Status         *AttendanceStatus
	ApprovalStatus *ApprovalStatus
	ManualOnly     bool
	DateFrom       *time.Time
	DateTo         *time.Time
	Page           int
	PageSize       int
}

// AttendanceSummary aggregates a worker's sessions for reporting.
type AttendanceSummary struct {
	UserID       string `db:"user_id" json:"user_id"`
	FullName     string `db:"full_name" json:"full_name"`
	Days         int    `db:"days" json:"days"`
	LateDays     int    `db:"late_days" json:"late_days"`
	ManualDays   int    `db:"manual_days" json:"manual_days"`
	LateMinutes  int    `db:"late_minutes" json:"late_minutes"`
	TotalMinutes int    `db:"total_minutes" json:"total_minutes"`
}
