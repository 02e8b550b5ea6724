package dto

import "time"

// CheckInRequest is the GPS check-in payload.
type CheckInRequest struct {
	Lat      float64  `json:"lat" validate:"min=-90,max=90"`
	Lon      float64  `json:"lon" validate:"min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

// ManualCheckInRequest is the manual-entry payload; a reason is mandatory.
type ManualCheckInRequest struct {
	Reason string   `json:"reason" validate:"required,min=5,max=500"`
	Lat    *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon    *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
}

// CheckOutRequest closes the active session.
type CheckOutRequest struct {
	Lat *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
}

// ManualApprovalRequest resolves a pending manual entry.
type ManualApprovalRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty" validate:"max=500"`
}

// AttendanceHistoryRequest filters the caller's session history.
type AttendanceHistoryRequest struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// AttendanceReportRequest scopes the PDF summary report.
type AttendanceReportRequest struct {
	DateFrom time.Time
	DateTo   time.Time
}
