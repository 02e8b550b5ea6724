package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleWorker     UserRole = "WORKER"
	RoleSupervisor UserRole = "SUPERVISOR"
	RoleAdmin      UserRole = "ADMIN"
)

// User represents a field worker or supervisor stored in the users table.
// Credentials live in the external identity provider; this table carries the
// operational profile only.
type User struct {
	ID             string   `db:"id" json:"id"`
	FullName       string   `db:"full_name" json:"full_name"`
	Role           UserRole `db:"role" json:"role"`
	MunicipalityID *string  `db:"municipality_id" json:"municipality_id,omitempty"`
	Active         bool     `db:"active" json:"active"`

	// Warning counter driven by task distance failures; reduced by
	// supervisor overrides and approved appeals.
	WarningCount      int        `db:"warning_count" json:"warning_count"`
	LastWarningReason *string    `db:"last_warning_reason" json:"last_warning_reason,omitempty"`
	LastWarningAt     *time.Time `db:"last_warning_at" json:"last_warning_at,omitempty"`

	// Per-user schedule override; falls back to the municipality schedule,
	// then to configured defaults.
	WorkStart    *string `db:"work_start" json:"work_start,omitempty"`
	WorkEnd      *string `db:"work_end" json:"work_end,omitempty"`
	GraceMinutes *int    `db:"grace_minutes" json:"grace_minutes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
