package models

import "time"

// Municipality scopes zones, workers and validation thresholds. Bounding box
// and accuracy ceiling are optional; configured defaults apply when unset.
type Municipality struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`

	MinLat *float64 `db:"min_lat" json:"min_lat,omitempty"`
	MaxLat *float64 `db:"max_lat" json:"max_lat,omitempty"`
	MinLon *float64 `db:"min_lon" json:"min_lon,omitempty"`
	MaxLon *float64 `db:"max_lon" json:"max_lon,omitempty"`

	MaxAccuracyMeters *float64 `db:"max_accuracy_meters" json:"max_accuracy_meters,omitempty"`

	WorkStart    *string `db:"work_start" json:"work_start,omitempty"`
	WorkEnd      *string `db:"work_end" json:"work_end,omitempty"`
	GraceMinutes *int    `db:"grace_minutes" json:"grace_minutes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasBoundingBox reports whether all four box edges are set.
func (m *Municipality) HasBoundingBox() bool {
	return m.MinLat != nil && m.MaxLat != nil && m.MinLon != nil && m.MaxLon != nil
}

// WorkSchedule is the effective daily schedule applied to a worker.
type WorkSchedule struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	GraceMinutes int    `json:"grace_minutes"`
}
