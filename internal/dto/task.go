package dto

import "time"

// TaskCompletionRequest is a worker's completion submission with the GPS
// reading taken at the work site.
type TaskCompletionRequest struct {
	Lat      float64  `json:"lat" validate:"min=-90,max=90"`
	Lon      float64  `json:"lon" validate:"min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Notes    string   `json:"notes,omitempty" validate:"max=1000"`
}

// TaskProgressRequest updates completion percentage. 100 triggers the
// completion verification path and requires coordinates.
type TaskProgressRequest struct {
	Progress int      `json:"progress" validate:"min=0,max=100"`
	Lat      *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon      *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	Accuracy *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Notes    string   `json:"notes,omitempty" validate:"max=1000"`
}

// TaskExtensionRequest moves the deadline. Strikes are untouched.
type TaskExtensionRequest struct {
	Deadline time.Time `json:"deadline" validate:"required"`
	Notes    string    `json:"notes,omitempty" validate:"max=500"`
}
