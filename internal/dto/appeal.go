package dto

import "github.com/baladia/fieldops-api/internal/models"

// AppealRequest opens an appeal against a rejected task or a failed
// attendance attempt.
type AppealRequest struct {
	EntityType models.AppealEntityType `json:"entity_type" validate:"required"`
	EntityID   string                  `json:"entity_id" validate:"required,uuid4"`
	Reason     string                  `json:"reason" validate:"required,min=10,max=1000"`
}

// AppealReviewRequest resolves a pending appeal. Disposition applies to
// approved TaskRejection appeals only: Completed (default) or Pending.
type AppealReviewRequest struct {
	Approve     bool               `json:"approve"`
	Notes       string             `json:"notes,omitempty" validate:"max=1000"`
	Disposition *models.TaskStatus `json:"disposition,omitempty"`
}
