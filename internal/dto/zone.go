package dto

import "github.com/baladia/fieldops-api/internal/models"

// ZoneImportRequest describes one uploaded boundary file. Payload carries
// the raw file bytes (GeoJSON document or zipped shapefile member set
// handled by the importer).
type ZoneImportRequest struct {
	MunicipalityID string `json:"municipality_id" validate:"required,uuid4"`
	Format         string `json:"format" validate:"required,oneof=geojson shapefile"`
	Notes          string `json:"notes,omitempty" validate:"max=500"`
	Payload        []byte `json:"-"`
	// Shapefile imports need the companion DBF for attributes.
	DBFPayload []byte `json:"-"`
}

// ValidateLocationRequest is the diagnostic validation endpoint payload.
type ValidateLocationRequest struct {
	MunicipalityID string                `json:"municipality_id,omitempty" validate:"omitempty,uuid4"`
	UserID         string                `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	Sample         models.LocationSample `json:"sample"`
}
