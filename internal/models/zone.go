package models

import (
	"encoding/json"
	"time"
)

// Zone is a named geofenced area inside a municipality. Geometry is stored
// as normalized GeoJSON (CCW shells, CW holes) in a jsonb column.
type Zone struct {
	ID             string  `db:"id" json:"id"`
	MunicipalityID string  `db:"municipality_id" json:"municipality_id"`
	Code           string  `db:"code" json:"code"`
	Name           string  `db:"name" json:"name"`
	District       *string `db:"district" json:"district,omitempty"`

	Geometry json.RawMessage `db:"geometry" json:"geometry"`

	Version      int       `db:"version" json:"version"`
	VersionDate  time.Time `db:"version_date" json:"version_date"`
	VersionNotes *string   `db:"version_notes" json:"version_notes,omitempty"`
	Active       bool      `db:"active" json:"active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ZoneImportSummary reports the outcome of one import file.
type ZoneImportSummary struct {
	MunicipalityID string   `json:"municipality_id"`
	Format         string   `json:"format"`
	Imported       int      `json:"imported"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	SkippedReasons []string `json:"skipped_reasons,omitempty"`
}
