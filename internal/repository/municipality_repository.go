package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

const municipalityColumns = `id, name, active, min_lat, max_lat, min_lon, max_lon,
max_accuracy_meters, work_start, work_end, grace_minutes, created_at, updated_at`

// MunicipalityRepository handles persistence for municipalities.
type MunicipalityRepository struct {
	db *sqlx.DB
}

// NewMunicipalityRepository constructs the repository.
func NewMunicipalityRepository(db *sqlx.DB) *MunicipalityRepository {
	return &MunicipalityRepository{db: db}
}

// ByID fetches one municipality.
func (r *MunicipalityRepository) ByID(ctx context.Context, id string) (*models.Municipality, error) {
	query := fmt.Sprintf(`SELECT %s FROM municipalities WHERE id = $1`, municipalityColumns)

	var m models.Municipality
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "municipality not found")
		}
		return nil, fmt.Errorf("municipality by id: %w", err)
	}
	return &m, nil
}
