package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

const zoneColumns = `id, municipality_id, code, name, district, geometry,
version, version_date, version_notes, active, created_at, updated_at`

// ZoneRepository handles persistence for geofenced zones.
type ZoneRepository struct {
	db *sqlx.DB
}

// NewZoneRepository constructs the repository.
func NewZoneRepository(db *sqlx.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

// UpsertTx inserts or re-imports one zone inside the caller's transaction.
// Matching is by (municipality_id, code); a re-import bumps version,
// refreshes geometry and reactivates the zone.
func (r *ZoneRepository) UpsertTx(ctx context.Context, tx *sqlx.Tx, zone *models.Zone) (*models.Zone, bool, error) {
	now := time.Now().UTC()
	if zone.ID == "" {
		zone.ID = uuid.NewString()
	}
	zone.VersionDate = now
	zone.CreatedAt = now
	zone.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO zones (%s)
VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8, TRUE, $9, $10)
ON CONFLICT (municipality_id, code)
DO UPDATE SET name = EXCLUDED.name, district = EXCLUDED.district,
geometry = EXCLUDED.geometry, version = zones.version + 1,
version_date = EXCLUDED.version_date, version_notes = EXCLUDED.version_notes,
active = TRUE, updated_at = EXCLUDED.updated_at
RETURNING %s, (xmax = 0) AS inserted`, zoneColumns, zoneColumns)

	row := struct {
		models.Zone
		Inserted bool `db:"inserted"`
	}{}
	err := tx.GetContext(ctx, &row, query,
		zone.ID, zone.MunicipalityID, zone.Code, zone.Name, zone.District, zone.Geometry,
		zone.VersionDate, zone.VersionNotes, zone.CreatedAt, zone.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert zone %s: %w", zone.Code, err)
	}
	return &row.Zone, row.Inserted, nil
}

// ActiveByMunicipality returns all active zones of one municipality.
func (r *ZoneRepository) ActiveByMunicipality(ctx context.Context, municipalityID string) ([]models.Zone, error) {
	query := fmt.Sprintf(`SELECT %s FROM zones
WHERE municipality_id = $1 AND active
ORDER BY code`, zoneColumns)

	var zones []models.Zone
	if err := r.db.SelectContext(ctx, &zones, query, municipalityID); err != nil {
		return nil, fmt.Errorf("active zones by municipality: %w", err)
	}
	return zones, nil
}

// ByID fetches one zone.
func (r *ZoneRepository) ByID(ctx context.Context, id string) (*models.Zone, error) {
	query := fmt.Sprintf(`SELECT %s FROM zones WHERE id = $1`, zoneColumns)

	var zone models.Zone
	if err := r.db.GetContext(ctx, &zone, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "zone not found")
		}
		return nil, fmt.Errorf("zone by id: %w", err)
	}
	return &zone, nil
}

// AssignedZoneIDs returns the IDs of zones assigned to a worker.
func (r *ZoneRepository) AssignedZoneIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT zone_id FROM user_zones WHERE user_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("assigned zone ids: %w", err)
	}
	return ids, nil
}

// BeginTx opens a transaction for import batches.
func (r *ZoneRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin zone import: %w", err)
	}
	return tx, nil
}
