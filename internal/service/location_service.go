package service

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
	"github.com/baladia/fieldops-api/pkg/geo"
)

// LocationZoneRepository provides zone data for validation.
type LocationZoneRepository interface {
	ActiveByMunicipality(ctx context.Context, municipalityID string) ([]models.Zone, error)
	AssignedZoneIDs(ctx context.Context, userID string) ([]string, error)
}

// LocationMunicipalityRepository provides municipality thresholds.
type LocationMunicipalityRepository interface {
	ByID(ctx context.Context, id string) (*models.Municipality, error)
}

// LocationService runs the ordered, short-circuiting validation pipeline:
// coordinate sanity, accuracy ceiling, bounding box, zone containment. It is
// read-only and safe for concurrent use.
type LocationService struct {
	zones          LocationZoneRepository
	municipalities LocationMunicipalityRepository
	cache          *CacheService
	metrics        *MetricsService
	cfg            config.GeofencingConfig
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewLocationService constructs the validator.
func NewLocationService(
	zones LocationZoneRepository,
	municipalities LocationMunicipalityRepository,
	cache *CacheService,
	metrics *MetricsService,
	cfg config.GeofencingConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{
		zones:          zones,
		municipalities: municipalities,
		cache:          cache,
		metrics:        metrics,
		cfg:            cfg,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// Validate runs the pipeline for one GPS sample. userID may be empty for
// diagnostic calls; municipalityID may be empty, in which case the
// configured regional box applies and zone containment is skipped.
func (s *LocationService) Validate(ctx context.Context, userID, municipalityID string, sample models.LocationSample) (*models.LocationResult, error) {
	result, err := s.validate(ctx, userID, municipalityID, sample)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordValidationOutcome(result)
	}
	return result, nil
}

func (s *LocationService) validate(ctx context.Context, userID, municipalityID string, sample models.LocationSample) (*models.LocationResult, error) {
	if s.cfg.DisableGeofencing {
		return &models.LocationResult{Allowed: true, Reason: models.LocationBypassed}, nil
	}

	// Stage 1: coordinate sanity. (0,0) is the null-island sentinel
	// emitted by clients without a fix.
	if sample.Lat < -90 || sample.Lat > 90 || sample.Lon < -180 || sample.Lon > 180 ||
		(sample.Lat == 0 && sample.Lon == 0) {
		return &models.LocationResult{Allowed: false, Reason: models.LocationCoordsInvalid}, nil
	}

	var municipality *models.Municipality
	if municipalityID != "" {
		m, err := s.municipalities.ByID(ctx, municipalityID)
		if err != nil {
			return nil, err
		}
		municipality = m
	}

	// Stage 2: accuracy ceiling.
	maxAccuracy := s.cfg.MaxAccuracyMeters
	if municipality != nil && municipality.MaxAccuracyMeters != nil {
		maxAccuracy = *municipality.MaxAccuracyMeters
	}
	if sample.Accuracy != nil && maxAccuracy > 0 && *sample.Accuracy > maxAccuracy {
		return &models.LocationResult{Allowed: false, Reason: models.LocationAccuracyTooLow}, nil
	}

	// Stage 3: bounding box. Municipality box when drawn, regional
	// sanity box otherwise.
	minLat, maxLat := s.cfg.RegionMinLat, s.cfg.RegionMaxLat
	minLon, maxLon := s.cfg.RegionMinLon, s.cfg.RegionMaxLon
	if municipality != nil && municipality.HasBoundingBox() {
		minLat, maxLat = *municipality.MinLat, *municipality.MaxLat
		minLon, maxLon = *municipality.MinLon, *municipality.MaxLon
	}
	if !geo.InBox(sample.Lat, sample.Lon, minLat, maxLat, minLon, maxLon) {
		return &models.LocationResult{Allowed: false, Reason: models.LocationOutsideBounds}, nil
	}

	if municipality == nil {
		return &models.LocationResult{Allowed: true, Reason: models.LocationOKNoZone}, nil
	}

	// Stage 4: zone containment. A known worker is checked against their
	// assigned zones only; standing in an unassigned zone is the same as
	// standing in no zone at all. Diagnostic calls without a userID check
	// every active zone.
	zones, err := s.activeZones(ctx, municipality.ID)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		// Inside bounds with no drawn zones is a legitimate state for
		// municipalities that have not imported boundaries yet.
		return &models.LocationResult{Allowed: true, Reason: models.LocationOKNoZone}, nil
	}

	candidates := zones
	if userID != "" {
		assigned, err := s.zones.AssignedZoneIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		candidates = assignedZones(zones, assigned)
		if len(candidates) == 0 {
			return &models.LocationResult{Allowed: false, Reason: models.LocationOutsideZones}, nil
		}
	}

	for i := range candidates {
		zone := &candidates[i]
		shape, err := shapeOf(zone)
		if err != nil {
			s.logger.Warn("skipping zone with bad geometry",
				zap.String("zone_id", zone.ID), zap.Error(err))
			continue
		}
		if shape.InBound(sample.Lat, sample.Lon) && shape.Contains(sample.Lat, sample.Lon) {
			return &models.LocationResult{
				Allowed:  true,
				Reason:   models.LocationOKInZone,
				ZoneID:   &zone.ID,
				ZoneName: &zone.Name,
			}, nil
		}
	}

	return &models.LocationResult{Allowed: false, Reason: models.LocationOutsideZones}, nil
}

func (s *LocationService) activeZones(ctx context.Context, municipalityID string) ([]models.Zone, error) {
	key := zoneCacheKey(municipalityID)

	var cached []models.Zone
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	zones, err := s.zones.ActiveByMunicipality(ctx, municipalityID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, zones, s.cacheTTL)
	return zones, nil
}

func zoneCacheKey(municipalityID string) string {
	return fmt.Sprintf("zones:geo:%s", municipalityID)
}

func shapeOf(zone *models.Zone) (*geo.Shape, error) {
	g, err := geojson.UnmarshalGeometry(zone.Geometry)
	if err != nil {
		return nil, fmt.Errorf("decode zone geometry: %w", err)
	}
	return geo.FromGeometry(g.Geometry())
}

// assignedZones narrows the active zone set to the worker's assignments,
// preserving the assignment order so the first listed zone wins overlaps.
func assignedZones(zones []models.Zone, assignedIDs []string) []models.Zone {
	byID := make(map[string]*models.Zone, len(zones))
	for i := range zones {
		byID[zones[i].ID] = &zones[i]
	}

	picked := make([]models.Zone, 0, len(assignedIDs))
	for _, id := range assignedIDs {
		if z, ok := byID[id]; ok {
			picked = append(picked, *z)
		}
	}
	return picked
}
