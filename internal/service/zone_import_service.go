package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
	"github.com/baladia/fieldops-api/pkg/geo"
)

// Attribute aliases seen across municipal GIS exports. Matching is
// case-sensitive first, then case-insensitive.
var (
	zoneNameAliases     = []string{"BlockName_E", "QuarterNam", "NAME", "Name"}
	zoneCodeAliases     = []string{"BlockNumbe", "Quarter_Nu", "CODE", "Code", "ID"}
	zoneDistrictAliases = []string{"Governorat", "District"}
)

// ZoneImportRepository persists imported zones transactionally.
type ZoneImportRepository interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	UpsertTx(ctx context.Context, tx *sqlx.Tx, zone *models.Zone) (*models.Zone, bool, error)
}

// ZoneImportService turns uploaded boundary files into normalized zones.
// One file is one transaction: a storage failure rolls everything back,
// while unusable features are skipped and reported.
type ZoneImportService struct {
	zones          ZoneImportRepository
	municipalities LocationMunicipalityRepository
	cache          *CacheService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewZoneImportService constructs the importer.
func NewZoneImportService(
	zones ZoneImportRepository,
	municipalities LocationMunicipalityRepository,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ZoneImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoneImportService{
		zones:          zones,
		municipalities: municipalities,
		cache:          cache,
		validate:       validate,
		logger:         logger,
	}
}

// zoneFeature is one parsed boundary candidate.
type zoneFeature struct {
	code     string
	name     string
	district string
	geometry orb.Geometry
}

// Import processes one uploaded file for a municipality.
func (s *ZoneImportService) Import(ctx context.Context, req dto.ZoneImportRequest) (*models.ZoneImportSummary, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import request")
	}
	if len(req.Payload) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import payload is empty")
	}

	// Unknown municipality fails the whole import before any parsing.
	if _, err := s.municipalities.ByID(ctx, req.MunicipalityID); err != nil {
		return nil, err
	}

	var (
		features []zoneFeature
		skipped  []string
		err      error
	)
	switch req.Format {
	case "geojson":
		features, skipped, err = parseGeoJSONFeatures(req.Payload)
	case "shapefile":
		features, skipped, err = parseShapefileFeatures(req.Payload, req.DBFPayload)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse boundary file")
	}

	summary := &models.ZoneImportSummary{
		MunicipalityID: req.MunicipalityID,
		Format:         req.Format,
		SkippedReasons: skipped,
		Skipped:        len(skipped),
	}

	tx, err := s.zones.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	for _, f := range features {
		shape, shapeErr := geo.FromGeometry(f.geometry)
		if shapeErr != nil {
			summary.Skipped++
			summary.SkippedReasons = append(summary.SkippedReasons,
				fmt.Sprintf("feature %s: %v", f.code, shapeErr))
			continue
		}

		rawGeometry, marshalErr := json.Marshal(geojson.NewGeometry(shape.Geometry()))
		if marshalErr != nil {
			return nil, fmt.Errorf("encode zone geometry %s: %w", f.code, marshalErr)
		}

		var district *string
		if f.district != "" {
			d := f.district
			district = &d
		}
		name := f.name
		if name == "" {
			name = f.code
		}

		zone := &models.Zone{
			MunicipalityID: req.MunicipalityID,
			Code:           f.code,
			Name:           name,
			District:       district,
			Geometry:       rawGeometry,
			VersionNotes:   notes,
		}

		_, inserted, upsertErr := s.zones.UpsertTx(ctx, tx, zone)
		if upsertErr != nil {
			return nil, upsertErr
		}
		if inserted {
			summary.Imported++
		} else {
			summary.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit zone import: %w", err)
	}
	committed = true

	if err := s.cache.Invalidate(ctx, zoneCacheKey(req.MunicipalityID)+"*"); err != nil {
		s.logger.Warn("zone cache invalidation failed",
			zap.String("municipality_id", req.MunicipalityID), zap.Error(err))
	}

	s.logger.Info("zone import finished",
		zap.String("municipality_id", req.MunicipalityID),
		zap.String("format", req.Format),
		zap.Int("imported", summary.Imported),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped))

	return summary, nil
}

func parseGeoJSONFeatures(payload []byte) ([]zoneFeature, []string, error) {
	fc, err := geojson.UnmarshalFeatureCollection(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("decode feature collection: %w", err)
	}

	features := make([]zoneFeature, 0, len(fc.Features))
	var skipped []string
	for i, f := range fc.Features {
		if f.Geometry == nil {
			skipped = append(skipped, fmt.Sprintf("feature #%d: empty geometry", i))
			continue
		}
		props := map[string]string{}
		for k, v := range f.Properties {
			props[k] = fmt.Sprintf("%v", v)
		}
		code := firstAlias(props, zoneCodeAliases)
		if code == "" {
			skipped = append(skipped, fmt.Sprintf("feature #%d: no zone code attribute", i))
			continue
		}
		features = append(features, zoneFeature{
			code:     code,
			name:     firstAlias(props, zoneNameAliases),
			district: firstAlias(props, zoneDistrictAliases),
			geometry: f.Geometry,
		})
	}
	return features, skipped, nil
}

func parseShapefileFeatures(shpPayload, dbfPayload []byte) ([]zoneFeature, []string, error) {
	dir, err := os.MkdirTemp("", "zone-import-*")
	if err != nil {
		return nil, nil, fmt.Errorf("stage shapefile: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, "boundaries")
	if err := os.WriteFile(base+".shp", shpPayload, 0o600); err != nil {
		return nil, nil, fmt.Errorf("stage shapefile: %w", err)
	}
	if len(dbfPayload) > 0 {
		if err := os.WriteFile(base+".dbf", dbfPayload, 0o600); err != nil {
			return nil, nil, fmt.Errorf("stage dbf: %w", err)
		}
	}

	reader, err := shp.Open(base + ".shp")
	if err != nil {
		return nil, nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	fieldNames := make([]string, 0)
	for _, field := range reader.Fields() {
		fieldNames = append(fieldNames, field.String())
	}

	var (
		features []zoneFeature
		skipped  []string
	)
	for reader.Next() {
		n, shape := reader.Shape()

		props := map[string]string{}
		for idx, name := range fieldNames {
			props[name] = strings.TrimSpace(reader.ReadAttribute(n, idx))
		}

		polygon, ok := shape.(*shp.Polygon)
		if !ok || len(polygon.Points) == 0 {
			skipped = append(skipped, fmt.Sprintf("record #%d: empty or non-polygon geometry", n))
			continue
		}
		code := firstAlias(props, zoneCodeAliases)
		if code == "" {
			skipped = append(skipped, fmt.Sprintf("record #%d: no zone code attribute", n))
			continue
		}

		features = append(features, zoneFeature{
			code:     code,
			name:     firstAlias(props, zoneNameAliases),
			district: firstAlias(props, zoneDistrictAliases),
			geometry: shpPolygonToOrb(polygon),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, nil, fmt.Errorf("read shapefile: %w", err)
	}

	return features, skipped, nil
}

// shpPolygonToOrb converts a shapefile polygon record into an orb geometry.
// Shapefiles store exterior rings clockwise; a clockwise part starts a new
// polygon and counter-clockwise parts are holes of the preceding one.
func shpPolygonToOrb(p *shp.Polygon) orb.Geometry {
	parts := make([]int, 0, len(p.Parts)+1)
	for _, idx := range p.Parts {
		parts = append(parts, int(idx))
	}
	parts = append(parts, len(p.Points))

	var mp orb.MultiPolygon
	for i := 0; i+1 < len(parts); i++ {
		ring := make(orb.Ring, 0, parts[i+1]-parts[i])
		for _, pt := range p.Points[parts[i]:parts[i+1]] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if len(ring) == 0 {
			continue
		}
		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
		} else {
			mp[len(mp)-1] = append(mp[len(mp)-1], ring)
		}
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

func firstAlias(props map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := props[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, alias := range aliases {
		for k, v := range props {
			if strings.EqualFold(k, alias) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
