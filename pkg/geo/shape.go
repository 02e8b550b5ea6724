package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// EarthRadiusMeters is the mean earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

// Shape is a normalized polygonal area: exterior rings counter-clockwise,
// holes clockwise, degenerate rings rejected at construction. Shapes are
// immutable after construction and safe for concurrent reads.
type Shape struct {
	polygons orb.MultiPolygon
	bound    orb.Bound
}

// FromGeometry builds a Shape from a Polygon or MultiPolygon geometry.
// Rings with fewer than four points or zero area are dropped; a geometry
// whose exterior rings are all degenerate yields an error.
func FromGeometry(g orb.Geometry) (*Shape, error) {
	var mp orb.MultiPolygon
	switch v := g.(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{v}
	case orb.MultiPolygon:
		mp = v
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", g.GeoJSONType())
	}

	normalized := make(orb.MultiPolygon, 0, len(mp))
	for _, poly := range mp {
		clean := normalizePolygon(poly)
		if clean != nil {
			normalized = append(normalized, clean)
		}
	}

	if len(normalized) == 0 {
		return nil, fmt.Errorf("geometry has no usable rings")
	}

	return &Shape{polygons: normalized, bound: normalized.Bound()}, nil
}

func normalizePolygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(poly))
	for i, ring := range poly {
		if len(ring) < 4 || planar.Area(ring) == 0 {
			if i == 0 {
				return nil
			}
			continue
		}
		r := ring.Clone()
		if i == 0 {
			if r.Orientation() == orb.CW {
				r.Reverse()
			}
		} else {
			if r.Orientation() == orb.CCW {
				r.Reverse()
			}
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Contains reports whether the point lies inside the shape. Points on a
// ring boundary count as inside.
func (s *Shape) Contains(lat, lon float64) bool {
	return planar.MultiPolygonContains(s.polygons, orb.Point{lon, lat})
}

// InBound reports whether the point lies within the shape's bounding box.
func (s *Shape) InBound(lat, lon float64) bool {
	return s.bound.Contains(orb.Point{lon, lat})
}

// Bound returns the shape's bounding box.
func (s *Shape) Bound() orb.Bound {
	return s.bound
}

// Geometry returns the normalized geometry for serialization.
func (s *Shape) Geometry() orb.Geometry {
	if len(s.polygons) == 1 {
		return s.polygons[0]
	}
	return s.polygons
}

// Centroid returns the area-weighted centroid as (lat, lon).
func (s *Shape) Centroid() (float64, float64) {
	c, _ := planar.CentroidArea(s.polygons)
	return c.Lat(), c.Lon()
}

// AreaSquareMeters returns the geodesic area of the shape.
func (s *Shape) AreaSquareMeters() float64 {
	return orbgeo.Area(s.polygons)
}

// Haversine returns the great-circle distance in meters between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return orbgeo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// InBox reports whether (lat, lon) falls inside an inclusive bounding box.
func InBox(lat, lon, minLat, maxLat, minLon, maxLon float64) bool {
	return lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon
}
