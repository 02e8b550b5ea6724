package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func squareRing(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}
}

func TestFromGeometryNormalizesOrientation(t *testing.T) {
	// Shell supplied clockwise, hole counter-clockwise: both must be flipped.
	shell := squareRing(35.0, 31.0, 35.2, 31.2)
	shell.Reverse()
	hole := squareRing(35.05, 31.05, 35.1, 31.1)

	shape, err := FromGeometry(orb.Polygon{shell, hole})
	require.NoError(t, err)

	poly := shape.Geometry().(orb.Polygon)
	require.Equal(t, orb.CCW, poly[0].Orientation())
	require.Equal(t, orb.CW, poly[1].Orientation())
}

func TestFromGeometryRejectsDegenerate(t *testing.T) {
	// Collapsed ring: all points collinear, zero area.
	flat := orb.Ring{{35, 31}, {35.1, 31}, {35.2, 31}, {35, 31}}
	_, err := FromGeometry(orb.Polygon{flat})
	require.Error(t, err)

	_, err = FromGeometry(orb.LineString{{35, 31}, {35.1, 31.1}})
	require.Error(t, err)
}

func TestFromGeometryDropsDegenerateHoleOnly(t *testing.T) {
	shell := squareRing(35.0, 31.0, 35.2, 31.2)
	flatHole := orb.Ring{{35.05, 31.05}, {35.06, 31.05}, {35.05, 31.05}}

	shape, err := FromGeometry(orb.Polygon{shell, flatHole})
	require.NoError(t, err)
	require.Len(t, shape.Geometry().(orb.Polygon), 1)
}

func TestContains(t *testing.T) {
	shell := squareRing(35.0, 31.0, 35.2, 31.2)
	hole := squareRing(35.05, 31.05, 35.1, 31.1)
	shape, err := FromGeometry(orb.Polygon{shell, hole})
	require.NoError(t, err)

	require.True(t, shape.Contains(31.01, 35.01), "inside shell")
	require.False(t, shape.Contains(31.07, 35.07), "inside hole")
	require.False(t, shape.Contains(31.5, 35.5), "outside shell")
	// Boundary points are inside.
	require.True(t, shape.Contains(31.0, 35.1))
}

func TestInBound(t *testing.T) {
	shape, err := FromGeometry(orb.Polygon{squareRing(35.0, 31.0, 35.2, 31.2)})
	require.NoError(t, err)

	require.True(t, shape.InBound(31.1, 35.1))
	require.False(t, shape.InBound(32.0, 35.1))
}

func TestMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		{squareRing(35.0, 31.0, 35.1, 31.1)},
		{squareRing(35.3, 31.3, 35.4, 31.4)},
	}
	shape, err := FromGeometry(mp)
	require.NoError(t, err)

	require.True(t, shape.Contains(31.05, 35.05))
	require.True(t, shape.Contains(31.35, 35.35))
	require.False(t, shape.Contains(31.2, 35.2))
}

func TestHaversine(t *testing.T) {
	// Amman city centre to a point ~1.1km east.
	d := Haversine(31.9539, 35.9106, 31.9539, 35.9222)
	require.InDelta(t, 1096, d, 15)

	require.Zero(t, Haversine(31.9539, 35.9106, 31.9539, 35.9106))
}

func TestInBox(t *testing.T) {
	require.True(t, InBox(31.0, 35.0, 29.5, 33.5, 34.0, 36.0))
	require.True(t, InBox(29.5, 34.0, 29.5, 33.5, 34.0, 36.0), "inclusive edges")
	require.False(t, InBox(28.0, 35.0, 29.5, 33.5, 34.0, 36.0))
	require.False(t, InBox(31.0, 37.0, 29.5, 33.5, 34.0, 36.0))
}
