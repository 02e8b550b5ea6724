package models

// LocationReason is the stable reason code for a validation outcome.
type LocationReason string

const (
	LocationOKInZone        LocationReason = "OK_IN_ZONE"
	LocationOKNoZone        LocationReason = "OK_NO_ZONE_DEFINED"
	LocationBypassed        LocationReason = "GEOFENCING_DISABLED"
	LocationCoordsInvalid   LocationReason = "COORDS_OUT_OF_RANGE"
	LocationAccuracyTooLow  LocationReason = "ACCURACY_EXCEEDED"
	LocationOutsideBounds   LocationReason = "OUTSIDE_MUNICIPALITY_BOUNDS"
	LocationOutsideZones    LocationReason = "OUTSIDE_ASSIGNED_ZONES"
)

// LocationSample is a GPS reading submitted by a client.
type LocationSample struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// LocationResult is the outcome of the validation pipeline. Allowed with
// OK_NO_ZONE_DEFINED means the point is inside municipality bounds but no
// drawn zone contains it.
type LocationResult struct {
	Allowed  bool           `json:"allowed"`
	Reason   LocationReason `json:"reason"`
	ZoneID   *string        `json:"zone_id,omitempty"`
	ZoneName *string        `json:"zone_name,omitempty"`
}
