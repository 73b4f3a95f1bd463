// Package geo provides the great-circle distance math used to decide whether
// a candidate offer falls inside the station's coverage zones.
package geo

import "math"

const earthRadiusKm = 6371

// Coords is a WGS84 latitude/longitude pair in degrees.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Zone is a circular coverage area around a center point.
type Zone struct {
	Center   Coords
	RadiusKm float64
}

// The two station reference points in southern Sarthe, with their broadcast
// coverage radii.
var (
	PontvallainCoords = Coords{Lat: 47.7486, Lng: 0.2139}
	LaFlecheCoords    = Coords{Lat: 47.6994, Lng: -0.0760}
)

const (
	RadiusPontvallainKm = 30
	RadiusLaFlecheKm    = 12
)

// StationZones returns the default coverage zones around the two reference
// points.
func StationZones() []Zone {
	return []Zone{
		{Center: PontvallainCoords, RadiusKm: RadiusPontvallainKm},
		{Center: LaFlecheCoords, RadiusKm: RadiusLaFlecheKm},
	}
}

// DistanceKm computes the haversine great-circle distance between two points
// in kilometers. The result is always finite and non-negative for valid
// coordinates; NaN inputs propagate and are rejected by IsWithinAnyZone.
func DistanceKm(a, b Coords) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Floating-point rounding can push h a hair past 1 for antipodal points.
	if h > 1 {
		h = 1
	}

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// IsWithinAnyZone reports whether the candidate point falls inside at least
// one of the given zones. NaN coordinates are never inside any zone.
func IsWithinAnyZone(candidate Coords, zones []Zone) bool {
	if math.IsNaN(candidate.Lat) || math.IsNaN(candidate.Lng) {
		return false
	}
	for _, z := range zones {
		if DistanceKm(candidate, z.Center) <= z.RadiusKm {
			return true
		}
	}
	return false
}
