// README: Common geographic value objects shared across modules.
package types

import "math"

const earthRadiusKm = 6371.0

// LatLng is a resolved WGS84 coordinate. A nil *LatLng means "not resolved";
// (0,0) is a valid position and never used as a sentinel.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm is the great-circle (haversine) distance between p and q.
func (p LatLng) DistanceKm(q LatLng) float64 {
	dLat := degreesToRadians(q.Lat - p.Lat)
	dLng := degreesToRadians(q.Lng - p.Lng)
	rLat1 := degreesToRadians(p.Lat)
	rLat2 := degreesToRadians(q.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PathKm sums the legs between consecutive points, skipping nil entries.
func PathKm(points []*LatLng) float64 {
	var total float64
	var prev *LatLng
	for _, p := range points {
		if p == nil {
			continue
		}
		if prev != nil {
			total += prev.DistanceKm(*p)
		}
		prev = p
	}
	return total
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
