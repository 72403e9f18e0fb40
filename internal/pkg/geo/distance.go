package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

// EarthRadiusMeters is the mean earth radius used by every distance calculation
const EarthRadiusMeters = 6371000.0

// GeohashPrecision is the cell size stamped on driver records (roughly 150m)
const GeohashPrecision = 7

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineDistance returns the great-circle distance between two points in meters
func HaversineDistance(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// PointToSegmentDistance returns the distance in meters from p to the closest point of the segment start-end.
// The projection is computed in plain degree space and clamped to the segment; the final distance is haversine
// and never exceeds the distance to the nearer endpoint.
func PointToSegmentDistance(p, start, end models.Coordinate) float64 {
	dx := end.Longitude - start.Longitude
	dy := end.Latitude - start.Latitude

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return HaversineDistance(p, start)
	}

	t := ((p.Longitude-start.Longitude)*dx + (p.Latitude-start.Latitude)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	projection := models.Coordinate{
		Latitude:  start.Latitude + t*dy,
		Longitude: start.Longitude + t*dx,
	}
	d := HaversineDistance(p, projection)
	return math.Min(d, math.Min(HaversineDistance(p, start), HaversineDistance(p, end)))
}

// Geohash encodes the coordinate at GeohashPrecision
func Geohash(c models.Coordinate) string {
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, GeohashPrecision)
}
