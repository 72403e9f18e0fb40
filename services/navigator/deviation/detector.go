package deviation

import (
	"math"
	"sync"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

// DefaultThreshold applies to deviation and arrival checks given a threshold <= 0
const DefaultThreshold = 50.0

// Result of a deviation check. DistanceFromRoute is in meters.
type Result struct {
	IsDeviated        bool    `json:"isDeviated"`
	DistanceFromRoute float64 `json:"distanceFromRoute"`
}

// Arrival of a checkpoint check. DistanceToTarget is in meters.
type Arrival struct {
	IsArrived        bool    `json:"isArrived"`
	DistanceToTarget float64 `json:"distanceToTarget"`
}

// CheckRouteDeviation reports how far position is from the encoded route.
// Only a route with at least one segment can be deviated from.
func CheckRouteDeviation(position models.Coordinate, encodedPolyline string, threshold float64) Result {
	return check(position, geo.DecodePolyline(encodedPolyline), threshold)
}

// CheckArrival reports whether position is within threshold of target
func CheckArrival(position, target models.Coordinate, threshold float64) Arrival {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	d := geo.HaversineDistance(position, target)
	return Arrival{IsArrived: d <= threshold, DistanceToTarget: d}
}

// Detector checks positions against one route at a time, decoding its polyline only when the route changes
type Detector struct {
	threshold float64

	mu      sync.Mutex
	encoded string
	points  []models.Coordinate
}

// NewDetector creates a detector. threshold <= 0 uses DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Check is CheckRouteDeviation with the detector's threshold and decode cache
func (d *Detector) Check(position models.Coordinate, encodedPolyline string) Result {
	d.mu.Lock()
	if d.points == nil || d.encoded != encodedPolyline {
		d.encoded = encodedPolyline
		d.points = geo.DecodePolyline(encodedPolyline)
	}
	points := d.points
	d.mu.Unlock()

	return check(position, points, d.threshold)
}

func check(position models.Coordinate, points []models.Coordinate, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	switch len(points) {
	case 0:
		return Result{}
	case 1:
		return Result{DistanceFromRoute: geo.HaversineDistance(position, points[0])}
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		d := geo.PointToSegmentDistance(position, points[i], points[i+1])
		if d < minDistance {
			minDistance = d
		}
	}
	return Result{IsDeviated: minDistance > threshold, DistanceFromRoute: minDistance}
}
