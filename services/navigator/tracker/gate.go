package tracker

import (
	"time"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

// DefaultSendThreshold is the distance in meters a driver must move before a new fix is transmitted
const DefaultSendThreshold = 200.0

// Speed bands in meters per second
const (
	fastSpeed   = 5.56 // ~20 km/h
	mediumSpeed = 1.39 // ~5 km/h
)

const (
	AccuracyHigh     = "high"
	AccuracyBalanced = "balanced"
)

// LocationConfig is how often the device should sample GPS at a given speed
type LocationConfig struct {
	Accuracy         string        `json:"accuracy"`
	TimeInterval     time.Duration `json:"timeInterval"`
	DistanceInterval float64       `json:"distanceInterval"` // meters
}

var (
	configDefault = LocationConfig{Accuracy: AccuracyBalanced, TimeInterval: 5 * time.Second, DistanceInterval: 10}
	configFast    = LocationConfig{Accuracy: AccuracyHigh, TimeInterval: 2 * time.Second, DistanceInterval: 20}
	configMedium  = LocationConfig{Accuracy: AccuracyBalanced, TimeInterval: 5 * time.Second, DistanceInterval: 10}
	configSlow    = LocationConfig{Accuracy: AccuracyBalanced, TimeInterval: 10 * time.Second, DistanceInterval: 5}
)

// ShouldSendLocationUpdate reports whether current is far enough from the last transmitted position.
// The first fix is always sent.
func ShouldSendLocationUpdate(lastSent *models.Coordinate, current models.Coordinate, threshold float64) bool {
	if lastSent == nil {
		return true
	}
	if threshold <= 0 {
		threshold = DefaultSendThreshold
	}
	return geo.HaversineDistance(*lastSent, current) >= threshold
}

// LocationConfigFor picks the sampling band for speed. Unknown or negative speed uses the default band.
func LocationConfigFor(speed *float64) LocationConfig {
	switch {
	case speed == nil || *speed < 0:
		return configDefault
	case *speed > fastSpeed:
		return configFast
	case *speed > mediumSpeed:
		return configMedium
	default:
		return configSlow
	}
}
