package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coordinate is a latitude/longitude pair in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is within latitude and longitude bounds
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// LocationFix is a raw position sample produced by the device GPS
type LocationFix struct {
	Coordinate
	Speed     *float64  `json:"speed,omitempty"` // meters per second, nil when unknown
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationUpdate is the payload a driver device transmits with a locationUpdate message
type LocationUpdate struct {
	DriverID    string  `json:"driverId"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"name,omitempty"`
	Status      string  `json:"status,omitempty"`
	VehicleType string  `json:"vehicleType,omitempty"`
}

// Coordinate returns the position carried by the update
func (u LocationUpdate) Coordinate() Coordinate {
	return Coordinate{Latitude: u.Latitude, Longitude: u.Longitude}
}

// NearbyRequest is the payload of a requestRide message
type NearbyRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius,omitempty"` // meters
}

// ParseCoordinate reads a "lat,lng" pair
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("coordinate %q is not lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	c := Coordinate{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate %q is out of range", s)
	}
	return c, nil
}
