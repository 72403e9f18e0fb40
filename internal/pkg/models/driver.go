package models

import (
	"strings"
	"time"
)

// Driver statuses reported by driver devices
const (
	DriverStatusActive   = "active"
	DriverStatusInactive = "inactive"
)

// DriverRecord is the live state of a connected driver
type DriverRecord struct {
	ID            string     `json:"id"`
	Coordinate    Coordinate `json:"coordinate"`
	DisplayName   string     `json:"name,omitempty"`
	Status        string     `json:"status"`
	VehicleType   string     `json:"vehicleType,omitempty"`
	Geohash       string     `json:"geohash,omitempty"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
}

// IsActive reports whether the record's status is active, ignoring case
func (d DriverRecord) IsActive() bool {
	return strings.EqualFold(d.Status, DriverStatusActive)
}

// DriverStateKind distinguishes the three states a driver id can be in
type DriverStateKind int

const (
	DriverAbsent DriverStateKind = iota
	DriverActive
	DriverInactive
)

func (k DriverStateKind) String() string {
	switch k {
	case DriverActive:
		return "active"
	case DriverInactive:
		return "inactive"
	default:
		return "absent"
	}
}

// DriverState is the tagged view of a driver id: absent, or present with a record
type DriverState struct {
	Kind   DriverStateKind
	Record *DriverRecord
}

// Available reports whether the driver can be matched to riders
func (s DriverState) Available() bool {
	return s.Kind == DriverActive
}

// StatusChange is the payload of a driverStatusChange message
type StatusChange struct {
	DriverID string `json:"driverId,omitempty"`
	Status   string `json:"status"`
}

// BrokerStats is a snapshot of broker registry sizes
type BrokerStats struct {
	Connections int `json:"connections"`
	Drivers     int `json:"drivers"`
	ActiveRides int `json:"activeRides"`
	Riders      int `json:"riders"`
	Admins      int `json:"admins"`
}

// DriverRemoval is the payload announcing that a driver left the live map
type DriverRemoval struct {
	DriverID string `json:"driverId"`
}
