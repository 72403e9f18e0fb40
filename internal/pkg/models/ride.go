package models

import (
	"encoding/json"
	"time"
)

// Ride statuses. Only the active ones are kept by the broker.
const (
	RideStatusRequested  = "Requested"
	RideStatusAccepted   = "Accepted"
	RideStatusInProgress = "In Progress"
	RideStatusCompleted  = "Completed"
	RideStatusCancelled  = "Cancelled"
)

// IsActiveRideStatus reports whether a ride with this status is tracked as active
func IsActiveRideStatus(status string) bool {
	return status == RideStatusInProgress || status == RideStatusAccepted
}

// RideRecord is an active ride as seen by dispatch
type RideRecord struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Pickup      *Coordinate `json:"pickup,omitempty"`
	Destination *Coordinate `json:"destination,omitempty"`
	DriverID    string      `json:"driverId,omitempty"`
	UserID      string      `json:"userId,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// RideNotification is the body accepted by the ride notification endpoints and subjects
type RideNotification struct {
	UserID   string          `json:"userId"`
	RideID   string          `json:"rideId,omitempty"`
	RideData json.RawMessage `json:"rideData,omitempty"`
}

// Envelope wraps the notification for delivery to the rider's socket
func (n RideNotification) Envelope(msgType string) Envelope {
	return Envelope{
		Type:   msgType,
		UserID: n.UserID,
		RideID: n.RideID,
		Data:   n.RideData,
	}
}
