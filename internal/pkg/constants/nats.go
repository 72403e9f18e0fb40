package constants

// NATS Subjects
const (
	// Consumed by the broker
	SubjectRideAccepted  = "ride.accepted"
	SubjectRideCompleted = "ride.completed"
	SubjectRideStatus    = "ride.status"

	// Published by the broker
	SubjectDriverLocation = "driver.location"
	SubjectDriverRemoved  = "driver.removed"
	SubjectRideActive     = "ride.active"
)
