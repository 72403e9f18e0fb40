package constants

// WebSocket message types, client to server
const (
	MsgLocationUpdate     = "locationUpdate"
	MsgDriverStatusChange = "driverStatusChange"
	MsgRequestRide        = "requestRide"
	MsgRegisterUser       = "registerUser"
	MsgRideStatusUpdate   = "rideStatusUpdate"
)

// WebSocket message types, server to client
const (
	MsgDriverLocations      = "driverLocations"
	MsgDriverLocationUpdate = "driverLocationUpdate"
	MsgDriverRemoved        = "driverRemoved"
	MsgActiveRides          = "activeRides"
	MsgActiveRidesUpdate    = "activeRidesUpdate"
	MsgNearbyDrivers        = "nearbyDrivers"
	MsgRegistered           = "registered"
	MsgRideAccepted         = "rideAccepted"
	MsgRideCompleted        = "rideCompleted"
	MsgError                = "error"
)

// WebSocket error codes
const (
	ErrorInvalidFormat   = "invalid_format"
	ErrorInvalidLocation = "invalid_location"
	ErrorUnknownType     = "unknown_type"
	ErrorRoleMismatch    = "role_mismatch"
)

// Handshake query parameters
const (
	QueryRole   = "role"
	QueryUserID = "userId"
)

// Close codes treated as intentional shutdowns
const (
	CloseNormal    = 1000
	CloseGoingAway = 1001
	CloseAbnormal  = 1006
)
