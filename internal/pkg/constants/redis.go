package constants

// Redis key formats
const (
	KeyDriverLive     = "drivers:live"         // Geo set of connected drivers
	KeyDriverLiveMeta = "drivers:live:meta:%s" // Format: drivers:live:meta:{driver_id}
)

// Redis hash fields
const (
	FieldStatus      = "status"
	FieldVehicleType = "vehicle_type"
	FieldGeohash     = "geohash"
	FieldName        = "name"
	FieldTimestamp   = "ts"
)
