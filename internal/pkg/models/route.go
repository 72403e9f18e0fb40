package models

import "time"

// Bounds is the bounding box of a route
type Bounds struct {
	Northeast Coordinate `json:"northeast"`
	Southwest Coordinate `json:"southwest"`
}

// RouteStep is a single maneuver of a route
type RouteStep struct {
	Distance        float64    `json:"distance"` // meters
	Duration        float64    `json:"duration"` // seconds
	HTMLInstruction string     `json:"htmlInstruction"`
	Maneuver        string     `json:"maneuver,omitempty"`
	StartCoordinate Coordinate `json:"startCoordinate"`
	EndCoordinate   Coordinate `json:"endCoordinate"`
	Polyline        string     `json:"polyline"`
}

// Route is a followable path from origin to destination. It is never mutated once fetched.
type Route struct {
	TotalDistance    float64     `json:"totalDistance"` // meters
	TotalDuration    float64     `json:"totalDuration"` // seconds
	Steps            []RouteStep `json:"steps"`
	OverviewPolyline string      `json:"overviewPolyline"`
	OriginAddress    string      `json:"originAddress"`
	DestAddress      string      `json:"destAddress"`
	Bounds           Bounds      `json:"bounds"`
}

// RouteCacheEntry is a cached route and the time it was fetched
type RouteCacheEntry struct {
	Route     *Route
	FetchedAt time.Time
}

// TurnInstruction is the next maneuver the driver has to perform
type TurnInstruction struct {
	Step           *RouteStep `json:"step"`
	StepIndex      int        `json:"stepIndex"`
	DistanceToTurn float64    `json:"distanceToTurn"` // meters
}

// DirectionsStatusOK is the only provider status that carries usable routes
const DirectionsStatusOK = "OK"

// DirectionsRequest asks the directions provider for a route
type DirectionsRequest struct {
	Origin       Coordinate
	Destination  Coordinate
	Waypoints    []Coordinate
	Alternatives bool
}

// DirectionsResponse is the provider answer, already converted to routes
type DirectionsResponse struct {
	Status       string
	ErrorMessage string
	Routes       []Route
}

// NavigationProgress is what the driver sees after a fix has been applied to the active route
type NavigationProgress struct {
	Step                  *RouteStep       `json:"step,omitempty"`
	NextTurn              *TurnInstruction `json:"nextTurn,omitempty"`
	DistanceFromRoute     float64          `json:"distanceFromRoute"`
	DistanceToDestination float64          `json:"distanceToDestination"`
	Deviated              bool             `json:"deviated"`
	Rerouted              bool             `json:"rerouted"`
	Arrived               bool             `json:"arrived"`
}
