package usecase

import (
	"context"
	"sync"

	"github.com/piresc/nebengjek/internal/pkg/geo"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/navigator/deviation"
	"github.com/piresc/nebengjek/services/navigator/route"
	"github.com/piresc/nebengjek/services/navigator/tracker"
)

// NavigatorUC follows one destination at a time: every fix goes through the tracker,
// then is checked for arrival and deviation against the active route.
type NavigatorUC struct {
	engine           *route.Engine
	detector         *deviation.Detector
	tracker          *tracker.Tracker
	arrivalThreshold float64

	mu          sync.Mutex
	route       *models.Route
	destination models.Coordinate
	waypoints   []models.Coordinate
	completed   map[int]bool
	navigating  bool
	rerouting   bool
	session     uint64 // bumped by every start and stop
}

// NewNavigatorUC creates a navigation session on top of engine and tracker
func NewNavigatorUC(engine *route.Engine, trk *tracker.Tracker, cfg models.NavigatorConfig) *NavigatorUC {
	arrival := cfg.ArrivalThreshold
	if arrival <= 0 {
		arrival = deviation.DefaultThreshold
	}
	return &NavigatorUC{
		engine:           engine,
		detector:         deviation.NewDetector(cfg.DeviationThreshold),
		tracker:          trk,
		arrivalThreshold: arrival,
	}
}

// StartNavigation calculates a route and makes it the active one.
// A nil route with a nil error means the provider had nothing to offer; the previous route stays active.
func (u *NavigatorUC) StartNavigation(ctx context.Context, origin, destination models.Coordinate, waypoints []models.Coordinate) (*models.Route, error) {
	r, err := u.engine.CalculateRoute(ctx, origin, destination, waypoints, false)
	if err != nil {
		return nil, err
	}
	if r == nil {
		logger.Warn("No route to destination",
			logger.Float64("lat", destination.Latitude),
			logger.Float64("lng", destination.Longitude))
		return nil, nil
	}

	u.mu.Lock()
	u.route = r
	u.destination = destination
	u.waypoints = append([]models.Coordinate(nil), waypoints...)
	u.completed = make(map[int]bool)
	u.navigating = true
	u.session++
	u.mu.Unlock()

	logger.Info("Navigation started",
		logger.String("destination", r.DestAddress),
		logger.Float64("distance", r.TotalDistance),
		logger.Int("steps", len(r.Steps)))
	return r, nil
}

// StopNavigation drops the active route
func (u *NavigatorUC) StopNavigation() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.route = nil
	u.completed = nil
	u.navigating = false
	u.session++
}

// ActiveRoute returns the route being followed, nil when not navigating
func (u *NavigatorUC) ActiveRoute() *models.Route {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.route
}

// HandleFix feeds fix to the tracker and advances navigation.
// Leaving the route triggers one recalculation from the current position; an error is only returned when it fails.
func (u *NavigatorUC) HandleFix(ctx context.Context, fix models.LocationFix) (models.NavigationProgress, error) {
	u.tracker.HandleFix(fix)
	position := fix.Coordinate

	u.mu.Lock()
	if !u.navigating || u.route == nil {
		u.mu.Unlock()
		return models.NavigationProgress{}, nil
	}

	var progress models.NavigationProgress
	arrival := deviation.CheckArrival(position, u.destination, u.arrivalThreshold)
	progress.DistanceToDestination = arrival.DistanceToTarget
	if arrival.IsArrived {
		u.navigating = false
		u.mu.Unlock()

		progress.Arrived = true
		logger.Info("Arrived at destination", logger.Float64("distance", arrival.DistanceToTarget))
		return progress, nil
	}

	check := u.detector.Check(position, u.route.OverviewPolyline)
	progress.DistanceFromRoute = check.DistanceFromRoute
	progress.Deviated = check.IsDeviated

	if check.IsDeviated && !u.rerouting {
		u.rerouting = true
		session, destination, waypoints := u.session, u.destination, u.waypoints
		u.mu.Unlock()

		logger.Info("Driver left the route, recalculating",
			logger.Float64("distance_from_route", check.DistanceFromRoute))
		fresh, err := u.engine.RecalculateRoute(ctx, position, destination, waypoints, false)

		u.mu.Lock()
		u.rerouting = false
		if session != u.session {
			u.mu.Unlock()
			logger.Info("Navigation restarted during recalculation, dropping stale route")
			return progress, nil
		}
		if err != nil {
			u.mu.Unlock()
			return progress, err
		}
		if fresh != nil && u.navigating {
			u.route = fresh
			u.completed = make(map[int]bool)
			progress.Rerouted = true
		}
		if u.route == nil {
			u.mu.Unlock()
			return progress, nil
		}
	}
	defer u.mu.Unlock()

	for i, step := range u.route.Steps {
		if !u.completed[i] && geo.HaversineDistance(position, step.EndCoordinate) <= u.arrivalThreshold {
			u.completed[i] = true
		}
	}
	progress.Step = route.CurrentStep(u.route, position, u.completed)
	progress.NextTurn = route.NextTurnInstruction(u.route, position, u.completed)
	return progress, nil
}
