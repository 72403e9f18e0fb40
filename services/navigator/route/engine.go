package route

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/services/navigator"
)

const (
	// DefaultCacheTTL is how long a fetched route is served from memory
	DefaultCacheTTL = 5 * time.Minute
	// ProviderTimeout bounds a single directions request. Failed requests are not retried.
	ProviderTimeout = 10 * time.Second
)

var (
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrProviderUnavailable = errors.New("directions provider unavailable")
)

// Engine turns a destination into a route and caches the result per origin/destination/waypoints
type Engine struct {
	provider navigator.DirectionsProvider
	ttl      time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]models.RouteCacheEntry
}

// NewEngine creates a route engine. ttl <= 0 uses DefaultCacheTTL.
func NewEngine(provider navigator.DirectionsProvider, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Engine{
		provider: provider,
		ttl:      ttl,
		timeout:  ProviderTimeout,
		now:      time.Now,
		cache:    make(map[string]models.RouteCacheEntry),
	}
}

// CalculateRoute returns the first route the provider suggests.
// A nil route with a nil error means the provider answered without a usable route.
func (e *Engine) CalculateRoute(ctx context.Context, origin, destination models.Coordinate, waypoints []models.Coordinate, allowAlternatives bool) (*models.Route, error) {
	if err := validate(origin, destination, waypoints); err != nil {
		return nil, err
	}

	key := CacheKey(origin, destination, waypoints)
	if route, ok := e.lookup(key); ok {
		logger.Debug("Route served from cache", logger.String("key", key))
		return route, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.provider.Directions(ctx, models.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Waypoints:    waypoints,
		Alternatives: allowAlternatives,
	})
	if err != nil {
		logger.Error("Directions request failed", logger.String("key", key), logger.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if resp == nil || resp.Status != models.DirectionsStatusOK {
		status, message := "", ""
		if resp != nil {
			status, message = resp.Status, resp.ErrorMessage
		}
		logger.Warn("Directions provider returned no route",
			logger.String("key", key),
			logger.String("status", status),
			logger.String("error_message", message))
		return nil, nil
	}
	if len(resp.Routes) == 0 {
		logger.Warn("Directions provider returned an empty route list", logger.String("key", key))
		return nil, nil
	}

	route := resp.Routes[0]
	e.store(key, &route)

	logger.Info("Route calculated",
		logger.String("key", key),
		logger.Int("steps", len(route.Steps)),
		logger.Float64("distance", route.TotalDistance),
		logger.Float64("duration", route.TotalDuration))
	return &route, nil
}

// RecalculateRoute evicts the cached route for the same arguments and fetches a fresh one
func (e *Engine) RecalculateRoute(ctx context.Context, origin, destination models.Coordinate, waypoints []models.Coordinate, allowAlternatives bool) (*models.Route, error) {
	e.mu.Lock()
	delete(e.cache, CacheKey(origin, destination, waypoints))
	e.mu.Unlock()

	return e.CalculateRoute(ctx, origin, destination, waypoints, allowAlternatives)
}

// ClearCache drops every cached route
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]models.RouteCacheEntry)
}

// CacheSize returns the number of unexpired cached routes, purging expired ones
func (e *Engine) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for key, entry := range e.cache {
		if e.expired(entry, now) {
			delete(e.cache, key)
		}
	}
	return len(e.cache)
}

func (e *Engine) lookup(key string) (*models.Route, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.cache[key]
	if !ok {
		return nil, false
	}
	if e.expired(entry, e.now()) {
		delete(e.cache, key)
		return nil, false
	}
	return entry.Route, true
}

func (e *Engine) store(key string, route *models.Route) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[key] = models.RouteCacheEntry{Route: route, FetchedAt: e.now()}
}

func (e *Engine) expired(entry models.RouteCacheEntry, now time.Time) bool {
	return now.Sub(entry.FetchedAt) >= e.ttl
}

// CacheKey identifies a route request as origin|destination|waypoints with coordinates at 6 decimals
func CacheKey(origin, destination models.Coordinate, waypoints []models.Coordinate) string {
	wps := make([]string, len(waypoints))
	for i, wp := range waypoints {
		wps[i] = formatCoordinate(wp)
	}
	return formatCoordinate(origin) + "|" + formatCoordinate(destination) + "|" + strings.Join(wps, ";")
}

func formatCoordinate(c models.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

func validate(origin, destination models.Coordinate, waypoints []models.Coordinate) error {
	if !origin.Valid() {
		return fmt.Errorf("%w: origin %s", ErrInvalidCoordinate, formatCoordinate(origin))
	}
	if !destination.Valid() {
		return fmt.Errorf("%w: destination %s", ErrInvalidCoordinate, formatCoordinate(destination))
	}
	for i, wp := range waypoints {
		if !wp.Valid() {
			return fmt.Errorf("%w: waypoint %d %s", ErrInvalidCoordinate, i, formatCoordinate(wp))
		}
	}
	return nil
}
