package directions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/piresc/nebengjek/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/nebengjek/internal/pkg/http"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

const directionsPath = "/maps/api/directions/json"

var (
	ErrMissingAPIKey = errors.New("directions api key is not configured")
	ErrUnreachable   = errors.New("directions provider unreachable")
)

// GoogleClient talks to the Google Directions API.
// After repeated failures it stops calling the API until the breaker lets a trial call through.
type GoogleClient struct {
	client  *httpclient.Client
	breaker *circuitbreaker.Breaker
	apiKey  string
}

// NewGoogleClient creates a directions client for baseURL. A zero timeout uses the http client default.
func NewGoogleClient(baseURL, apiKey string, timeout time.Duration) *GoogleClient {
	cfg := circuitbreaker.DefaultConfig("google-directions")
	cfg.IsFailure = func(err error) bool {
		return err != nil && !errors.Is(err, context.Canceled)
	}
	return &GoogleClient{
		client:  httpclient.NewClient(baseURL, timeout),
		breaker: circuitbreaker.New(cfg),
		apiKey:  apiKey,
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l latLng) coordinate() models.Coordinate {
	return models.Coordinate{Latitude: l.Lat, Longitude: l.Lng}
}

type valueText struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type encodedPolyline struct {
	Points string `json:"points"`
}

type googleStep struct {
	Distance         valueText       `json:"distance"`
	Duration         valueText       `json:"duration"`
	HTMLInstructions string          `json:"html_instructions"`
	Maneuver         string          `json:"maneuver"`
	StartLocation    latLng          `json:"start_location"`
	EndLocation      latLng          `json:"end_location"`
	Polyline         encodedPolyline `json:"polyline"`
}

type googleLeg struct {
	Distance     valueText    `json:"distance"`
	Duration     valueText    `json:"duration"`
	StartAddress string       `json:"start_address"`
	EndAddress   string       `json:"end_address"`
	Steps        []googleStep `json:"steps"`
}

type googleRoute struct {
	Summary string `json:"summary"`
	Bounds  struct {
		Northeast latLng `json:"northeast"`
		Southwest latLng `json:"southwest"`
	} `json:"bounds"`
	Legs             []googleLeg     `json:"legs"`
	OverviewPolyline encodedPolyline `json:"overview_polyline"`
}

type googleResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Routes       []googleRoute `json:"routes"`
}

// Directions requests a driving route. Transport and HTTP status failures are reported as ErrUnreachable.
func (g *GoogleClient) Directions(ctx context.Context, req models.DirectionsRequest) (*models.DirectionsResponse, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	query := url.Values{}
	query.Set("origin", latLngParam(req.Origin))
	query.Set("destination", latLngParam(req.Destination))
	query.Set("mode", "driving")
	query.Set("alternatives", strconv.FormatBool(req.Alternatives))
	if len(req.Waypoints) > 0 {
		wps := make([]string, len(req.Waypoints))
		for i, wp := range req.Waypoints {
			wps[i] = latLngParam(wp)
		}
		query.Set("waypoints", strings.Join(wps, "|"))
	}
	query.Set("key", g.apiKey)

	var body googleResponse
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.client.GetJSON(ctx, directionsPath, query, &body)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	resp := &models.DirectionsResponse{
		Status:       body.Status,
		ErrorMessage: body.ErrorMessage,
		Routes:       make([]models.Route, 0, len(body.Routes)),
	}
	for _, r := range body.Routes {
		resp.Routes = append(resp.Routes, convertRoute(r))
	}

	logger.Debug("Directions received",
		logger.String("status", body.Status),
		logger.Int("routes", len(resp.Routes)))
	return resp, nil
}

func convertRoute(r googleRoute) models.Route {
	route := models.Route{
		OverviewPolyline: r.OverviewPolyline.Points,
		Bounds: models.Bounds{
			Northeast: r.Bounds.Northeast.coordinate(),
			Southwest: r.Bounds.Southwest.coordinate(),
		},
	}

	for i, leg := range r.Legs {
		if i == 0 {
			route.OriginAddress = leg.StartAddress
		}
		route.DestAddress = leg.EndAddress
		route.TotalDistance += leg.Distance.Value
		route.TotalDuration += leg.Duration.Value

		for _, s := range leg.Steps {
			route.Steps = append(route.Steps, models.RouteStep{
				Distance:        s.Distance.Value,
				Duration:        s.Duration.Value,
				HTMLInstruction: s.HTMLInstructions,
				Maneuver:        s.Maneuver,
				StartCoordinate: s.StartLocation.coordinate(),
				EndCoordinate:   s.EndLocation.coordinate(),
				Polyline:        s.Polyline.Points,
			})
		}
	}
	return route
}

func latLngParam(c models.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
