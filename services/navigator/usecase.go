package navigator

import (
	"context"

	"github.com/piresc/nebengjek/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/nebengjek/services/navigator NavigatorUC

// NavigatorUC drives turn-by-turn guidance on the driver device
type NavigatorUC interface {
	StartNavigation(ctx context.Context, origin, destination models.Coordinate, waypoints []models.Coordinate) (*models.Route, error)
	HandleFix(ctx context.Context, fix models.LocationFix) (models.NavigationProgress, error)
	StopNavigation()
	ActiveRoute() *models.Route
}
