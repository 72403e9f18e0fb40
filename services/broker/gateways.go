package broker

import (
	"context"

	"github.com/piresc/nebengjek/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/nebengjek/services/broker EventSink

// EventSink receives live state changes from the broker.
// The broker calls it from its dispatch loop, so implementations handed to the hub must not block.
type EventSink interface {
	DriverUpdated(ctx context.Context, rec models.DriverRecord) error
	DriverRemoved(ctx context.Context, driverID string) error
	ActiveRidesChanged(ctx context.Context, rides []models.RideRecord) error
}
