package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/models"
	natspkg "github.com/piresc/nebengjek/internal/pkg/nats"
	"github.com/piresc/nebengjek/services/broker"
)

// NATSPublisher exports live broker state changes to NATS subjects
type NATSPublisher struct {
	natsClient *natspkg.Client
}

// NewNATSPublisher creates a publisher on top of an open NATS client
func NewNATSPublisher(client *natspkg.Client) *NATSPublisher {
	return &NATSPublisher{natsClient: client}
}

var _ broker.EventSink = (*NATSPublisher)(nil)

// DriverUpdated publishes the stored driver record
func (g *NATSPublisher) DriverUpdated(ctx context.Context, rec models.DriverRecord) error {
	if err := g.natsClient.PublishJSON(constants.SubjectDriverLocation, rec); err != nil {
		return fmt.Errorf("publish driver location %s: %w", rec.ID, err)
	}
	return nil
}

// DriverRemoved publishes a removal notice
func (g *NATSPublisher) DriverRemoved(ctx context.Context, driverID string) error {
	if err := g.natsClient.PublishJSON(constants.SubjectDriverRemoved, models.DriverRemoval{DriverID: driverID}); err != nil {
		return fmt.Errorf("publish driver removal %s: %w", driverID, err)
	}
	return nil
}

// ActiveRidesChanged publishes the full active ride list
func (g *NATSPublisher) ActiveRidesChanged(ctx context.Context, rides []models.RideRecord) error {
	if rides == nil {
		rides = []models.RideRecord{}
	}
	if err := g.natsClient.PublishJSON(constants.SubjectRideActive, rides); err != nil {
		return fmt.Errorf("publish active rides: %w", err)
	}
	return nil
}
