package broker

import (
	"context"

	"github.com/piresc/nebengjek/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/nebengjek/services/broker BrokerUC

// BrokerUC is the connection broker. Every call is serialized through a single dispatch loop.
type BrokerUC interface {
	// socket lifecycle, fed by each connection's read pump in order
	Connect(peer Peer, role, userID string) (string, error)
	Inbound(connID string, data []byte) error
	Pong(connID string) error
	Disconnect(connID string) error

	// control plane
	Drivers(ctx context.Context) ([]models.DriverRecord, error)
	ActiveRides(ctx context.Context) ([]models.RideRecord, error)
	SendToUser(ctx context.Context, userID string, env models.Envelope) (bool, error)
	ApplyRideStatus(ctx context.Context, ride models.RideRecord) error
	Stats(ctx context.Context) (models.BrokerStats, error)
}
