package navigator

import (
	"context"

	"github.com/piresc/nebengjek/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/nebengjek/services/navigator DirectionsProvider,Transmitter

// DirectionsProvider fetches routes from an external directions service
type DirectionsProvider interface {
	Directions(ctx context.Context, req models.DirectionsRequest) (*models.DirectionsResponse, error)
}

// Transmitter delivers envelopes to the broker. It reports false instead of failing.
type Transmitter interface {
	SendMessage(env models.Envelope) bool
}
