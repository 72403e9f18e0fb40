package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	natspkg "github.com/piresc/nebengjek/internal/pkg/nats"
	"github.com/piresc/nebengjek/services/broker"
)

const handleTimeout = 5 * time.Second

// NatsHandler consumes ride events from other services and hands them to the broker
type NatsHandler struct {
	brokerUC   broker.BrokerUC
	natsClient *natspkg.Client
	subs       []*nats.Subscription
}

// NewNatsHandler creates a new NATS handler
func NewNatsHandler(brokerUC broker.BrokerUC, client *natspkg.Client) *NatsHandler {
	return &NatsHandler{
		brokerUC:   brokerUC,
		natsClient: client,
	}
}

// InitNATSConsumers subscribes to every ride subject the broker serves
func (h *NatsHandler) InitNATSConsumers() error {
	consumers := []struct {
		subject string
		handler natspkg.MessageHandler
	}{
		{constants.SubjectRideAccepted, h.handleRideAccepted},
		{constants.SubjectRideCompleted, h.handleRideCompleted},
		{constants.SubjectRideStatus, h.handleRideStatus},
	}

	for _, consumer := range consumers {
		sub, err := h.natsClient.Subscribe(consumer.subject, consumer.handler)
		if err != nil {
			h.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", consumer.subject, err)
		}
		h.subs = append(h.subs, sub)
	}

	logger.Info("NATS consumers initialized", logger.Int("subscriptions", len(h.subs)))
	return nil
}

// Close unsubscribes from all subjects
func (h *NatsHandler) Close() {
	for _, sub := range h.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", logger.String("subject", sub.Subject), logger.Err(err))
		}
	}
	h.subs = nil
}

func (h *NatsHandler) handleRideAccepted(msg []byte) error {
	return h.notify(msg, constants.MsgRideAccepted)
}

func (h *NatsHandler) handleRideCompleted(msg []byte) error {
	return h.notify(msg, constants.MsgRideCompleted)
}

func (h *NatsHandler) notify(msg []byte, msgType string) error {
	var event models.RideNotification
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", msgType, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("%s event without userId", msgType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	delivered, err := h.brokerUC.SendToUser(ctx, event.UserID, event.Envelope(msgType))
	if err != nil {
		return fmt.Errorf("failed to deliver %s: %w", msgType, err)
	}
	logger.Info("Ride notification processed",
		logger.String("type", msgType),
		logger.String("user_id", event.UserID),
		logger.String("ride_id", event.RideID),
		logger.Bool("delivered", delivered))
	return nil
}

func (h *NatsHandler) handleRideStatus(msg []byte) error {
	var ride models.RideRecord
	if err := json.Unmarshal(msg, &ride); err != nil {
		return fmt.Errorf("failed to unmarshal ride status event: %w", err)
	}
	if ride.ID == "" {
		return fmt.Errorf("ride status event without id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := h.brokerUC.ApplyRideStatus(ctx, ride); err != nil {
		return fmt.Errorf("failed to apply ride status %s: %w", ride.ID, err)
	}
	return nil
}
