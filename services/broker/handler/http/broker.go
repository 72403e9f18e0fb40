package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/internal/utils"
	"github.com/piresc/nebengjek/services/broker"
)

// BrokerHandler serves the broker control plane
type BrokerHandler struct {
	brokerUC broker.BrokerUC
}

// NewBrokerHandler creates a new control plane handler
func NewBrokerHandler(brokerUC broker.BrokerUC) *BrokerHandler {
	return &BrokerHandler{
		brokerUC: brokerUC,
	}
}

// GetDrivers returns the live driver map
func (h *BrokerHandler) GetDrivers(c echo.Context) error {
	drivers, err := h.brokerUC.Drivers(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read drivers", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "Broker unavailable")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", drivers)
}

// GetActiveRides returns the active rides
func (h *BrokerHandler) GetActiveRides(c echo.Context) error {
	rides, err := h.brokerUC.ActiveRides(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read active rides", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "Broker unavailable")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Active rides retrieved successfully", rides)
}

// GetStats returns registry sizes
func (h *BrokerHandler) GetStats(c echo.Context) error {
	stats, err := h.brokerUC.Stats(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read broker stats", logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "Broker unavailable")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Broker stats retrieved successfully", stats)
}

// NotifyRideAccepted pushes rideAccepted to the rider's socket
func (h *BrokerHandler) NotifyRideAccepted(c echo.Context) error {
	return h.notify(c, constants.MsgRideAccepted)
}

// NotifyRideCompleted pushes rideCompleted to the rider's socket
func (h *BrokerHandler) NotifyRideCompleted(c echo.Context) error {
	return h.notify(c, constants.MsgRideCompleted)
}

func (h *BrokerHandler) notify(c echo.Context, msgType string) error {
	var req models.RideNotification
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid notification payload",
			logger.String("type", msgType),
			logger.Err(err))
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if req.UserID == "" {
		return utils.BadRequestResponse(c, "userId is required")
	}

	delivered, err := h.brokerUC.SendToUser(c.Request().Context(), req.UserID, req.Envelope(msgType))
	if err != nil {
		logger.Error("Failed to deliver notification",
			logger.String("type", msgType),
			logger.String("user_id", req.UserID),
			logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "Broker unavailable")
	}

	if !delivered {
		logger.Info("Rider offline, notification not delivered",
			logger.String("type", msgType),
			logger.String("user_id", req.UserID))
		return utils.DeliveryResponse(c, false, "User not connected")
	}
	return utils.DeliveryResponse(c, true, "Notification delivered")
}
