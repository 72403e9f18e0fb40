package websocket

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	wspkg "github.com/piresc/nebengjek/internal/pkg/websocket"
	"github.com/piresc/nebengjek/services/broker"
)

// WebSocketHandler upgrades broker sockets and feeds their frames to the broker loop
type WebSocketHandler struct {
	brokerUC broker.BrokerUC
	manager  *wspkg.Manager
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(brokerUC broker.BrokerUC, manager *wspkg.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		brokerUC: brokerUC,
		manager:  manager,
	}
}

// HandleWebSocket serves GET /ws?role=admin or GET /ws?userId=...
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	role := c.QueryParam(constants.QueryRole)
	userID := c.QueryParam(constants.QueryUserID)

	client, err := h.manager.Upgrade(c)
	if err != nil {
		logger.Warn("Websocket upgrade failed",
			logger.String("remote_addr", c.RealIP()),
			logger.Err(err))
		return nil
	}

	connID, err := h.brokerUC.Connect(client, role, userID)
	if err != nil {
		logger.Error("Broker rejected connection", logger.Err(err))
		client.Terminate()
		return nil
	}

	client.Run(
		func(data []byte) {
			if err := h.brokerUC.Inbound(connID, data); err != nil {
				client.Terminate()
			}
		},
		func() {
			if err := h.brokerUC.Pong(connID); err != nil {
				client.Terminate()
			}
		},
	)

	if err := h.brokerUC.Disconnect(connID); err != nil {
		logger.Debug("Disconnect after broker stop", logger.String("conn_id", connID), logger.Err(err))
	}
	return nil
}
