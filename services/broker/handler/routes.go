package handler

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek/internal/pkg/middleware"
	"github.com/piresc/nebengjek/internal/pkg/models"
	"github.com/piresc/nebengjek/internal/pkg/newrelic"
	wspkg "github.com/piresc/nebengjek/internal/pkg/websocket"
	"github.com/piresc/nebengjek/services/broker"
	httpHandler "github.com/piresc/nebengjek/services/broker/handler/http"
	wsHandler "github.com/piresc/nebengjek/services/broker/handler/websocket"
)

// Handler combines the websocket and control plane handlers of the broker
type Handler struct {
	brokerHTTP *httpHandler.BrokerHandler
	brokerWS   *wsHandler.WebSocketHandler
	cfg        *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(brokerUC broker.BrokerUC, cfg *models.Config) *Handler {
	return &Handler{
		brokerHTTP: httpHandler.NewBrokerHandler(brokerUC),
		brokerWS:   wsHandler.NewWebSocketHandler(brokerUC, wspkg.NewManager(cfg.Broker.SendBufferSize)),
		cfg:        cfg,
	}
}

// RegisterRoutes registers the socket endpoint and the /api control plane.
// redisClient may be nil, which disables rate limiting.
func (h *Handler) RegisterRoutes(e *echo.Echo, redisClient *redis.Client) {
	e.GET("/ws", h.brokerWS.HandleWebSocket)

	api := e.Group("/api")
	if redisClient != nil && h.cfg.Broker.ControlRateLimit > 0 {
		api.Use(middleware.IPRateLimiter(h.cfg.Broker.ControlRateLimit, time.Minute, redisClient))
	}

	api.GET("/drivers", newrelic.TraceHandler("GetDrivers", h.brokerHTTP.GetDrivers))
	api.GET("/active-rides", newrelic.TraceHandler("GetActiveRides", h.brokerHTTP.GetActiveRides))
	api.GET("/stats", newrelic.TraceHandler("GetStats", h.brokerHTTP.GetStats))
	api.POST("/notify-ride-accepted", newrelic.TraceHandler("NotifyRideAccepted", h.brokerHTTP.NotifyRideAccepted))
	api.POST("/notify-ride-completed", newrelic.TraceHandler("NotifyRideCompleted", h.brokerHTTP.NotifyRideCompleted))
}
