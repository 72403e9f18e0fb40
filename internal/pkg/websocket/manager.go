package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// DefaultSendBuffer is the number of outbound frames a client may have queued
const DefaultSendBuffer = 64

// Manager upgrades HTTP requests into broker clients
type Manager struct {
	upgrader   websocket.Upgrader
	sendBuffer int
}

// NewManager creates a new WebSocket manager
func NewManager(sendBuffer int) *Manager {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Manager{
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Upgrade switches the request to the websocket protocol.
// On failure the upgrader has already written the HTTP error response.
func (m *Manager) Upgrade(c echo.Context) (*Client, error) {
	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil, err
	}
	return newClient(ws, m.sendBuffer), nil
}
