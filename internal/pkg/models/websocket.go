package models

import "encoding/json"

// Connection roles
const (
	RoleDriver = "driver"
	RoleRider  = "rider"
	RoleAdmin  = "admin"
)

// Envelope is the JSON structure of every websocket message in both directions
type Envelope struct {
	Type    string          `json:"type"`
	Role    string          `json:"role,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Driver  string          `json:"driver,omitempty"`
	UserID  string          `json:"userId,omitempty"`
	RideID  string          `json:"rideId,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewEnvelope builds an envelope with data marshaled from v. A nil v leaves Data empty.
func NewEnvelope(msgType string, v interface{}) (Envelope, error) {
	env := Envelope{Type: msgType}
	if v == nil {
		return env, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return env, err
	}
	env.Data = raw
	return env, nil
}

// WSErrorMessage represents an error message sent over WebSocket
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
