package models

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// WebSocketClient is one authenticated live connection
type WebSocketClient struct {
	UserID string
	Role   UserRole
	Conn   *websocket.Conn
}

// WSMessage is the envelope for every WebSocket frame
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WSErrorMessage is the payload of an error frame
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
