package websocket

import (
	"time"
)

// Connection is the subset of a WebSocket connection the client pumps need.
// It lets tests drive a client without a network.
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	ReadMessage() (messageType int, p []byte, err error)

	// Close closes the connection
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// Broadcaster publishes events to every connected client.
type Broadcaster interface {
	Broadcast(eventType string, data interface{}, traceID string)
}
