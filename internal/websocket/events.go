package websocket

import (
	"time"

	"lasanalyzer/pkg/contracts/events"
)

// Event types sent to clients.
const (
	TypeConnection   = events.TypeConnection
	TypeWellIngested = events.TypeWellIngested
	TypeWellDeleted  = events.TypeWellDeleted
)

// Event is the JSON envelope of every message sent to clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

func newEvent(eventType string, data interface{}, traceID string) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TraceID:   traceID,
	}
}
