package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"lasanalyzer/internal/infrastructure"
)

const broadcastQueueSize = 64

type outbound struct {
	eventType string
	payload   []byte
}

// Hub maintains the set of active clients and broadcasts events to them.
// The Run goroutine owns the client set; other goroutines talk to it over channels.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	count   int
	running bool
	quit    chan struct{}
	done    chan struct{}

	logger  *slog.Logger
	metrics *OTelMetrics
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *OTelMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start runs the hub loop in a goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop ends the hub loop and closes every client's send channel.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.drop(client, "shutdown")
			}
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount()

			ctx := client.context()
			h.metrics.recordConnection(ctx)
			h.logger.InfoContext(ctx, "client registered",
				slog.Int("total_clients", len(h.clients)),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			welcome, err := json.Marshal(newEvent(TypeConnection, map[string]interface{}{
				"status":    "connected",
				"message":   "Connected to LAS Analyzer event feed",
				"client_id": client.id,
			}, client.traceID))
			if err == nil {
				select {
				case client.send <- welcome:
				default:
					h.logger.WarnContext(ctx, "client buffer full on connect",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client, "normal")
				h.logger.InfoContext(client.context(), "client unregistered",
					slog.Int("total_clients", len(h.clients)),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case msg := <-h.broadcast:
			sent := 0
			for client := range h.clients {
				select {
				case client.send <- msg.payload:
					sent++
				default:
					h.drop(client, "buffer_full")
					h.logger.WarnContext(client.context(), "client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
			h.metrics.recordSent(context.Background(), msg.eventType, sent)
			h.logger.Debug("event broadcast",
				slog.String("type", msg.eventType),
				slog.Int("clients", sent),
				slog.Int("payload_size", len(msg.payload)))
		}
	}
}

// drop must only be called from run.
func (h *Hub) drop(client *Client, reason string) {
	delete(h.clients, client)
	close(client.send)
	h.setCount()
	h.metrics.recordDisconnection(client.context(), time.Since(client.connectedAt), reason)
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// Broadcast queues an event for every client. It never blocks: when the queue is full
// or the hub is stopped the event is dropped and logged.
func (h *Hub) Broadcast(eventType string, data interface{}, traceID string) {
	ctx := context.Background()
	if traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, traceID)
	}

	payload, err := json.Marshal(newEvent(eventType, data, traceID))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal event",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- outbound{eventType: eventType, payload: payload}:
	default:
		h.logger.WarnContext(ctx, "broadcast queue full, event dropped",
			slog.String("type", eventType))
	}
}

// Register adds a client. It returns false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
