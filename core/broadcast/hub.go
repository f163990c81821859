package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Envelope is the wire format for every broadcast message.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// subscriber is the minimal connection surface the hub writes to.
// *websocket.Conn satisfies it; tests substitute a fake.
type subscriber interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans out named events to all connected subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[subscriber]struct{}
	sinks   []Sink
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[subscriber]struct{}),
		logger:  logger,
	}
}

// AddSink registers a sink that receives a copy of every published event.
// Sinks must be registered before the server starts accepting connections.
func (h *Hub) AddSink(s Sink) {
	h.sinks = append(h.sinks, s)
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes the event envelope and writes it to every subscriber.
// Subscribers whose write fails are closed and dropped; the next broadcast
// carries a full snapshot, so nothing is retried.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("Failed to encode broadcast event",
			zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("Dropping dead subscriber", zap.Error(err))
			_ = client.Close()
			delete(h.clients, client)
		}
	}
	h.mu.Unlock()

	for _, sink := range h.sinks {
		go sink.Record(event, data)
	}
}

// Handler returns the Fiber route handler that upgrades subscribers and
// keeps them registered until the connection closes. The hub is publish-only;
// client frames are read solely to detect disconnects.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.register(c)
		defer h.unregister(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// Upgrade is the middleware guarding the websocket route; non-upgrade
// requests get 426.
func Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *Hub) register(c subscriber) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c subscriber) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Close()
}
