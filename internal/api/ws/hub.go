package ws

import (
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Statuses broadcast around assistant queries so the dashboard can drive its
// indicator.
const (
	StatusProcessing = "processing"
	StatusIdle       = "idle"
)

type message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans assistant status and response events out to connected dashboard
// clients. Clients whose writes fail are pruned.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		log:     log,
	}
}

// UpgradeGuard rejects plain HTTP requests on the websocket route.
func UpgradeGuard(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the fiber handler managing a client connection. The
// connection is held open until the client goes away; inbound messages are
// drained and ignored.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		id := uuid.NewString()
		h.add(id, c)
		defer h.remove(id)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func (h *Hub) add(id string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// BroadcastStatus tells clients whether the assistant is busy.
func (h *Hub) BroadcastStatus(status string) {
	h.broadcast(message{Type: "status", Data: fiber.Map{"status": status}})
}

// BroadcastResponse pushes a composed answer to all clients.
func (h *Hub) BroadcastResponse(text string) {
	h.broadcast(message{Type: "response", Data: fiber.Map{"text": text}})
}

func (h *Hub) broadcast(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		if err := c.WriteJSON(msg); err != nil {
			h.log.Debug("dropping websocket client", "id", id, "error", err)
			_ = c.Close()
			delete(h.clients, id)
		}
	}
}
