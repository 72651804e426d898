package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"bank_transactions/internal/domain"
)

// Hub fans transaction events out to every connected feed client.
// Clients whose send buffer is full are disconnected rather than waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Debug("feed client connected", "clients", n)
}

// Unregister removes c and closes its send channel; safe to call more than once
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.Send)
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Debug("feed client disconnected", "clients", n)
}

// Publish implements the service event publisher
func (h *Hub) Publish(_ context.Context, event domain.TransactionEvent) error {
	msg, err := json.Marshal(Message{Type: MsgTransaction, Event: &event})
	if err != nil {
		return err
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow feed client")
		h.Unregister(c)
	}
	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client, used on shutdown
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}
