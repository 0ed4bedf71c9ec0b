package violations

import (
	"sync"

	"github.com/killallgit/minewatch-api/internal/models"
)

// Hub fans recorded violations out to stream subscribers. Slow subscribers
// miss events rather than blocking the recorder.
type Hub struct {
	mu      sync.Mutex
	clients map[int]chan models.Violation
	nextID  int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[int]chan models.Violation)}
}

// Subscribe adds a new client and returns a channel for receiving violations
func (h *Hub) Subscribe() (int, <-chan models.Violation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan models.Violation, 16)
	h.clients[id] = ch
	return id, ch
}

// Unsubscribe removes a client and closes its channel
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Publish delivers v to every subscriber with buffer space
func (h *Hub) Publish(v models.Violation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.clients {
		select {
		case ch <- v:
		default:
		}
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
