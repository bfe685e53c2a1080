package ws

import (
	"sync"

	"tasklists/internal/logger"
)

// Hub tracks connected clients per user so sign-out can drop the sessions
// that used the revoked token.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
}

// ClientCount returns the number of open connections for a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// DisconnectToken closes every connection of userID opened with tokenID.
func (h *Hub) DisconnectToken(userID, tokenID string) int {
	var victims []*Client
	for _, c := range h.clientsOf(userID) {
		if c.TokenID == tokenID {
			victims = append(victims, c)
		}
	}

	for _, c := range victims {
		c.Close()
	}
	if len(victims) > 0 {
		logger.Info("ws: closed signed-out sessions", "user_id", userID, "count", len(victims))
	}
	return len(victims)
}

func (h *Hub) clientsOf(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		out = append(out, c)
	}
	return out
}
