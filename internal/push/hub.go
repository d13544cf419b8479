// Package push fans change events out to connected storefront clients.
//
// Delivery is best-effort and at-most-once: there is no acknowledgment, no
// retry, and no queue for disconnected users. Clients are expected to
// re-fetch full state on (re)connect to converge.
package push

import (
	"sync"

	"github.com/quickcart-grocery/api/pkg/global"
)

const (
	EventCartUpdated  = "cartUpdated"
	EventOrderUpdated = "orderUpdated"
	EventStockUpdated = "productStockUpdated"
)

// Frame is the wire shape of every pushed event.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the minimal connection surface the hub needs. Production traffic
// uses wrapped websocket connections; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is the process-scoped connection registry: one group per user id,
// joined explicitly after the socket is established.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[Conn]struct{})}
}

// Join registers a connection under the user's group.
func (h *Hub) Join(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[userID]
	if !ok {
		group = make(map[Conn]struct{})
		h.groups[userID] = group
	}
	group[conn] = struct{}{}
}

// Leave removes a connection; empty groups are dropped.
func (h *Hub) Leave(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[userID]
	if !ok {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.groups, userID)
	}
}

// Publish sends an event to every connection in the user's group. Failed
// connections are evicted and closed; the event itself is fire-and-forget.
func (h *Hub) Publish(userID, event string, payload interface{}) {
	frame := Frame{Event: event, Data: payload}

	h.mu.RLock()
	conns := make([]Conn, 0, len(h.groups[userID]))
	for conn := range h.groups[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(frame); err != nil {
			global.Log().WithError(err).Debug("dropping dead push connection")
			h.Leave(userID, conn)
			conn.Close()
		}
	}
}

// Broadcast sends an event to every connected client across all groups.
// Used for catalog-wide changes such as stock updates.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.mu.RLock()
	userIDs := make([]string, 0, len(h.groups))
	for userID := range h.groups {
		userIDs = append(userIDs, userID)
	}
	h.mu.RUnlock()

	for _, userID := range userIDs {
		h.Publish(userID, event, payload)
	}
}

// ConnectionCount reports the live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[userID])
}
