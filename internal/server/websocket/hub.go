package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// LobbyGroup is the group key every lobby socket subscribes to.
const LobbyGroup = "lobby"

// gameGroupPrefix namespaces session groups away from the lobby group.
const gameGroupPrefix = "GAME-"

// GameGroup returns the group key for a session url.
func GameGroup(url string) string {
	return gameGroupPrefix + url
}

// Hub fans broadcasts out to every client subscribed to a group. Delivery
// is best effort to currently subscribed members; there is no replay for
// late joiners.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*Client]struct{})}
}

// Join subscribes a client to a group.
func (h *Hub) Join(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		h.groups[group] = members
	}
	members[c] = struct{}{}
}

// Leave unsubscribes a client; an emptied group is dropped.
func (h *Hub) Leave(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// Broadcast marshals v once and queues it to every member of the group. A
// client whose send buffer is full misses the message rather than stalling
// the rest of the group.
func (h *Hub) Broadcast(group string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WS] Failed to marshal broadcast for group %s: %v", group, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.groups[group] {
		select {
		case c.send <- data:
		default:
			log.Printf("[WS] Dropping broadcast to slow client %s", c.ConnID)
		}
	}
}

// GroupSize reports the current member count of a group.
func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
