// Package transport is the reference WebSocket adapter the engine's
// outbound tick payload is handed to (spec.md §1 "transport... assumed to
// exist"; grounded on this codebase's connection-hub pattern).
package transport

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kestrelgames/territoryd/pkg/engine"
)

// Event types sent over WebSocket.
const (
	EventTick       = "tick"
	EventFullView   = "full_view"
	EventRoomEnded  = "room_ended"
)

// Event is the envelope for all outbound WebSocket messages.
type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Data   any    `json:"data"`
}

// Conn wraps a WebSocket connection with its owner id and outbound send
// buffer; the Hub tracks which rooms it is subscribed to.
// Constructed only by Handler.ServeWS, which owns its pumps.
type Conn struct {
	conn    *websocket.Conn
	ownerID string
	send    chan []byte
}

// Hub fans out per-tick outbound payloads to every connection subscribed to
// a room. One Hub instance serves every room hosted by this process; a room
// is just a key in the subscriber map (spec.md §5: rooms share nothing
// mutable, but they may share a transport process).
type Hub struct {
	mu          sync.RWMutex
	connections map[*Conn]bool
	rooms       map[string]map[*Conn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*Conn]bool),
		rooms:       make(map[string]map[*Conn]bool),
	}
}

// Register adds a newly-upgraded connection to the hub, before it has
// subscribed to any room.
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub and every room it was
// subscribed to, then closes its send channel so writePump exits.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	for roomID, conns := range h.rooms {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a room's broadcast set.
func (h *Hub) Subscribe(c *Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Conn]bool)
	}
	h.rooms[roomID][c] = true
}

// Unsubscribe removes a connection from a room's broadcast set.
func (h *Hub) Unsubscribe(c *Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// ConnectionCount returns the total number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// BroadcastTick sends one tick's outbound nation views to every connection
// subscribed to roomID (spec.md §4.10 step 9).
func (h *Hub) BroadcastTick(roomID string, views []engine.NationView) {
	h.broadcast(roomID, Event{Type: EventTick, RoomID: roomID, Data: views})
}

// BroadcastRoomEnded notifies every connection subscribed to roomID that a
// winner was declared (spec.md §4.10 "Win condition"); sent once, the tick
// the win transition happens.
func (h *Hub) BroadcastRoomEnded(roomID, winnerOwnerID string) {
	h.broadcast(roomID, Event{Type: EventRoomEnded, RoomID: roomID, Data: map[string]string{"winner": winnerOwnerID}})
}

// SendFullView sends a single connection the full-territory view for its
// owner, used right after it joins a room (spec.md §6).
func (h *Hub) SendFullView(c *Conn, roomID string, view engine.NationView) {
	data, err := json.Marshal(Event{Type: EventFullView, RoomID: roomID, Data: view})
	if err != nil {
		log.Error().Err(err).Str("roomId", roomID).Msg("failed to marshal full-territory view")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("ownerId", c.ownerID).Str("roomId", roomID).Msg("dropping full-territory view, buffer full")
	}
}

func (h *Hub) broadcast(roomID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("roomId", roomID).Msg("failed to marshal tick event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("ownerId", c.ownerID).Str("roomId", roomID).Msg("dropping tick event, buffer full")
		}
	}
}

// SubscriberCount returns the number of connections subscribed to a room.
func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
