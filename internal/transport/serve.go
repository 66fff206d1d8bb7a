package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Pump tuning, grounded on this codebase's ws_handler.go constants.
const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ClientMessage is the envelope for inbound subscribe/unsubscribe requests.
// Drawing an arrow or founding a nation is not part of this envelope: those
// reach the engine as engine.Command through a room's Host.Enqueue, not
// through the transport layer (spec.md §1: transport is an external
// collaborator, not part of the simulation core).
type ClientMessage struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	RoomID string `json:"room_id"`
}

// Handler upgrades HTTP requests to WebSocket connections and drives their
// read/write pumps. Grounded on this codebase's WSHandler/ServeWS.
type Handler struct {
	hub *Hub
}

// NewHandler creates a Handler bound to hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeWS upgrades the request to a WebSocket connection for ownerID and
// starts its pumps. Authenticating ownerID from the request is the external
// lobby/auth layer's job (spec.md §1); this handler trusts whatever the
// caller already resolved.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request, ownerID string) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &Conn{conn: wsConn, ownerID: ownerID, send: make(chan []byte, sendBufSize)}
	h.hub.Register(c)

	welcome, _ := json.Marshal(Event{Type: "connected"})
	c.send <- welcome

	go h.writePump(c)
	go h.readPump(c)

	log.Info().Str("ownerId", ownerID).Int("total", h.hub.ConnectionCount()).Msg("websocket client connected")
}

// readPump reads subscribe/unsubscribe requests until the connection closes,
// then unregisters it from every room it was subscribed to.
func (h *Handler) readPump(c *Conn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("ownerId", c.ownerID).Msg("websocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("ownerId", c.ownerID).Msg("websocket unexpected close")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Action {
		case "subscribe":
			if msg.RoomID != "" {
				h.hub.Subscribe(c, msg.RoomID)
			}
		case "unsubscribe":
			if msg.RoomID != "" {
				h.hub.Unsubscribe(c, msg.RoomID)
			}
		}
	}
}

// writePump drains c.send to the underlying WebSocket connection and keeps
// it alive with periodic pings, coalescing any messages queued behind the
// one it is currently writing into the same frame.
func (h *Handler) writePump(c *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
