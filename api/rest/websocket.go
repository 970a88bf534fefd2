package rest

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/abcfe/avax-types/common/logger"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSEventType event type
type WSEventType string

const (
	EventConnected      WSEventType = "connected"
	EventDigestSigned   WSEventType = "digest_signed"
	EventSigningFailed  WSEventType = "signing_failed"
	EventMessageEncoded WSEventType = "message_encoded"
)

// WSMessage WebSocket message structure
type WSMessage struct {
	Event WSEventType `json:"event"`
	Data  interface{} `json:"data"`
}

// SignEvent is published for every digest the custody API signs or fails to sign.
type SignEvent struct {
	KeyID     string `json:"keyId"`
	Digest    string `json:"digest"`
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EncodeEvent is published for every message the encode endpoint serializes.
type EncodeEvent struct {
	Op   string `json:"op"`
	Size int    `json:"size"`
}

// WSHub fans events out to connected clients. Publishing never blocks the
// request that produced the event; events are dropped when the hub is
// saturated.
type WSHub struct {
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

// WSClient WebSocket client
type WSClient struct {
	hub  *WSHub
	conn *websocket.Conn
	send chan []byte
}

func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 64),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		quit:       make(chan struct{}),
	}
}

// Run runs the Hub until Close
func (h *WSHub) Run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("WebSocket client connected. Total:", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("WebSocket client disconnected. Total:", h.ClientCount())

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				logger.Error("Failed to marshal WebSocket message:", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *WSHub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

// Publish queues an event for all clients.
func (h *WSHub) Publish(event WSEventType, data interface{}) {
	select {
	case h.broadcast <- WSMessage{Event: event, Data: data}:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping ", event)
	}
}

func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the connection, registers the client and greets
// it with the current service status.
func HandleWebSocket(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error:", err)
			return
		}

		client := &WSClient{
			hub:  s.hub,
			conn: conn,
			send: make(chan []byte, 256),
		}

		// queued before register so it precedes any broadcast
		data, _ := json.Marshal(WSMessage{Event: EventConnected, Data: s.status()})
		client.send <- data

		select {
		case s.hub.register <- client:
		case <-s.hub.quit:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

func (c *WSClient) writePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				logger.Error("WebSocket write error:", err)
			} else {
				logger.Debug("WebSocket write closed:", err)
			}
			return
		}
	}
}

// readPump drains client frames until the peer goes away. Clients only listen.
func (c *WSClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error:", err)
			} else {
				logger.Debug("WebSocket client disconnected:", err)
			}
			return
		}
	}
}
