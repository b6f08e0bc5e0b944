// Package live pushes like totals to websocket subscribers.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxMsgSize    = 4 * 1024
	sendBuffer    = 64
	maxEventsEach = 200
)

const TypeLikes = "likes"

// Message is pushed to subscribers of an event.
type Message struct {
	Type       string `json:"type"`
	EventID    string `json:"event_id"`
	TotalLikes int64  `json:"total_likes"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	events map[string]bool
}

// Hub fans like totals out to connected clients. It keeps no history: a
// client only sees changes made while it is subscribed.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts websocket upgrades from the given origins; an empty list or
// "*" allows any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishLikes sends the new total to every client subscribed to eventID.
// Clients whose buffer is full miss the update.
func (h *Hub) PublishLikes(eventID string, total int64) {
	data, err := json.Marshal(Message{Type: TypeLikes, EventID: eventID, TotalLikes: total})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.events[eventID] {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

// ServeLikes upgrades GET /ws/likes?event_id=... and blocks until the client leaves.
func (h *Hub) ServeLikes(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	cl := &client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		events: make(map[string]bool),
	}
	for _, id := range c.QueryArray("event_id") {
		if id != "" && len(cl.events) < maxEventsEach {
			cl.events[id] = true
		}
	}

	h.register(cl)
	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/likes", h.ServeLikes)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("websocket closed")
			}
			return
		}

		var cmd struct {
			Type    string `json:"type"`
			EventID string `json:"event_id"`
		}
		if err := json.Unmarshal(msg, &cmd); err != nil || cmd.EventID == "" {
			continue
		}

		h.mu.Lock()
		switch cmd.Type {
		case "subscribe":
			if len(c.events) < maxEventsEach {
				c.events[cmd.EventID] = true
			}
		case "unsubscribe":
			delete(c.events, cmd.EventID)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
