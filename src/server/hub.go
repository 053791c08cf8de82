package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/TheHeat/moods/src/moods"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Message is pushed to every connected page.
type Message struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Mode      string      `json:"mode,omitempty"`
	Data      interface{} `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub fans messages out to websocket clients. Run owns the client set.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client, 10),
		unregister: make(chan *client, 10),
		broadcast:  make(chan []byte, 100),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast until ctx is done. It must be
// called at most once.
func (h *Hub) Run(ctx context.Context) {
	moods.Debugf("[ws] hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for cl := range h.clients {
				delete(h.clients, cl)
				close(cl.send)
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl] = true
			n := len(h.clients)
			h.mu.Unlock()
			moods.Debugf("[ws] client %s connected (total %d)", cl.id, n)

		case cl := <-h.unregister:
			h.remove(cl)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*client
			for cl := range h.clients {
				select {
				case cl.send <- msg:
				default:
					slow = append(slow, cl)
				}
			}
			h.mu.RUnlock()
			for _, cl := range slow {
				moods.Warnf("[ws] send buffer full for %s, dropping client", cl.id)
				h.remove(cl)
			}
		}
	}
}

// join hands cl to Run. It reports false once the hub has stopped.
func (h *Hub) join(cl *client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- cl:
		return true
	case <-h.done:
		return false
	}
}

// leave hands cl back to Run; after Run has returned it is a no-op.
func (h *Hub) leave(cl *client) {
	select {
	case h.unregister <- cl:
	case <-h.done:
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
		moods.Debugf("[ws] client %s disconnected (remaining %d)", cl.id, len(h.clients))
	}
}

// ClientCount reports connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish encodes m and queues it for every client.
func (h *Hub) Publish(m Message) {
	if m.Timestamp == "" {
		m.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(m)
	if err != nil {
		moods.Errorf("[ws] encode %s message: %v", m.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		moods.Warnf("[ws] broadcast queue full, dropping %s message", m.Type)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				moods.Warnf("[ws] read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
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

// handleWS upgrades the request and registers the connection.
func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		moods.Warnf("[ws] upgrade failed: %v", err)
		return
	}
	cl := &client{
		id:   fmt.Sprintf("%s_%d", c.ClientIP(), time.Now().UnixNano()),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}
	if !h.join(cl) {
		moods.Debugf("[ws] hub stopped, closing %s", cl.id)
		conn.Close()
		return
	}
	go cl.writePump()
	go cl.readPump()
}
