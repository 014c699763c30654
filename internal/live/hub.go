package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"gamespace/internal/rooms"
	"gamespace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// MessageAvailability is the only message type the hub sends
const MessageAvailability = "availability"

// Message is one availability snapshot pushed to every subscriber
type Message struct {
	Type      string               `json:"type"`
	Date      string               `json:"date"`
	Rooms     []rooms.Availability `json:"rooms"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Hub fans availability snapshots out to websocket subscribers. Writes
// happen under the hub lock, so a connection never sees two writers.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
	last []byte
}

func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{subs: make(map[*websocket.Conn]struct{})}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWS upgrades the request and keeps the subscriber until it goes away.
// A new subscriber gets the latest snapshot straight away.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already answered the request
		logger.GetDefault().WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.last != nil {
		if err := write(conn, h.last); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.subs[conn] = struct{}{}
	h.mu.Unlock()

	// reads only detect the disconnect; clients have nothing to say
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends msg to every subscriber and drops the ones that fail
func (h *Hub) Broadcast(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = payload
	for conn := range h.subs {
		if err := write(conn, payload); err != nil {
			delete(h.subs, conn)
			conn.Close()
		}
	}
	return nil
}

// Subscribers is the number of live connections
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.subs, conn)
	}
}

func write(conn *websocket.Conn, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
