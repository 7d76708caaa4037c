package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// CartHub pushes cart and order events to every websocket a device has
// open. It implements services.Notifier.
type CartHub struct {
	clients    map[string]map[*websocket.Conn]bool // device -> connections
	broadcast  chan deviceEvent
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex // guards clients and every write to a conn
	writeWait  time.Duration
	log        *zap.Logger
}

// Subscription is one websocket connection of a device.
type Subscription struct {
	Conn      *websocket.Conn
	DeviceKey string
}

type deviceEvent struct {
	DeviceKey string
	Event     services.Event
}

func NewCartHub(log *zap.Logger) *CartHub {
	return &CartHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan deviceEvent, 256),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		writeWait:  10 * time.Second,
		log:        log,
	}
}

// Publish queues ev for the device's subscribers. When the queue is full
// the event is dropped; clients resync on the next one.
func (h *CartHub) Publish(deviceKey string, ev services.Event) {
	select {
	case h.broadcast <- deviceEvent{DeviceKey: deviceKey, Event: ev}:
	default:
		h.log.Warn("ws queue full, event dropped", zap.String("device", deviceKey), zap.String("type", ev.Type))
	}
}

// Run serves unregister/broadcast until ctx is done, then closes
// every connection.
func (h *CartHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for key, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
				delete(h.clients, key)
			}
			h.mu.Unlock()
			return

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.DeviceKey][sub.Conn]; ok {
				delete(h.clients[sub.DeviceKey], sub.Conn)
				if len(h.clients[sub.DeviceKey]) == 0 {
					delete(h.clients, sub.DeviceKey)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.DeviceKey] {
				if err := h.write(conn, msg.Event); err != nil {
					h.log.Debug("ws write error", zap.String("device", msg.DeviceKey), zap.Error(err))
					conn.Close()
					delete(h.clients[msg.DeviceKey], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// write sends one frame. The deadline keeps a client that stopped reading
// from stalling delivery to every other device. Callers hold h.mu.
func (h *CartHub) write(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// Subscribers reports how many connections the device has open.
func (h *CartHub) Subscribers(deviceKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[deviceKey])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws/cart. The connection is registered
// before the current cart is sent as the first frame, so no change made in
// between is lost.
func (h *CartHub) HandleWebSocket(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.DeviceKey(c)
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Debug("ws upgrade error", zap.Error(err))
			return
		}

		// Holding mu keeps broadcasts for this device behind the snapshot.
		h.mu.Lock()
		defer h.mu.Unlock()
		select {
		case <-h.done:
			conn.Close()
			return
		default:
		}
		sub := Subscription{Conn: conn, DeviceKey: key}
		if h.clients[key] == nil {
			h.clients[key] = make(map[*websocket.Conn]bool)
		}
		h.clients[key][conn] = true
		go h.listen(sub)

		summary, err := carts.Summary(c.Request.Context(), key)
		if err != nil {
			h.log.Warn("ws snapshot failed", zap.String("device", key), zap.Error(err))
			conn.Close()
			return
		}
		if err := h.write(conn, services.Event{Type: services.EventCartUpdated, Data: summary}); err != nil {
			conn.Close()
		}
	}
}

// listen drains client frames until the connection closes. Clients only
// receive; anything they send is ignored.
func (h *CartHub) listen(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
