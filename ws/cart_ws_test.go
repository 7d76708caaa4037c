package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MdeMedina/saboresdelhogar/internal/testutil"
	"github.com/MdeMedina/saboresdelhogar/middlewares"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestHubPushesCartEventsPerDevice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewCartHub(zap.NewNop())
	go hub.Run(ctx)

	db := testutil.NewDB(t)
	catalog := services.NewCatalogService(testutil.Catalog(t))
	carts := services.NewCartService(db, repository.NewCartRepository(db), catalog,
		services.NewDeviceLocks(), hub, decimal.RequireFromString("0.19"), zap.NewNop())

	r := gin.New()
	r.GET("/ws/cart", middlewares.DeviceKey(), hub.HandleWebSocket(carts))
	srv := httptest.NewServer(r)
	defer srv.Close()

	dial := func(device string) *websocket.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cart?device=" + device
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %s: %v", device, err)
		}
		t.Cleanup(func() { conn.Close() })

		// initial snapshot
		var ev services.Event
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&ev); err != nil || ev.Type != services.EventCartUpdated {
			t.Fatalf("snapshot = %+v, %v", ev, err)
		}
		return conn
	}
	mine, other := dial("dev-1"), dial("dev-2")

	if _, err := carts.AddItem(context.Background(), "dev-1", "P1"); err != nil {
		t.Fatal(err)
	}

	var ev struct {
		Type string `json:"type"`
		Data struct {
			ItemCount int `json:"itemCount"`
		} `json:"data"`
	}
	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := mine.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != services.EventCartUpdated || ev.Data.ItemCount != 1 {
		t.Errorf("event = %+v", ev)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if err := other.ReadJSON(&ev); err == nil {
		t.Errorf("dev-2 received dev-1's event: %+v", ev)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewCartHub(zap.NewNop()) // Run not started, queue fills up
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish("dev-1", services.Event{Type: services.EventCartUpdated})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func newTestServer(t *testing.T, hub *CartHub) (*httptest.Server, *services.CartService) {
	t.Helper()
	db := testutil.NewDB(t)
	catalog := services.NewCatalogService(testutil.Catalog(t))
	carts := services.NewCartService(db, repository.NewCartRepository(db), catalog,
		services.NewDeviceLocks(), hub, decimal.RequireFromString("0.19"), zap.NewNop())

	r := gin.New()
	r.GET("/ws/cart", middlewares.DeviceKey(), hub.HandleWebSocket(carts))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, carts
}

func dialDevice(t *testing.T, srv *httptest.Server, device string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cart?device=" + device
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", device, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSubscribedBeforeSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewCartHub(zap.NewNop())
	go hub.Run(ctx)
	srv, _ := newTestServer(t, hub)

	conn := dialDevice(t, srv, "dev-1")
	var ev services.Event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil || ev.Type != services.EventCartUpdated {
		t.Fatalf("snapshot = %+v, %v", ev, err)
	}
	if got := hub.Subscribers("dev-1"); got != 1 {
		t.Errorf("Subscribers after snapshot = %d, want 1", got)
	}
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewCartHub(zap.NewNop())
	hub.writeWait = 100 * time.Millisecond
	go hub.Run(ctx)
	srv, carts := newTestServer(t, hub)

	// never reads after the dial
	dialDevice(t, srv, "stalled")
	live := dialDevice(t, srv, "live")
	var ev services.Event
	live.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := live.ReadJSON(&ev); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	big := services.Event{Type: services.EventCartUpdated, Data: strings.Repeat("x", 256<<10)}
	deadline := time.Now().Add(10 * time.Second)
	for hub.Subscribers("stalled") > 0 {
		if time.Now().After(deadline) {
			t.Fatal("stalled client was never dropped")
		}
		hub.Publish("stalled", big)
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := carts.AddItem(context.Background(), "live", "P1"); err != nil {
		t.Fatal(err)
	}
	live.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := live.ReadJSON(&ev); err != nil || ev.Type != services.EventCartUpdated {
		t.Errorf("live event = %+v, %v", ev, err)
	}
}
