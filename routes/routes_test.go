package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MdeMedina/saboresdelhogar/internal/testutil"
	"github.com/MdeMedina/saboresdelhogar/middlewares"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type envelope struct {
	OK    bool            `json:"ok"`
	Code  string          `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	r      *gin.Engine
	device string
	token  string
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := zap.NewNop()
	locks := services.NewDeviceLocks()
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalog := services.NewCatalogService(testutil.Catalog(t))
	carts := services.NewCartService(db, cartRepo, catalog, locks, nil, decimal.RequireFromString("0.19"), log)
	auth := services.NewAuthService(db,
		repository.NewUserRepository(db), repository.NewSessionRepository(db),
		carts, locks, nil,
		services.AuthConfig{JWTSecret: "test", SessionTTL: time.Hour, AdminEmail: "admin@sabores.cl"},
		log,
	)

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.ZapLogger(log))
	RegisterRoutes(r, Services{
		Catalog:   catalog,
		Carts:     carts,
		Orders:    services.NewOrderService(db, orderRepo, cartRepo, locks, nil, log),
		Auth:      auth,
		Favorites: services.NewFavoriteService(repository.NewFavoriteRepository(db), catalog, locks, log),
		Admin:     services.NewAdminService(db, catalog, orderRepo),
	})
	return r
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.device != "" {
		req.Header.Set(middlewares.DeviceHeader, c.device)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("%s %s: bad body %q", method, path, w.Body.String())
		}
	}
	return w, env
}

func (c *client) expect(method, path string, body any, status int) envelope {
	c.t.Helper()
	w, env := c.do(method, path, body)
	if w.Code != status {
		c.t.Fatalf("%s %s = %d, want %d (%s)", method, path, w.Code, status, w.Body.String())
	}
	return env
}

func TestMenuRoutes(t *testing.T) {
	c := &client{t: t, r: newRouter(t)}

	var items []map[string]any
	env := c.expect(http.MethodGet, "/menu?vegetarian=true&available=true", nil, http.StatusOK)
	json.Unmarshal(env.Data, &items)
	if len(items) != 2 {
		t.Errorf("vegetarian+available = %d items, want 2", len(items))
	}

	env = c.expect(http.MethodGet, "/menu?q=", nil, http.StatusOK)
	json.Unmarshal(env.Data, &items)
	if len(items) != 0 {
		t.Errorf("blank search = %d items, want 0", len(items))
	}

	c.expect(http.MethodGet, "/menu?category=sopas", nil, http.StatusBadRequest)
	c.expect(http.MethodGet, "/menu/P1", nil, http.StatusOK)
	c.expect(http.MethodGet, "/menu/nope", nil, http.StatusNotFound)

	var groups []map[string]any
	env = c.expect(http.MethodGet, "/menu/categories", nil, http.StatusOK)
	json.Unmarshal(env.Data, &groups)
	if len(groups) != 4 {
		t.Errorf("categories = %d, want 4", len(groups))
	}
}

func TestDeviceHeaderRequired(t *testing.T) {
	c := &client{t: t, r: newRouter(t)}
	c.expect(http.MethodGet, "/cart", nil, http.StatusBadRequest)
}

func TestCheckoutFlow(t *testing.T) {
	c := &client{t: t, r: newRouter(t), device: "phone-1"}

	c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "P1"}, http.StatusOK)
	env := c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "P1"}, http.StatusOK)

	var sum services.CartSummary
	json.Unmarshal(env.Data, &sum)
	if sum.ItemCount != 2 || !sum.Total.Equal(decimal.NewFromInt(19000)) {
		t.Fatalf("summary = %+v", sum)
	}

	env = c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "nope"}, http.StatusNotFound)
	if env.Code != services.CodeItemNotFound {
		t.Errorf("code = %q", env.Code)
	}
	env = c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "D1"}, http.StatusBadRequest)
	if env.Code != services.CodeItemUnavailable {
		t.Errorf("code = %q", env.Code)
	}

	order := gin.H{"customerName": "Ana", "customerPhone": "555", "orderType": "DELIVERY"}
	env = c.expect(http.MethodPost, "/orders", order, http.StatusCreated)
	var created struct {
		ID    string          `json:"id"`
		Total decimal.Decimal `json:"total"`
	}
	json.Unmarshal(env.Data, &created)
	if !created.Total.Equal(decimal.NewFromInt(19000)) {
		t.Errorf("order total = %s", created.Total)
	}

	env = c.expect(http.MethodPost, "/orders", order, http.StatusBadRequest)
	if env.Code != services.CodeEmptyCart {
		t.Errorf("second submit code = %q, want EMPTY_CART", env.Code)
	}

	c.expect(http.MethodGet, "/orders/"+created.ID, nil, http.StatusOK)
	other := &client{t: t, r: c.r, device: "phone-2"}
	other.expect(http.MethodGet, "/orders/"+created.ID, nil, http.StatusNotFound)
}

func TestCartQuantityRoutes(t *testing.T) {
	c := &client{t: t, r: newRouter(t), device: "phone-1"}
	c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "E1"}, http.StatusOK)

	env := c.expect(http.MethodPatch, "/cart/items/E1", gin.H{"quantity": 5}, http.StatusOK)
	var sum services.CartSummary
	json.Unmarshal(env.Data, &sum)
	if sum.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", sum.ItemCount)
	}

	c.expect(http.MethodPatch, "/cart/items/E1", gin.H{}, http.StatusBadRequest)

	env = c.expect(http.MethodPatch, "/cart/items/E1", gin.H{"quantity": 0}, http.StatusOK)
	json.Unmarshal(env.Data, &sum)
	if sum.ItemCount != 0 {
		t.Errorf("ItemCount = %d after quantity 0", sum.ItemCount)
	}
}

func TestAuthAndAdminRoutes(t *testing.T) {
	r := newRouter(t)
	guest := &client{t: t, r: r, device: "phone-1"}

	reg := gin.H{"email": "cliente@sabores.cl", "password": "secreto1", "name": "Ana", "phone": "555"}
	env := guest.expect(http.MethodPost, "/auth/register", reg, http.StatusCreated)
	var sess struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &sess)

	env = guest.expect(http.MethodPost, "/auth/register", reg, http.StatusConflict)
	if env.Code != services.CodeEmailExists {
		t.Errorf("code = %q", env.Code)
	}
	env = guest.expect(http.MethodPost, "/auth/login", gin.H{"email": "x@y.cl", "password": "z"}, http.StatusUnauthorized)
	if env.Code != services.CodeInvalidCredentials {
		t.Errorf("code = %q", env.Code)
	}

	customer := &client{t: t, r: r, token: sess.Token}
	customer.expect(http.MethodGet, "/admin/products", nil, http.StatusForbidden)
	(&client{t: t, r: r}).expect(http.MethodGet, "/admin/products", nil, http.StatusUnauthorized)

	admin := &client{t: t, r: r, device: "tablet"}
	admin.expect(http.MethodPost, "/auth/register",
		gin.H{"email": "admin@sabores.cl", "password": "secreto1", "name": "Admin", "phone": "1"}, http.StatusCreated)
	env = admin.expect(http.MethodPost, "/auth/login", gin.H{"email": "admin@sabores.cl", "password": "secreto1"}, http.StatusOK)
	json.Unmarshal(env.Data, &sess)
	admin.token = sess.Token

	admin.expect(http.MethodGet, "/admin/products", nil, http.StatusOK)
	admin.expect(http.MethodGet, "/admin/dashboard", nil, http.StatusOK)
	w, _ := admin.do(http.MethodGet, "/admin/products/export", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Errorf("export = %d, %d bytes", w.Code, w.Body.Len())
	}

	// logout via token; the session endpoint then reports a guest
	admin.expect(http.MethodPost, "/auth/logout", nil, http.StatusOK)
	admin.token = ""
	env = admin.expect(http.MethodGet, "/auth/session", nil, http.StatusOK)
	var state struct {
		LoggedIn bool `json:"loggedIn"`
	}
	json.Unmarshal(env.Data, &state)
	if state.LoggedIn {
		t.Error("still logged in after logout")
	}
}

func TestSessionDeviceWins(t *testing.T) {
	r := newRouter(t)
	c := &client{t: t, r: r, device: "phone-1"}
	env := c.expect(http.MethodPost, "/auth/register",
		gin.H{"email": "ana@x.cl", "password": "secreto1", "name": "Ana", "phone": "555"}, http.StatusCreated)
	var sess struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &sess)

	c.expect(http.MethodPost, "/cart/items", gin.H{"itemId": "P1"}, http.StatusOK)

	// a different header with the same token still lands on phone-1's cart
	spoof := &client{t: t, r: r, device: "phone-9", token: sess.Token}
	env = spoof.expect(http.MethodGet, "/cart", nil, http.StatusOK)
	var sum services.CartSummary
	json.Unmarshal(env.Data, &sum)
	if sum.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want the session device's cart", sum.ItemCount)
	}
}

func TestFavoriteRoutes(t *testing.T) {
	c := &client{t: t, r: newRouter(t), device: "phone-1"}
	c.expect(http.MethodPost, "/favorites/P1", nil, http.StatusOK)
	c.expect(http.MethodPost, "/favorites/nope", nil, http.StatusNotFound)

	env := c.expect(http.MethodPost, "/favorites/P1/toggle", nil, http.StatusOK)
	var res struct {
		Favorite bool `json:"favorite"`
	}
	json.Unmarshal(env.Data, &res)
	if res.Favorite {
		t.Error("toggle of a favorite returned true")
	}

	var items []map[string]any
	env = c.expect(http.MethodGet, "/favorites", nil, http.StatusOK)
	json.Unmarshal(env.Data, &items)
	if len(items) != 0 {
		t.Errorf("favorites = %d, want 0", len(items))
	}
}
