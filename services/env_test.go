package services

import (
	"sync"
	"testing"
	"time"

	"github.com/MdeMedina/saboresdelhogar/internal/testutil"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@sabores.cl"

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]Event
}

func (n *recordingNotifier) Publish(key string, ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[string][]Event{}
	}
	n.events[key] = append(n.events[key], ev)
}

func (n *recordingNotifier) types(key string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, ev := range n.events[key] {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	catalog   *CatalogService
	carts     *CartService
	orders    *OrderService
	auth      *AuthService
	favorites *FavoriteService
	admin     *AdminService
	notes     *recordingNotifier
	clock     *testutil.Clock
	db        *gorm.DB
}

func newEnv(t testing.TB) *testEnv {
	t.Helper()
	return newEnvOn(t, testutil.NewDB(t))
}

// newEnvOn wires the services over an already migrated database.
func newEnvOn(t testing.TB, db *gorm.DB) *testEnv {
	t.Helper()
	log := zap.NewNop()
	notes := &recordingNotifier{}
	clock := testutil.NewClock(time.Date(2024, 9, 18, 12, 0, 0, 0, time.UTC))

	locks := NewDeviceLocks()
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalog := NewCatalogService(testutil.Catalog(t))
	carts := NewCartService(db, cartRepo, catalog, locks, notes, decimal.RequireFromString("0.19"), log)
	orders := NewOrderService(db, orderRepo, cartRepo, locks, notes, log)
	orders.now = clock.Now
	auth := NewAuthService(db,
		repository.NewUserRepository(db), repository.NewSessionRepository(db),
		carts, locks, notes,
		AuthConfig{JWTSecret: "test-secret", SessionTTL: 24 * time.Hour, AdminEmail: testAdminEmail},
		log,
	)
	auth.now = clock.Now
	favorites := NewFavoriteService(repository.NewFavoriteRepository(db), catalog, locks, log)
	favorites.now = clock.Now
	admin := NewAdminService(db, catalog, orderRepo)
	admin.now = clock.Now

	return &testEnv{
		catalog: catalog, carts: carts, orders: orders, auth: auth,
		favorites: favorites, admin: admin, notes: notes, clock: clock, db: db,
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %s", code)
	}
	if got := CodeOf(err); got != code {
		t.Fatalf("code = %q (%v), want %q", got, err, code)
	}
}
