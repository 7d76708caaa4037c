package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MdeMedina/saboresdelhogar/configs"
	"github.com/MdeMedina/saboresdelhogar/middlewares"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/MdeMedina/saboresdelhogar/routes"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/ws"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	// prices go out as JSON numbers, like the catalog file
	decimal.MarshalJSONWithoutQuotes = true

	logger, err := configs.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *configs.Config, logger *zap.Logger) error {
	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return err
	}
	if err := configs.SeedAdmin(db, cfg, logger); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Catalog
	catalogRepo, err := repository.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("items", len(catalogRepo.All())))

	// Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewCartHub(logger.Named("ws"))
	go hub.Run(ctx)

	locks := services.NewDeviceLocks()
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalog := services.NewCatalogService(catalogRepo)
	carts := services.NewCartService(db, cartRepo, catalog, locks, hub, cfg.TaxRate, logger.Named("cart"))
	orders := services.NewOrderService(db, orderRepo, cartRepo, locks, hub, logger.Named("order"))
	auth := services.NewAuthService(db,
		repository.NewUserRepository(db), repository.NewSessionRepository(db),
		carts, locks, hub,
		services.AuthConfig{JWTSecret: cfg.JWTSecret, SessionTTL: cfg.SessionTTL, AdminEmail: cfg.AdminEmail},
		logger.Named("auth"),
	)
	favorites := services.NewFavoriteService(repository.NewFavoriteRepository(db), catalog, locks, logger.Named("favorites"))
	admin := services.NewAdminService(db, catalog, orderRepo)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.ZapLogger(logger.Named("http")))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))

	routes.RegisterRoutes(r, routes.Services{
		Catalog: catalog, Carts: carts, Orders: orders, Auth: auth,
		Favorites: favorites, Admin: admin, Hub: hub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
