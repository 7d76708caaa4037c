package routes

import (
	"net/http"

	"github.com/MdeMedina/saboresdelhogar/controllers"
	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/middlewares"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/ws"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls. main builds it once.
type Services struct {
	Catalog   *services.CatalogService
	Carts     *services.CartService
	Orders    *services.OrderService
	Auth      *services.AuthService
	Favorites *services.FavoriteService
	Admin     *services.AdminService
	Hub       *ws.CartHub
}

func RegisterRoutes(r *gin.Engine, svc Services) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Controllers
	catalogCtrl := controllers.NewCatalogController(svc.Catalog)
	authCtrl := controllers.NewAuthController(svc.Auth)
	cartCtrl := controllers.NewCartController(svc.Carts)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	favCtrl := controllers.NewFavoriteController(svc.Favorites)
	adminCtrl := controllers.NewAdminController(svc.Admin)

	// Catalog (public)
	m := r.Group("/menu")
	{
		m.GET("", catalogCtrl.List)
		m.GET("/categories", catalogCtrl.Categories)
		m.GET("/:id", catalogCtrl.Detail)
	}

	// Device scoped: a bearer session is optional and its device wins.
	device := r.Group("/", middlewares.OptionalAuth(svc.Auth), middlewares.DeviceKey())

	a := device.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/session", authCtrl.Session)
	}
	r.POST("/auth/logout", middlewares.RequireAuth(svc.Auth), middlewares.DeviceKey(), authCtrl.Logout)

	cart := device.Group("/cart")
	{
		cart.GET("", cartCtrl.Get)
		cart.DELETE("", cartCtrl.Clear)
		cart.POST("/items", cartCtrl.Add)
		cart.PATCH("/items/:itemId", cartCtrl.UpdateQty)
		cart.DELETE("/items/:itemId", cartCtrl.RemoveItem)
	}

	o := device.Group("/orders")
	{
		o.POST("", orderCtrl.Create)
		o.GET("", orderCtrl.History)
		o.GET("/:id", orderCtrl.Detail)
	}

	f := device.Group("/favorites")
	{
		f.GET("", favCtrl.List)
		f.POST("/:itemId", favCtrl.Add)
		f.DELETE("/:itemId", favCtrl.Remove)
		f.POST("/:itemId/toggle", favCtrl.Toggle)
	}

	// Admin (admin only)
	ad := r.Group("/admin", middlewares.RequireAuth(svc.Auth, entity.RoleAdmin))
	{
		ad.GET("/dashboard", adminCtrl.Dashboard)
		ad.GET("/products", adminCtrl.Products)
		ad.GET("/products/export", adminCtrl.Export)
	}

	if svc.Hub != nil {
		device.GET("/ws/cart", svc.Hub.HandleWebSocket(svc.Carts))
	}
}
