package httpapi

import (
	"context"
	"net/http"
	"time"

	"pizzeria-backend/internal/admin"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/orders"
	"pizzeria-backend/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Catalog *catalog.Service
	Carts   *cart.Service
	Orders  *orders.Service
	Users   *users.Service
	Admin   *admin.Service
	Logger  *zap.Logger
	Origins []string
	// Ping reports backing store health for /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(Logger(d.Logger))
	r.Use(Recovery(d.Logger))
	r.Use(cors.New(corsConfig(d.Origins)))

	authH := NewAuthHandler(d.Users, d.Carts, d.Logger)
	catalogH := NewCatalogHandler(d.Catalog, d.Logger)
	cartH := NewCartHandler(d.Carts, d.Logger)
	orderH := NewOrderHandler(d.Orders, d.Carts, d.Logger)
	adminH := NewAdminHandler(d.Admin, d.Logger)

	r.GET("/healthz", func(c *gin.Context) {
		if d.Ping != nil {
			if err := d.Ping(c.Request.Context()); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authed := Auth(d.Users)
	adminOnly := []gin.HandlerFunc{authed, AdminOnly()}

	// Auth
	api.POST("/auth/signup", authH.Signup)
	api.POST("/auth/login", authH.Login)
	api.GET("/auth/profile", authed, authH.Profile)
	api.PUT("/auth/profile", authed, authH.UpdateProfile)
	api.GET("/auth/users", append(adminOnly, authH.ListUsers)...)
	api.DELETE("/auth/users/:id", append(adminOnly, authH.DeleteUser)...)

	// Catalog
	api.GET("/pizzas", catalogH.ListPizzas)
	api.GET("/pizzas/:id", catalogH.GetPizza)
	api.GET("/menu", catalogH.Menu)
	api.POST("/pizzas", append(adminOnly, catalogH.AddPizza)...)
	api.POST("/pizzas/seed", append(adminOnly, catalogH.Seed)...)
	api.PUT("/pizzas/:id", append(adminOnly, catalogH.UpdatePizza)...)
	api.DELETE("/pizzas/:id", append(adminOnly, catalogH.DeletePizza)...)
	api.GET("/toppings", catalogH.ListToppings)
	api.POST("/toppings", append(adminOnly, catalogH.AddTopping)...)
	api.POST("/pricing/quote", catalogH.Quote)

	// Cart
	cartGroup := api.Group("/cart", authed)
	{
		cartGroup.GET("", cartH.Get)
		cartGroup.POST("", cartH.Add)
		cartGroup.POST("/clear", cartH.Clear)
		cartGroup.PUT("/:cartItemId", cartH.UpdateQuantity)
		cartGroup.DELETE("/:cartItemId", cartH.Remove)
	}

	// Orders
	api.POST("/orders", authed, orderH.Checkout)
	api.GET("/orders", append(adminOnly, orderH.ListAll)...)
	api.GET("/orders/mine", authed, orderH.ListMine)
	api.GET("/orders/user/:userId", authed, orderH.ListForUser)
	api.GET("/orders/:id", authed, orderH.Get)

	// Admin
	adminGroup := api.Group("/admin", adminOnly...)
	{
		adminGroup.GET("/stats", adminH.Stats)
		adminGroup.GET("/orders/export", adminH.ExportOrders)
	}

	return r
}

// corsConfig allows the listed origins with credentials, or any origin
// without credentials when none are listed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
