package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzeria-backend/internal/admin"
	"pizzeria-backend/internal/cart"
	"pizzeria-backend/internal/catalog"
	"pizzeria-backend/internal/config"
	"pizzeria-backend/internal/events"
	"pizzeria-backend/internal/httpapi"
	"pizzeria-backend/internal/mongox"
	"pizzeria-backend/internal/orders"
	"pizzeria-backend/internal/redisx"
	"pizzeria-backend/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("cart_store", cfg.CartStore),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo
	client, err := mongox.Connect(ctx, cfg.MongoURL)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(cfg.MongoDatabase)
	if err := mongox.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	// Cart storage
	store, closeStore := cartStore(ctx, cfg, db, logger)
	defer closeStore()

	// Kafka producer
	var publisher events.Publisher = events.Nop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(brokers, 1024, logger)
		kp.Start()
		publisher = kp
	}
	defer publisher.Close()

	// Services
	catalogSvc := catalog.NewService(catalog.NewMongoRepository(db), logger)
	cartSvc := cart.NewService(store, catalogSvc, logger)
	orderSvc := orders.NewService(orders.NewMongoRepository(db, logger), publisher, logger, orders.Options{
		DeliveryFee:    cfg.Fee(),
		DeliveryWindow: cfg.DeliveryWindow,
		Producer:       cfg.ServiceName,
	})
	userSvc := users.NewService(users.NewMongoRepository(db), users.NewTokens(cfg.JWTSecret, cfg.TokenTTL), cfg.AdminEmail, logger)
	adminSvc := admin.NewService(userSvc, catalogSvc, orderSvc, logger)

	bootstrap(ctx, catalogSvc, userSvc, cfg, logger)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Deps{
		Catalog: catalogSvc,
		Carts:   cartSvc,
		Orders:  orderSvc,
		Users:   userSvc,
		Admin:   adminSvc,
		Logger:  logger,
		Origins: cfg.Origins(),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// cartStore picks the cart backend named by CART_STORE.
func cartStore(ctx context.Context, cfg *config.Config, db *mongo.Database, logger *zap.Logger) (cart.Store, func()) {
	switch cfg.CartStore {
	case "mongo":
		return cart.NewMongoStore(db), func() {}
	case "memory":
		logger.Warn("carts are kept in memory and lost on restart")
		return cart.NewMemoryStore(), func() {}
	default:
		rdb := redisx.New(cfg.RedisAddr)
		if err := redisx.Ping(ctx, rdb); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		return cart.NewRedisStore(rdb, cfg.CartTTL), func() { _ = rdb.Close() }
	}
}

// bootstrap runs the startup data tasks. Failures are logged; the API still
// serves whatever data is already there.
func bootstrap(ctx context.Context, catalogSvc *catalog.Service, userSvc *users.Service, cfg *config.Config, logger *zap.Logger) {
	if _, err := catalogSvc.SeedPizzas(ctx); err != nil {
		logger.Error("menu seed failed", zap.Error(err))
	}
	if err := catalogSvc.SeedToppings(ctx); err != nil {
		logger.Error("topping seed failed", zap.Error(err))
	}
	if err := userSvc.Backfill(ctx); err != nil {
		logger.Error("user backfill failed", zap.Error(err))
	}
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", zap.Error(err))
	}
}
