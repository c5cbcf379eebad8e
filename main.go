package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitstore/internal/config"
	"bitstore/internal/handlers"
	"bitstore/internal/middleware"
	"bitstore/internal/models"
	"bitstore/internal/policy"
	"bitstore/internal/repositories"
	"bitstore/internal/services"
	"bitstore/pkg/logger"
	"bitstore/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogPath, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("port", cfg.App.Port),
		zap.Bool("debug", cfg.App.Debug),
	)

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.RefreshToken{},
	); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}
	zlog.Info("database connected")

	// --- Redis (rate limiting) ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		zlog.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}
	cancel()

	// --- RabbitMQ (catalog events) ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL})
	if err != nil {
		zlog.Warn("RabbitMQ unavailable, catalog events disabled", zap.Error(err))
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	tokenRepo := repositories.NewGORMRefreshTokenRepository(db)

	// --- Services ---
	pol := policy.New(productRepo)
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWT, zlog)
	categoryService := services.NewCategoryService(categoryRepo, pol, zlog)
	productService := services.NewProductService(productRepo, categoryRepo, pol, mqClient, zlog)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, zlog)
	categoryHandler := handlers.NewCategoryHandler(categoryService, zlog)
	productHandler := handlers.NewProductHandler(productService, zlog)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	rateLimit := middleware.RateLimit(redisClient, cfg.Redis.RateLimit, cfg.Redis.RateWindow, zlog)
	authRequired := middleware.AuthRequired(authService, userRepo, zlog)
	adminRequired := middleware.AdminRequired()

	authHandler.RegisterRoutes(app, rateLimit, authRequired)

	protected := app.Group("", authRequired)
	categoryHandler.RegisterRoutes(protected, adminRequired)
	productHandler.RegisterRoutes(protected)

	// --- Catalog event consumer ---
	// Keeps an audit trail of catalog mutations; consumers with real work
	// (cache invalidation, search indexing) would hang off the same queue.
	if mqClient != nil {
		err := mqClient.ConsumeCatalogEvents(func(msg amqp.Delivery) error {
			zlog.Info("catalog event",
				zap.String("routing_key", msg.RoutingKey),
				zap.ByteString("body", msg.Body))
			return nil
		})
		if err != nil {
			zlog.Warn("failed to start catalog event consumer", zap.Error(err))
		}
	}

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.App.Port); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
