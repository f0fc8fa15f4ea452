package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat_gateway/internal/backplane"
	"chat_gateway/internal/config"
	"chat_gateway/internal/gateway"
	"chat_gateway/internal/handler"
	"chat_gateway/internal/middleware"
	"chat_gateway/internal/repository"
	"chat_gateway/internal/service"
	"chat_gateway/internal/storage"
	"chat_gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level).With("node_id", cfg.Backplane.NodeID)

	// Подключение к PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to parse database DSN", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	files := storage.NewDiskStorage(cfg.Storage.Dir, cfg.Storage.PublicURL, cfg.Storage.MaxUploadSize, appLogger)
	services := service.NewServices(repos, files, cfg, appLogger)

	// Шлюз и бэкплейн
	hub := gateway.NewHub(appLogger)
	propagator := backplane.NewPropagator(backplane.Config{
		NodeID:         cfg.Backplane.NodeID,
		Channel:        cfg.Backplane.Channel,
		QueueSize:      cfg.Backplane.QueueSize,
		PublishTimeout: cfg.Backplane.PublishTimeout,
	}, hub, backplane.NewRedisTransport(rdb), appLogger)
	gw := gateway.New(services.Room, services.Message, propagator, hub, cfg.Gateway.CollaboratorTimeout, appLogger)

	backplaneCtx, stopBackplane := context.WithCancel(context.Background())
	if err := propagator.Start(backplaneCtx); err != nil {
		appLogger.Fatal("Failed to start backplane", "error", err)
	}
	appLogger.Info("Backplane subscribed", "channel", cfg.Backplane.Channel, "origin", propagator.NodeID())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)
	handlers := handler.NewHandlers(services, gw, hub, cfg, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, files, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout)
	defer cancel()

	// WebSocket подключения Shutdown не закрывает, ждем только начатые события
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	if err := gw.Drain(ctx); err != nil {
		appLogger.Warn("In-flight events were not drained", "error", err)
	}

	stopBackplane()
	propagator.Wait()

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	files *storage.DiskStorage,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Check)

	// Загруженные файлы
	router.Static(cfg.Storage.PublicURL, files.Dir())

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth(), rateLimitMiddleware.Limit())
	{
		rooms := v1.Group("/rooms/:id")
		{
			rooms.GET("/messages", handlers.Chat.GetMessages)
			rooms.GET("/media/:type", handlers.Chat.GetMedia)
		}
	}

	// WebSocket endpoint для чата
	ws := router.Group("/ws", authMiddleware.RequireAuth(), rateLimitMiddleware.Limit())
	{
		ws.GET("/chat", handlers.WebSocket.HandleChat)
		ws.GET("/chat/:id", handlers.WebSocket.HandleChat)
	}

	return router
}
