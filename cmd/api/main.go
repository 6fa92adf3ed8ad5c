package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/sushil23harsana/Task-management/internal/ai"
	"github.com/sushil23harsana/Task-management/internal/api/handlers"
	"github.com/sushil23harsana/Task-management/internal/api/middleware"
	"github.com/sushil23harsana/Task-management/internal/api/routes"
	"github.com/sushil23harsana/Task-management/internal/domain/analytics"
	"github.com/sushil23harsana/Task-management/internal/domain/task"
	"github.com/sushil23harsana/Task-management/internal/domain/user"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/cache"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/persistence/postgres/connection"
	"github.com/sushil23harsana/Task-management/internal/infrastructure/persistence/postgres/migrations"
	"github.com/sushil23harsana/Task-management/pkg/config"
	"github.com/sushil23harsana/Task-management/pkg/logger"
	"github.com/sushil23harsana/Task-management/pkg/security/auth"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))

	metrics := middleware.NewMetricsMiddleware()
	router.Use(metrics.CollectMetrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Rate limiter for the public auth endpoints
	rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 60)

	// AI client logger
	aiLogger := logrus.New()
	aiLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		aiLogger.SetLevel(logrus.InfoLevel)
	} else {
		aiLogger.SetLevel(logrus.DebugLevel)
	}
	aiClient := ai.NewClient(cfg.AI, aiLogger)

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)

	// Initialize services
	userService := user.NewService(userRepo, log.Logger)
	taskService := task.NewService(taskRepo, redisClient, log.Logger)
	analyticsService := analytics.NewService(analyticsRepo, taskRepo, aiClient, log.Logger)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTExpiryHours)
	taskHandler := handlers.NewTaskHandler(taskService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Register routes
	routes.NewUserRoutes(userHandler, cfg.Auth.JWTSecret, rateLimiter).RegisterRoutes(router)
	routes.NewTaskRoutes(taskHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewAnalyticsRoutes(analyticsHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.SetupHealthRoutes(router, db, redisClient)

	// Start the server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
