package main

import (
	"net/http"

	"lease-service/internal/allocation"
	"lease-service/internal/audit"
	"lease-service/internal/handler"
	"lease-service/internal/lease"
	mid "lease-service/internal/middleware"
	"lease-service/internal/penalty"
	"lease-service/internal/repository"
	"lease-service/pkg/config"
	"lease-service/pkg/database"
	"lease-service/pkg/jwtutil"
	"lease-service/pkg/logger"
	"lease-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Just log a warning, don't fail if .env file is not found
		// This allows the service to run in environments where env vars are set differently
		// such as production environments with proper environment configuration
		// The fallback values will be used in case env vars are not set
	}

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting lease-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the lease service
	db := database.GetDB()
	store := repository.NewStore(db)
	allocator := allocation.NewWaterfallAllocator()
	penaltyCalc := penalty.NewCalculator(db, appConfig.Penalty.RatePercent)
	changeLog := audit.NewZapSink(log)
	leaseService := lease.NewService(store, allocator, penaltyCalc, changeLog, log)
	leaseHandler := handler.NewLeaseHandler(leaseService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Lease API routes - Apply auth middleware to validate JWT and extract the operator
	leaseAPI := e.Group("/api/leases", mid.AuthMiddleware)
	leaseAPI.POST("", leaseHandler.CreateLease)
	leaseAPI.GET("/:id", leaseHandler.GetLease)
	leaseAPI.PUT("/:id", leaseHandler.UpdateLease)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
