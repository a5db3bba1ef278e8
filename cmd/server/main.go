package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/app"
	"tourbook/internal/auth"
	"tourbook/internal/config"
	"tourbook/internal/handler"
	"tourbook/internal/maps"
	internalRedis "tourbook/internal/redis"
	"tourbook/internal/repository/postgres"
	"tourbook/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	sink, sinkCloser := app.NewEventSink(cfg.RabbitMQ)
	defer sinkCloser.Close()

	server, err := wireServer(ctx, db, redisClient, nrApp, sink, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	sink service.EventSink,
	cfg *config.Config,
) (*http.Server, error) {
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	distanceMatrix, err := maps.NewDistanceMatrixProvider(maps.DistanceMatrixConfig{
		APIKey:      cfg.Maps.APIKey,
		BaseURL:     cfg.Maps.BaseURL,
		Timeout:     cfg.Maps.Timeout,
		MaxAttempts: cfg.Maps.MaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	// Initialize Redis stores.
	segmentCache := internalRedis.NewSegmentCache(redisClient, cfg.Maps.SharedCacheTTL)
	lockStore := internalRedis.NewLockStore(redisClient)

	provider := maps.NewCachedProvider(distanceMatrix, segmentCache, cfg.Maps.LocalCacheTTL)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	touristRepo := postgres.NewTouristRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	categoryRepo := postgres.NewVehicleCategoryRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	catalog := service.LoadVehicleCatalog(ctx, categoryRepo)
	log.Printf("Loaded %d vehicle categories", len(catalog.All()))

	routePolicy := service.DefaultRoutePolicy()
	routePolicy.SegmentTimeout = cfg.Maps.SegmentTimeout
	routePolicy.MaxConcurrency = cfg.Maps.MaxConcurrency

	// Initialize services.
	notificationService := service.NewNotificationService(sink)
	estimator := service.NewRouteEstimator(provider, routePolicy)
	fares := service.NewFareCalculator(catalog, service.DefaultFarePolicy())
	bookingService := service.NewBookingService(bookingRepo, touristRepo, estimator, fares, notificationService)
	driverService := service.NewDriverService(lockStore, driverRepo, vehicleRepo, bookingRepo, catalog, notificationService)
	adminService := service.NewAdminService(adminRepo, userRepo, driverRepo, bookingRepo, notificationService)

	router := app.NewRouter(app.RouterDeps{
		BookingHandler: handler.NewBookingHandler(bookingService),
		DriverHandler:  handler.NewDriverHandler(driverService),
		AdminHandler:   handler.NewAdminHandler(adminService),
		Tokens:         tokens,
		Users:          userRepo,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		CORSOrigins:    cfg.Server.AllowedOrigins,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
