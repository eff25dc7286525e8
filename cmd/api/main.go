package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/cache"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/database/postgres"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/handlers"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/middleware"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/repository"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/db"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/formspree"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/httpclient"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/objstorage"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/profiling"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Crystal Auto Detailing API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("write_policy", cfg.Booking.WritePolicy),
	)

	// Distributed tracing (no-op when no exporter endpoint is configured)
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (opt-in; no-op unless enabled)
	stopProfiler, err := profiling.InitProfiler(profiling.Config{
		Enabled:               cfg.Profiling.Enabled,
		Endpoint:              cfg.Profiling.Endpoint,
		AppName:               cfg.Profiling.AppName,
		SampleTypes:           cfg.Profiling.SampleTypes,
		UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
	}, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	// The datastore is optional under the tolerant write policy: without a
	// DATABASE_URL the booking pipeline runs notify-only and the discount
	// endpoint reports misconfiguration. Strict mode refuses to boot without
	// it (enforced in config.Validate).
	var pool *pgxpool.Pool
	var discountRepo *repository.DiscountRepository
	var bookingRepo *repository.BookingRepository
	if cfg.Database.Configured() {
		pool, err = db.NewPool(context.Background(), db.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
		}
		defer db.Close(pool)

		// Migrations run separately via the migrate command

		pgClient := postgres.NewClient(pool, cfg.Database.DiscountsTable, cfg.Database.BookingsTable)
		discountRepo = repository.NewDiscountRepository(pgClient)
		bookingRepo = repository.NewBookingRepository(pgClient)
	} else {
		logger.Warn("DATABASE_URL not set; running notify-only, discount claims will fail")
	}

	httpClient := httpclient.NewStandardClient()
	relay := formspree.NewClient(cfg.Formspree.BookingEndpoint, httpClient)

	// Services. Nil repository interfaces must stay nil inside the services,
	// so only assign through the interface when the concrete repo exists.
	discountService := services.NewDiscountService(asDiscountRepo(discountRepo), cfg)
	bookingService := services.NewBookingService(asBookingRepo(bookingRepo), relay, cfg)

	discountHandler := handlers.NewDiscountHandler(discountService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	var pingStore func(ctx context.Context) error
	if pool != nil {
		pingStore = pool.Ping
	}
	healthHandler := handlers.NewHealthHandler(pingStore)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.InternalAuthHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	formRateLimiter := middleware.NewRateLimiter(5, 10)       // 5 req/sec, burst of 10 (spam prevention)
	defer generalRateLimiter.Stop()
	defer formRateLimiter.Stop()

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api.POST("/discounts", formRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), discountHandler.ClaimDiscount)
	api.POST("/bookings", formRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), bookingHandler.SubmitBooking)

	// Public gallery, only when the storage bucket is configured
	if cfg.Gallery.Configured() {
		storageClient, storageErr := objstorage.NewStorageClient(
			cfg.Gallery.AccessKeyID,
			cfg.Gallery.SecretAccessKey,
			cfg.Gallery.BucketName,
			cfg.Gallery.Endpoint,
			cfg.Gallery.PublicBaseURL,
			cfg.Gallery.Region,
		)
		if storageErr != nil {
			logger.Fatal("Failed to initialize gallery storage client", zap.Error(storageErr))
		}
		galleryCache := cache.NewGalleryCache(cfg.Gallery.CacheTTLSeconds)
		galleryService := services.NewGalleryService(storageClient, galleryCache, cfg)
		galleryHandler := handlers.NewGalleryHandler(galleryService)
		api.GET("/gallery", generalRateLimiter.Middleware(), galleryHandler.ListGallery)
	}

	// Owner-facing lead listings, only when both the store and the auth
	// token are configured
	if cfg.Auth.InternalAPIToken != "" && discountRepo != nil {
		internalHandler := handlers.NewInternalHandler(discountRepo, bookingRepo)
		internal := api.Group("/internal")
		internal.Use(generalRateLimiter.Middleware(), middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIToken))
		internal.GET("/discounts", internalHandler.ListDiscounts)
		internal.GET("/bookings", internalHandler.ListBookings)
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// asDiscountRepo converts the concrete repo to its interface without turning
// a nil pointer into a non-nil interface value
func asDiscountRepo(repo *repository.DiscountRepository) repository.DiscountRepositoryInterface {
	if repo == nil {
		return nil
	}
	return repo
}

func asBookingRepo(repo *repository.BookingRepository) repository.BookingRepositoryInterface {
	if repo == nil {
		return nil
	}
	return repo
}
