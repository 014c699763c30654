package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamespace/api/routes"
	"gamespace/internal/live"
	"gamespace/internal/notifications"
	"gamespace/internal/shared/config"
	"gamespace/internal/shared/database"
	"gamespace/internal/shared/middleware"
	"gamespace/pkg/logger"
	"gamespace/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title GameSpace Web API
// @version 1.0
// @description Room browsing, table layouts and booking flow of the GameSpace web app.
// @BasePath /api/v1
func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		appLogger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	// rebuilt now that gin's mode and LOG_LEVEL are known
	appLogger = logger.New()
	logger.SetDefault(appLogger)
	appLogger.Info("Starting GameSpace web",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	if cfg.UsesDefaultReceiptSecret() {
		appLogger.Warn("RECEIPT_SIGNING_SECRET not set, receipts are signed with the built-in secret")
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close stores", slog.Any("error", err))
		}
	}()

	publisher := newPublisher(cfg, appLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Failed to close booking publisher", slog.Any("error", err))
		}
	}()

	appRouter := routes.NewRouter(cfg, db, publisher)
	router, err := setupRouter(cfg, db, appRouter)
	if err != nil {
		appLogger.Error("Failed to set up routes", slog.Any("error", err))
		os.Exit(1)
	}

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Live availability refresh
	var scheduler *live.Scheduler
	if cfg.Live.Enabled {
		scheduler, err = live.NewScheduler(appRouter.LiveJob, cfg.Live.RefreshSpec)
		if err != nil {
			appLogger.Error("Live availability disabled", slog.Any("error", err))
		} else {
			scheduler.Start()
			go func() {
				if err := appRouter.LiveJob.Run(workersCtx); err != nil {
					appLogger.Warn("Initial availability refresh failed", slog.Any("error", err))
				}
			}()
			appLogger.Info("Live availability refresh scheduled", slog.String("spec", cfg.Live.RefreshSpec))
		}
	}

	// Booking events from every instance drop this instance's cached slots
	var consumer *notifications.BookingConsumer
	if cfg.Kafka.Enabled {
		consumer, err = notifications.NewBookingConsumer(notifications.DefaultConsumerConfig(cfg.Kafka),
			func(ctx context.Context, event *notifications.BookingEvent) error {
				appRouter.Bookings.InvalidateTable(ctx, event.TableID)
				if !cfg.Live.Enabled {
					return nil
				}
				return appRouter.LiveJob.Run(ctx)
			})
		if err != nil {
			appLogger.Error("Failed to start booking consumer", slog.Any("error", err))
		} else {
			consumer.Start(workersCtx)
			appLogger.Info("Booking consumer started", slog.String("group", cfg.Kafka.ConsumerGroup))
		}
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_docs", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("upstream", cfg.API.BaseURL),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("postgresql", db.PostgreSQL != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	appRouter.Hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}
	stopWorkers()
	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping booking consumer", slog.Any("error", err))
		}
	}

	appLogger.Info("Server exited gracefully")
}

// newPublisher falls back to logging confirmed bookings when Kafka is off
// or unreachable
func newPublisher(cfg *config.Config, l *logger.Logger) notifications.Publisher {
	if !cfg.Kafka.Enabled {
		return notifications.NewLogPublisher(l)
	}
	p, err := notifications.NewKafkaPublisher(notifications.DefaultKafkaProducerConfig(cfg.Kafka))
	if err != nil {
		l.Error("Kafka producer unavailable, logging booking events instead", slog.Any("error", err))
		return notifications.NewLogPublisher(l)
	}
	l.Info("Kafka producer connected", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.BookingTopic))
	return p
}

func newRateLimiter(cfg *config.Config, db *database.DB) ratelimit.Limiter {
	rlConfig := &ratelimit.Config{
		Enabled:         cfg.RateLimit.Enabled,
		WindowDuration:  cfg.RateLimit.WindowDuration,
		DefaultRequests: cfg.RateLimit.DefaultRequests,
		PublicRequests:  cfg.RateLimit.PublicRequests,
		AuthRequests:    cfg.RateLimit.AuthRequests,
		BookingRequests: cfg.RateLimit.BookingRequests,
		HealthRequests:  cfg.RateLimit.HealthRequests,
		WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
	}
	if db.Redis != nil {
		return ratelimit.NewRateLimiter(db.Redis, rlConfig)
	}
	return ratelimit.NewLocalLimiter(rlConfig)
}

func setupRouter(cfg *config.Config, db *database.DB, appRouter *routes.Router) (*gin.Engine, error) {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), gin.Recovery())

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	engine.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		engine.Use(ratelimit.Middleware(newRateLimiter(cfg, db)))
		appLogger.Info("Rate limiting middleware applied to all routes",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Bool("shared", db.Redis != nil),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	if err := appRouter.SetupRoutes(engine); err != nil {
		return nil, err
	}
	return engine, nil
}
