package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/openpark/service-booking/internal/adapter"
	"github.com/openpark/service-booking/internal/application"
	"github.com/openpark/service-booking/internal/config"
	bookingEvents "github.com/openpark/service-booking/internal/events"
	"github.com/openpark/service-booking/internal/handler"
	"github.com/openpark/service-booking/internal/notification"
	"github.com/openpark/service-booking/internal/platform/auth"
	"github.com/openpark/service-booking/internal/platform/database"
	"github.com/openpark/service-booking/internal/platform/health"
	"github.com/openpark/service-booking/internal/platform/kafka"
	"github.com/openpark/service-booking/internal/platform/logger"
	"github.com/openpark/service-booking/internal/platform/middleware"
	"github.com/openpark/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.PromoModel{}); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Redis client for commit deduplication
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Initialize JWT manager for the admin API
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessExpiry,
		cfg.JWTConfig.RefreshExpiry,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer([]string{cfg.KafkaBroker}, zapLogger)
	defer kafkaProducer.Close()

	// Initialize checkout gateway (mock unless Stripe is configured)
	var checkout adapter.CheckoutGateway
	if cfg.StripeEnabled() {
		checkout = adapter.NewStripeCheckoutGateway(
			cfg.Stripe.SecretKey,
			cfg.Stripe.SuccessURL,
			cfg.Stripe.CancelURL,
			zapLogger,
		)
	} else {
		checkout = adapter.NewMockCheckoutGateway(zapLogger)
	}

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	promoRepo := repository.NewGormPromoRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		promoRepo,
		checkout,
		kafkaProducer,
		rdb,
		cfg.BuildPricingConfig(),
		cfg.StripeEnabled(),
		cfg.PendingTTL,
		zapLogger,
	)
	promoService := application.NewPromoService(promoRepo, zapLogger)

	// Initialize notification channels
	var mailer adapter.Mailer = adapter.NoopMailer{}
	if cfg.SMTP.Host != "" {
		mailer = adapter.NewSMTPMailer(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From,
			cfg.SMTP.Username, cfg.SMTP.Password,
			zapLogger,
		)
	}
	var texter adapter.TextSender = adapter.NoopTextSender{}
	if cfg.WhatsApp.Token != "" && cfg.WhatsApp.PhoneID != "" {
		texter = adapter.NewWhatsAppCloudSender(cfg.WhatsApp.PhoneID, cfg.WhatsApp.Token, zapLogger)
	}
	notifier := notification.NewNotifier(mailer, texter, cfg.SMTP.AdminEmail, cfg.WhatsApp.AdminNumber, zapLogger)

	// Initialize Kafka consumer for booking notifications
	bookingConsumer := bookingEvents.NewBookingEventConsumer(
		[]string{cfg.KafkaBroker},
		"booking-service-notifications",
		notifier,
		zapLogger,
	)
	defer bookingConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting booking event consumer")
		if err := bookingConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("booking event consumer failed", zap.Error(err))
			}
		}
	}()

	// Expire stale pending online bookings on a schedule
	janitor := cron.New()
	if _, err := janitor.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := bookingService.ExpireStalePending(ctx); err != nil {
			zapLogger.Error("stale booking sweep failed", zap.Error(err))
		}
	}); err != nil {
		zapLogger.Fatal("failed to schedule stale booking sweep", zap.Error(err))
	}
	janitor.Start()
	defer janitor.Stop()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	promoHandler := handler.NewPromoHandler(promoService)
	adminHandler := handler.NewAdminHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	bookingHandler.RegisterRoutes(apiV1)
	promoHandler.RegisterRoutes(apiV1, jwtManager)
	adminHandler.RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-booking...")

	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-booking stopped")
}
