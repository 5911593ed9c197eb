package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/application"
	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/events"
	"github.com/driveline/service-rental/internal/handler"
	"github.com/driveline/service-rental/internal/platform/auth"
	"github.com/driveline/service-rental/internal/platform/cache"
	"github.com/driveline/service-rental/internal/platform/config"
	"github.com/driveline/service-rental/internal/platform/database"
	"github.com/driveline/service-rental/internal/platform/health"
	"github.com/driveline/service-rental/internal/platform/kafka"
	"github.com/driveline/service-rental/internal/platform/logger"
	"github.com/driveline/service-rental/internal/platform/middleware"
	"github.com/driveline/service-rental/internal/repository"
)

const serviceName = "service-rental"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DB.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if cfg.AppEnv == "development" {
		err = db.AutoMigrate(
			&repository.CarModel{},
			&repository.CustomerModel{},
			&repository.BookingModel{},
		)
	} else {
		err = database.RunMigrations(cfg.DB.URL(), "migrations", log)
	}
	if err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute, 7*24*time.Hour)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close() //nolint:errcheck
	dispatcher := events.NewDispatcher(producer, log, 256)

	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	availCache := cache.NewAvailabilityCache(redisClient, 5*time.Minute)

	bookingRepo := repository.NewGormBookingRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	customerRepo := repository.NewGormCustomerRepository(db)

	bookingService := application.NewBookingService(
		bookingRepo, carRepo, customerRepo,
		booking.NewDailyRatePricing(),
		dispatcher, availCache, log,
	)
	carService := application.NewCarService(carRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := events.NewNotificationConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupPrefix+"rental-notifications",
		events.NewLogMailer(log.Named("mailer")),
		log.Named("notifications"),
	)
	go func() {
		if err := notifier.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notification consumer stopped", zap.Error(err))
		}
	}()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.LoggerMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.CORSMiddleware(),
		middleware.SecurityHeadersMiddleware(),
	)

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("/api/v1")
	handler.NewCarHandler(carService, bookingService).RegisterRoutes(api)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewPaymentHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(bookingService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	notifier.Close() //nolint:errcheck

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	dispatcher.Close()
	log.Info("server stopped")
}
