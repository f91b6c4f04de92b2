package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lendloop/service-lending/internal/application"
	"github.com/lendloop/service-lending/internal/config"
	"github.com/lendloop/service-lending/internal/handler"
	"github.com/lendloop/service-lending/internal/pkg/database"
	"github.com/lendloop/service-lending/internal/pkg/health"
	"github.com/lendloop/service-lending/internal/pkg/kafka"
	"github.com/lendloop/service-lending/internal/pkg/logger"
	"github.com/lendloop/service-lending/internal/pkg/middleware"
	"github.com/lendloop/service-lending/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-lending")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-lending",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := db.AutoMigrate(
		&repository.UserModel{},
		&repository.ItemModel{},
		&repository.BookingModel{},
		&repository.CommentModel{},
	); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}
	if err := repository.MigrateBookingConstraints(db); err != nil {
		log.Fatal("failed to install booking constraints", zap.Error(err))
	}
	log.Info("database migration completed")

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		itemRepo,
		userRepo,
		kafkaProducer,
		log,
	)
	itemService := application.NewItemService(
		itemRepo,
		commentRepo,
		bookingRepo,
		userRepo,
		log,
	)
	userService := application.NewUserService(userRepo, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	itemHandler := handler.NewItemHandler(itemService)
	userHandler := handler.NewUserHandler(userService)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-lending")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	itemHandler.RegisterRoutes(&router.RouterGroup)
	userHandler.RegisterRoutes(&router.RouterGroup)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-lending...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-lending stopped")
}
