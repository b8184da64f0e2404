// File: parkhive/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkhive/config"
	"parkhive/database"
	reservationRepo "parkhive/database/repository/reservation"
	"parkhive/handlers"
	"parkhive/middleware"
	"parkhive/routes"
	"parkhive/services/notification"
	"parkhive/services/reservation"
	"parkhive/utils"
	"parkhive/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()

	// Slot registry with hot reload on file change.
	registry, err := config.NewSlotRegistry(config.AppConfig.SlotConfigPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load slot configuration: %v", err)
	}
	registry.Watch()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	resRepo := reservationRepo.NewMongoReservationRepo()

	// Notification pipeline: long-lived publisher plus background worker.
	publisher := notification.NewAsynqPublisher()
	defer publisher.Close()
	worker.InitNotificationWorker(notification.NewSMTPSender())

	// Services.
	reservationService := &reservation.DefaultReservationService{
		Repo:             resRepo,
		Registry:         registry,
		Locks:            reservation.NewRedisLocker(utils.GetLockClient()),
		Publisher:        publisher,
		UTCOffsetMinutes: config.AppConfig.UTCOffsetMinutes,
	}

	reservationHandler := handlers.NewReservationHandler(reservationService, utils.GetCacheClient(), logger)

	// Register routes.
	routes.RegisterRoutes(router, reservationHandler)

	// Background dependency health checks for /health.
	utils.StartHealthMonitor(map[string]*redis.Client{
		"cache": utils.GetCacheClient(),
		"locks": utils.GetLockClient(),
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
