// File: petmily/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petmily/config"
	"petmily/cron"
	"petmily/database"
	bookingRepoPkg "petmily/database/repository/booking"
	trackRepoPkg "petmily/database/repository/track"
	walkRepoPkg "petmily/database/repository/walk"
	"petmily/handlers"
	"petmily/routes"
	bookingSvc "petmily/services/booking"
	"petmily/services/notification"
	"petmily/services/storage"
	walkSvc "petmily/services/walk"
	"petmily/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitEventClient()
	utils.StartHealthMonitor(database.MongoClient, 30*time.Second)

	cloudinaryClient, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
	}
	storageService := storage.NewStorageService(cloudinaryClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	walkRepo := walkRepoPkg.NewMongoWalkRepo()
	trackRepo := trackRepoPkg.NewMongoTrackRepo()

	// services.
	eventPublisher := notification.NewRedisEventPublisher(utils.GetEventClient())

	walkService := &walkSvc.DefaultWalkService{
		Bookings:     bookingRepo,
		Details:      walkRepo,
		Terminations: walkRepo,
		Tracks:       trackRepo,
		Events:       eventPublisher,
		Cache:        utils.GetCacheClient(),
		Policy: walkSvc.Policy{
			MaxSpeedMS:        config.AppConfig.MaxWalkSpeedMS,
			ClockSkew:         config.TrackClockSkew(),
			TerminationExpiry: config.TerminationExpiry(),
		},
		Logger: logger,
	}

	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderClient.Close()

	bookingService := &bookingSvc.DefaultBookingService{
		Repo:         bookingRepo,
		Terminations: walkRepo,
		Reminders:    reminderClient,
		Logger:       logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService),
		Walk:    handlers.NewWalkHandler(walkService, storageService),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the reminder worker.
	cron.InitReminderWorker(eventPublisher)

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
