package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eclinic/config"
	"eclinic/cron"
	"eclinic/database"
	bookingRepo "eclinic/database/repository/booking"
	profileRepo "eclinic/database/repository/profile"
	"eclinic/handlers"
	"eclinic/routes"
	"eclinic/services/booking"
	"eclinic/services/cache"
	"eclinic/services/notification"
	"eclinic/services/schedule"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET must be set")
	}

	healthChecks := map[string]utils.HealthCheck{}

	// Document store.
	repo, profiles := openStores(logger, healthChecks)

	// Availability cache and push queue share the Redis instance when one is configured.
	var availabilityCache cache.AvailabilityCache = cache.NoopAvailabilityCache{}
	if config.AppConfig.RedisAddr != "" {
		client := utils.GetCacheClient()
		availabilityCache = cache.NewRedisAvailabilityCache(client, config.AvailabilityCacheTTL())
		healthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	sender := newPushSender(logger)
	var (
		notifier    notification.Notifier
		pushWorker  *asynq.Server
		queueClient *asynq.Client
	)
	if config.AppConfig.RedisAddr != "" {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		notifier = notification.NewQueueNotifier(queueClient, logger)
		pushWorker = cron.InitPushWorker(sender, logger)
	} else {
		notifier = notification.NewAsyncNotifier(sender, logger)
	}

	// services.
	bookingService := booking.NewBookingService(repo, profiles, availabilityCache, notifier, logger)
	scheduleService := schedule.NewScheduleService(repo, availabilityCache, logger, config.AppConfig.ScheduleWindowDays)

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingService),
		handlers.NewScheduleHandler(scheduleService),
		handlers.NewNotificationHandler(sender),
		[]byte(config.AppConfig.JWTSecret),
		config.AppConfig.MaxRequestsPerMin,
	)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, 30*time.Second, healthChecks)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (store: %s)...", srv.Addr, config.AppConfig.StoreBackend)
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
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if pushWorker != nil {
		pushWorker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	database.Close(ctx)
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}

// openStores connects the configured backend and registers its health check.
func openStores(logger *zap.Logger, checks map[string]utils.HealthCheck) (bookingRepo.BookingRepository, profileRepo.ProfileRepository) {
	switch config.AppConfig.StoreBackend {
	case "mongo":
		database.InitDB()
		db := database.MongoDatabase()
		repo := bookingRepo.NewMongoBookingRepo(db)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Sugar().Fatalf("main: failed to create indexes: %v", err)
		}
		checks["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
		return repo, profileRepo.NewMongoProfileRepo(db)

	case "firestore":
		database.InitFirestore()
		checks["firestore"] = func(ctx context.Context) error {
			_, err := database.FirestoreClient.Collections(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}
		return bookingRepo.NewFirestoreBookingRepo(database.FirestoreClient), profileRepo.NewFirestoreProfileRepo(database.FirestoreClient)

	case "memory":
		logger.Warn("using the in-memory store; data is lost on restart")
		return bookingRepo.NewMemoryBookingRepo(), profileRepo.NewMemoryProfileRepo()

	default:
		logger.Fatal("main: unknown STORE_BACKEND", zap.String("backend", config.AppConfig.StoreBackend))
		return nil, nil
	}
}

// newPushSender returns an FCM sender when push delivery is enabled.
func newPushSender(logger *zap.Logger) notification.Sender {
	if !config.AppConfig.PushEnabled {
		logger.Info("push notifications disabled")
		return notification.NewDisabledSender(logger)
	}
	client, err := utils.FirebaseInit().Messaging(context.Background())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize FCM client: %v", err)
	}
	return notification.NewFCMSender(client, logger)
}
