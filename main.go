// File: tourly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourly/config"
	"tourly/cron"
	"tourly/database"
	bookingRepoPkg "tourly/database/repository/booking"
	paymentRepoPkg "tourly/database/repository/payment"
	reviewRepoPkg "tourly/database/repository/review"
	"tourly/handlers"
	"tourly/middleware"
	"tourly/routes"
	"tourly/services/booking"
	"tourly/services/events"
	"tourly/services/loyalty"
	"tourly/services/payment"
	"tourly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitPaymentCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// Domain event publishing is optional; without a broker events are dropped.
	var publisher events.Publisher = events.NopPublisher{}
	if config.AppConfig.KafkaBrokers != "" {
		kafkaPublisher, err := events.NewKafkaPublisher(config.AppConfig.KafkaBrokers, config.AppConfig.KafkaTopic, logger)
		if err != nil {
			logger.Sugar().Warnf("main: kafka disabled: %v", err)
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	// services.
	bookingService := &booking.DefaultBookingService{
		Repo:   bookingRepo,
		Events: publisher,
		Logger: logger,
	}

	providerTimeout := time.Duration(config.AppConfig.ProviderTimeout) * time.Second
	stripeProvider := &payment.StripeProvider{Logger: logger}
	momoProvider := &payment.MomoProvider{
		Endpoint:    config.AppConfig.MomoEndpoint,
		PartnerCode: config.AppConfig.MomoPartnerCode,
		AccessKey:   config.AppConfig.MomoAccessKey,
		SecretKey:   config.AppConfig.MomoSecretKey,
		ReturnURL:   config.AppConfig.MomoReturnURL,
		Client:      &http.Client{Timeout: providerTimeout},
		Logger:      logger,
	}
	providers := map[string]payment.Provider{
		"card":       stripeProvider,
		"apple_pay":  stripeProvider,
		"google_pay": stripeProvider,
		"momo":       momoProvider,
	}

	gateway := &payment.DefaultPaymentGateway{
		Registry:  payment.NewMethodRegistry(payment.DefaultMethods()),
		Repo:      paymentRepo,
		Bookings:  bookingService,
		Providers: providers,
		Events:    publisher,
		Logger:    logger,
		Timeout:   providerTimeout,
	}

	reconciler := &payment.StatusReconciler{
		Repo:      paymentRepo,
		Bookings:  bookingService,
		Providers: providers,
		Cache:     utils.GetPaymentCacheClient(),
		Events:    publisher,
		Logger:    logger,
		Timeout:   providerTimeout,
	}

	statsService := &loyalty.DefaultStatsService{
		Bookings: bookingRepo,
		Reviews:  reviewRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService, logger),
		Payment: handlers.NewPaymentHandler(gateway, reconciler, logger),
		Review:  handlers.NewReviewHandler(reviewRepo, logger),
		Stats:   handlers.NewStatsHandler(statsService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background sweep for unsettled payments.
	cron.InitPaymentSweepWorker(reconciler)
	utils.StartHealthMonitor(
		utils.GetCacheClient(),
		utils.GetPaymentCacheClient(),
		database.MongoClient,
	)

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
