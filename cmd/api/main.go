package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"waves-events/internal/application/services"
	"waves-events/internal/domain/event"
	"waves-events/internal/infrastructure/bus"
	httpHandler "waves-events/internal/infrastructure/http"
	"waves-events/internal/infrastructure/mail"
	"waves-events/internal/infrastructure/mongo"
	"waves-events/pkg/middleware"

	"github.com/joho/godotenv"

	jwtutil "waves-events/pkg/jwt"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	log.Println("Starting Waves Events API...")

	mongoConfig := &mongo.MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DATABASE", "waves-events"),
		Timeout:  30 * time.Second,
	}

	mongoClient, err := mongo.NewMongoClient(mongoConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Close(); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	if err := mongoClient.Ping(); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB successfully")

	store := mongo.NewStore(mongoClient)

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()

	if err := store.EnsureIndexes(setupCtx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	if seedCount, err := strconv.Atoi(getEnv("SEED_EVENTS", "0")); err == nil && seedCount > 0 {
		if err := store.Seed(setupCtx, seedCount); err != nil {
			log.Printf("Warning: failed to seed events: %v", err)
		}
	}

	// Repositories and transaction runner
	eventRepo := mongo.NewMongoEventRepository(store)
	paymentRepo := mongo.NewMongoPaymentRepository(store)
	feedbackRepo := mongo.NewMongoFeedbackRepository(store)

	// Notifications
	eventBus := bus.NewInMemoryEventBus()
	mailService := mail.NewService(mail.LogSender{}, getEnv("MAIL_FROM", "no-reply@waves-events.io"))

	// Application services
	eventService := services.NewEventService(eventRepo, eventBus)
	paymentService := services.NewPaymentService(eventRepo, paymentRepo, store, eventBus)
	feedbackService := services.NewFeedbackService(feedbackRepo, eventRepo, store)

	subscribeMailHandlers(eventBus, mailService, paymentService)

	// Authentication
	jwtManager := jwtutil.NewJWTManager(
		getEnv("JWT_SECRET", "development-secret"),
		24*time.Hour,
	)

	router := httpHandler.NewRouter(httpHandler.RouterConfig{
		Events:     httpHandler.NewEventController(eventService),
		Payments:   httpHandler.NewPaymentController(paymentService),
		Feedback:   httpHandler.NewFeedbackController(feedbackService),
		JWTManager: jwtManager,
		RateLimit:  middleware.NewRateLimiter(100, time.Minute),
	})

	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// subscribeMailHandlers wires the committed domain notifications to
// outbound email. Per-user notifications carry the recipient on the
// notification itself; event-wide notifications resolve recipients
// from the payment accounts at dispatch time.
func subscribeMailHandlers(eventBus bus.EventBus, mailService *mail.Service, payments *services.PaymentService) {
	eventBus.Subscribe(event.TypeEventRegistered, bus.EventHandlerFunc(
		func(ctx context.Context, e event.DomainEvent) error {
			registered := e.(*event.EventRegistered)
			return mailService.SendRegistrationEmail(ctx, &registered.Event, registered.UserEmail)
		}))

	eventBus.Subscribe(event.TypeEventRegistrationCancelled, bus.EventHandlerFunc(
		func(ctx context.Context, e event.DomainEvent) error {
			cancelled := e.(*event.EventRegistrationCancelled)
			return mailService.SendCancellationEmail(ctx, &cancelled.Event, cancelled.UserEmail)
		}))

	eventBus.Subscribe(event.TypeEventUpdated, bus.EventHandlerFunc(
		func(ctx context.Context, e event.DomainEvent) error {
			updated := e.(*event.EventUpdated)
			emails, err := payments.GetRegisteredEmailsForEvent(ctx, updated.Event.EventID)
			if err != nil {
				return err
			}
			return mailService.SendEventUpdatedEmail(ctx, &updated.Event, emails)
		}))

	eventBus.Subscribe(event.TypeEventDeleted, bus.EventHandlerFunc(
		func(ctx context.Context, e event.DomainEvent) error {
			deleted := e.(*event.EventDeleted)
			emails, err := payments.GetRegisteredEmailsForEvent(ctx, deleted.Event.EventID)
			if err != nil {
				return err
			}
			return mailService.SendEventDeletedEmail(ctx, &deleted.Event, emails)
		}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
