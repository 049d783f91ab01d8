package main

import (
	"context"

	bookinghandler "notcluely/internal/bookings/handler"
	bookingrepository "notcluely/internal/bookings/repository"
	bookingservice "notcluely/internal/bookings/service"
	bookingvalidator "notcluely/internal/bookings/validator"
	conflicthandler "notcluely/internal/conflicts/handler"
	conflictrepository "notcluely/internal/conflicts/repository"
	conflictservice "notcluely/internal/conflicts/service"
	eventhandler "notcluely/internal/events/handler"
	healthhandler "notcluely/internal/health/handler"
	timezonehandler "notcluely/internal/timezones/handler"
	userhandler "notcluely/internal/users/handler"
	userrepository "notcluely/internal/users/repository"
	userservice "notcluely/internal/users/service"
	uservalidator "notcluely/internal/users/validator"
	"notcluely/pkg/app"
	"notcluely/pkg/config"
	"notcluely/pkg/events"
	"notcluely/pkg/kafka"
	kafkaconfig "notcluely/pkg/kafka/config"
	"notcluely/pkg/middleware"
	"notcluely/pkg/token"
)

const ServiceName = "notcluely-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting NotCluely API")

	serverApp := app.NewApplication()

	hub := events.NewHub(cfg.Log)
	serverApp.OnShutdown(hub.Close)

	relayCancel := startKafkaRelay(cfg, hub)
	serverApp.OnShutdown(relayCancel)

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := userrepository.NewMongoUserRepository(cfg)
	userSvc := userservice.NewUserService(userRepo, uservalidator.NewUserValidator(cfg.Log), tokens, cfg)

	auth := middleware.NewAuthenticator(tokens, userSvc, cfg.Log)

	conflictRepo := conflictrepository.NewMongoConflictRepository(cfg)
	conflictSvc := conflictservice.NewConflictService(conflictRepo, hub, cfg)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		conflictSvc,
		hub,
		cfg,
	)

	serverApp.SetApp(cfg,
		healthhandler.NewHealthHandler(cfg.Client.Mongo.Client, cfg.Log),
		eventhandler.NewStreamHandler(hub, cfg.Log),
		userhandler.NewUserHandler(userSvc, auth, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, auth, cfg.Log),
		conflicthandler.NewConflictHandler(conflictSvc, auth, cfg.Log),
		timezonehandler.NewTimezoneHandler(cfg.Log),
	)
	serverApp.Run()
}

// startKafkaRelay mirrors hub events to a Kafka topic when brokers are
// configured. Returns a stop function, a no-op when the relay is disabled.
func startKafkaRelay(cfg *config.Config, hub *events.Hub) func() {
	kafkaCfg := kafkaconfig.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka relay disabled, no brokers configured")
		return func() {}
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	relay := events.NewRelay(hub, producer, ServiceName, cfg.Log)
	go relay.Run(ctx)

	cfg.Log.Info("Kafka relay started", "topic", cfg.EventsTopic)
	return func() {
		cancel()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
