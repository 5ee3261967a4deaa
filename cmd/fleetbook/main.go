package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fleetbook/internal/app/booking"
	"fleetbook/internal/app/notifications"
	"fleetbook/internal/infra/broker/kafka"
	"fleetbook/internal/infra/config"
	mongostore "fleetbook/internal/infra/db/mongo"
	"fleetbook/internal/infra/http/ginserver"
	"fleetbook/internal/infra/mailer"
	"fleetbook/internal/infra/obs"
	"fleetbook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	var (
		svc   booking.Service
		store notifications.Repository
		ready = func() error { return nil }
	)

	switch cfg.Store {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanup = func() {
			dc, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.DB.Client().Disconnect(dc)
		}
		svc.Vehicles = mongostore.NewVehicleRepository(client.DB)
		svc.Reservations = mongostore.NewReservationRepository(client.DB)
		svc.Requests = mongostore.NewRequestRepository(client.DB)
		notifRepo := mongostore.NewNotificationRepository(client.DB)
		svc.Notifications = notifRepo
		store = notifRepo
		ready = func() error {
			pc, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pc)
		}
	default:
		vehicles := memory.NewVehicleRepository()
		memory.Seed(vehicles)
		notifRepo := memory.NewNotificationRepository()
		svc.Vehicles = vehicles
		svc.Reservations = memory.NewReservationRepository()
		svc.Requests = memory.NewRequestRepository()
		svc.Notifications = notifRepo
		store = notifRepo
		logger.Info("using in-memory store with demo fleet")
	}

	svc.HoldOnRequest = cfg.HoldOnRequest
	svc.Logger = logger

	if cfg.MailEndpoint != "" {
		svc.Mailer = mailer.New(cfg.MailEndpoint, cfg.MailTimeout)
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		prev := cleanup
		cleanup = func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka close failed", "error", err)
			}
			prev()
		}
		svc.Events = producer
	}

	notifSvc := &notifications.Service{Store: store}

	return application{
		handlers: ginserver.Handlers{
			Vehicles:      ginserver.VehicleHandler{Vehicles: svc.Vehicles, Logger: logger},
			Booking:       ginserver.BookingHandler{Service: &svc, Logger: logger},
			Admin:         ginserver.AdminHandler{Service: &svc, Logger: logger},
			Notifications: ginserver.NotificationHandler{Service: notifSvc, Logger: logger},
		},
		ready: ready,
	}, cleanup, nil
}
