package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/config"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/handlers"
	"github.com/ukydev/fleet-reminders/internal/maintenance"
	"github.com/ukydev/fleet-reminders/internal/middleware"
	"github.com/ukydev/fleet-reminders/internal/mileage"
	"github.com/ukydev/fleet-reminders/internal/mqttingest"
	"github.com/ukydev/fleet-reminders/internal/notify"
	"github.com/ukydev/fleet-reminders/internal/reminders"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// app holds the wired services of the reminder server.
type app struct {
	handler http.Handler
	mileage *mileage.Service
	agent   *reminders.Agent
}

// newApp wires the services on top of store. ping reports database health.
func newApp(cfg config.Config, store *db.Store, ping func(ctx context.Context) error) *app {
	planner := maintenance.NewPlanner(store.MileageLogs, store.Schedules, maintenance.Thresholds{
		Miles: cfg.Reminders.MilesThreshold,
		Days:  cfg.Reminders.DaysThreshold,
	})
	mileageService := mileage.NewService(store.Vehicles, store.MileageLogs, planner)
	builder := reminders.NewBuilder(store.Customers, store.Vehicles, planner)
	dispatcher := notify.NewDispatcher(notify.NewStubSender(cfg.Notify.SuccessRate, nil), cfg.Notify)
	agent := reminders.NewAgent(builder, dispatcher, cfg.Reminders.CalendarWindowDays)

	router := handlers.NewRouter(handlers.Handlers{
		Vehicles:  handlers.NewVehicleHandler(store.Customers, store.Vehicles, store.MileageLogs, builder),
		Mileage:   handlers.NewMileageHandler(mileageService),
		Reminders: handlers.NewReminderHandler(builder),
		Notify:    handlers.NewNotifyHandler(builder, dispatcher),
		Settings:  handlers.NewSettingsHandler(store, agent),
		Health:    handlers.NewHealthHandler(ping),
	})
	limiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy)

	return &app{
		handler: middleware.Chain(router,
			middleware.Recover,
			middleware.RequestLogger,
			middleware.CORS(cfg.CORSOrigin),
			limiter.RateLimit,
		),
		mileage: mileageService,
		agent:   agent,
	}
}

// serve runs the HTTP server, the reminder agent and the MQTT ingest until
// ctx is canceled or one of them fails.
func (a *app) serve(ctx context.Context, cfg config.Config) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Reminders.AgentEnabled {
		g.Go(func() error {
			a.agent.Run(gctx, cfg.Reminders.Interval)
			return nil
		})
	} else {
		log.Info("Reminder agent disabled")
	}

	if cfg.MQTT.Broker != "" {
		sub := mqttingest.NewSubscriber(mqttingest.NewClient(cfg.MQTT), cfg.MQTT.Topic, a.mileage)
		g.Go(func() error { return sub.Run(gctx) })
	}

	return g.Wait()
}

func run(ctx context.Context, cfg config.Config) error {
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.Info("Connected to MongoDB successfully")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	return newApp(cfg, db.NewStore(database), ping).serve(ctx, cfg)
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
	log.Info("Server stopped")
}
