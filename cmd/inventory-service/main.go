// Package main boots the inventory service HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/AndresCespedes/inventory-service/internal/config"
	httpapi "github.com/AndresCespedes/inventory-service/internal/http"
	"github.com/AndresCespedes/inventory-service/internal/inventory"
	"github.com/AndresCespedes/inventory-service/internal/notify"
	"github.com/AndresCespedes/inventory-service/internal/obs"
	"github.com/AndresCespedes/inventory-service/internal/product"
	"github.com/AndresCespedes/inventory-service/internal/store"
)

func main() {
	// .env is optional; plain environment variables still apply
	_ = godotenv.Load()

	cfg := config.Load()
	obs.InitLogger()
	obs.RegisterMetrics()
	obs.Logger.Info("service_starting", "candidates", cfg.ProductEndpoints)

	st, closeStore, err := buildStore(cfg)
	if err != nil {
		obs.Logger.Error("store_init_failed", "error", err.Error())
		os.Exit(1)
	}
	defer closeStore()

	bus, closeBus, err := buildNotifier(cfg)
	if err != nil {
		obs.Logger.Error("notifier_init_failed", "error", err.Error())
		os.Exit(1)
	}
	defer closeBus()

	client := product.NewClient(cfg.ProductEndpoints, cfg.APIKey, cfg.ProductTimeout)
	engine := inventory.NewEngine(client, st, bus)
	app := httpapi.NewApp(cfg, engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errGrp, shutdownCtx := errgroup.WithContext(shutdownCtx)

	errGrp.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	errGrp.Go(func() error {
		<-shutdownCtx.Done()
		obs.Logger.Info("shutdown_begin")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server failed to shut down gracefully: %w", err)
		}
		return nil
	})

	if err := errGrp.Wait(); err != nil {
		obs.Logger.Error("shutdown_error", "error", err.Error())
		os.Exit(1)
	}
	obs.Logger.Info("service_stopped")
}

// buildStore selects the Postgres store when DATABASE_URL is configured and
// falls back to the in-memory store otherwise.
func buildStore(cfg config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		obs.Logger.Info("store_selected", "kind", "memory")
		return store.NewMemory(), func() {}, nil
	}

	if err := store.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return nil, nil, err
	}
	pg, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	obs.Logger.Info("store_selected", "kind", "postgres")
	return pg, func() {
		if err := pg.Close(); err != nil {
			obs.Logger.Error("store_close_failed", "error", err.Error())
		}
	}, nil
}

// buildNotifier assembles the change-event bus: the log sink always, plus
// the AMQP sink when a broker is configured.
func buildNotifier(cfg config.Config) (*notify.Bus, func(), error) {
	sinks := []notify.Sink{notify.LogSink{}}
	cleanup := func() {}

	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial amqp: %w", err)
		}
		sink, err := notify.NewAMQPSink(conn, cfg.AMQPExchange)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
		cleanup = func() {
			sink.Close()
			conn.Close()
		}
		obs.Logger.Info("amqp_sink_enabled", "exchange", cfg.AMQPExchange)
	}

	bus := notify.NewBus(cfg.EventBuffer, sinks...)
	return bus, func() {
		bus.Close()
		cleanup()
	}, nil
}
