package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"robot-route-service/internal/adapters/events"
	"robot-route-service/internal/adapters/repositories"
	"robot-route-service/internal/api"
	"robot-route-service/internal/config"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/db"
	"robot-route-service/internal/platform/logging"
	"robot-route-service/internal/platform/metrics"
	"robot-route-service/internal/ports"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, os.Stdout); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}
	metrics.RegisterDefault()

	conn, dialect, err := openStore(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Schema and the warehouse row are created once here, never per request.
	warehouse := domain.Point{X: cfg.WarehouseX, Y: cfg.WarehouseY}
	if err := initStore(ctx, conn, dialect, warehouse); err != nil {
		logrus.Fatal(err)
	}

	publisher, subscriber, closePublisher, err := newEvents(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closePublisher()

	repo := repositories.NewSQLDeliveryRepository(conn, dialect)
	router := api.NewRouter(api.RouterDeps{
		Repo:           repo,
		Loads:          repo,
		Recorder:       repo,
		Events:         publisher,
		Subscriber:     subscriber,
		RobotCapacity:  cfg.RobotCapacity,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("server shutdown")
		}
	}()

	logrus.WithFields(logrus.Fields{"addr": srv.Addr, "db_driver": cfg.DBDriver}).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}

func openStore(cfg *config.Config) (*sql.DB, repositories.Dialect, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, repositories.Postgres, err
	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		return conn, repositories.SQLite, err
	}
}

func initStore(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, warehouse domain.Point) error {
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := repositories.EnsureWarehouse(ctx, conn, dialect, warehouse); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	return nil
}

// newEvents uses Redis when REDIS_URL is set and falls back to logging events.
// Live event streaming is only available with Redis.
func newEvents(ctx context.Context, cfg *config.Config) (ports.EventPublisher, ports.EventSubscriber, func(), error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		logrus.Info("REDIS_URL not set, events are logged only")
		return events.LogPublisher{}, nil, func() {}, nil
	}

	rp, err := events.NewRedisPublisher(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rp.Ping(pingCtx); err != nil {
		logrus.WithError(err).Warn("redis unreachable at startup, publishing anyway behind circuit breaker")
	}

	bp := events.NewBreakerPublisher(rp, events.DefaultBreakerSettings("redis-events"))
	return bp, rp, func() { _ = rp.Close() }, nil
}
