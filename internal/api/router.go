package api

import (
	"net/http"
	"robot-route-service/internal/api/handlers"
	"robot-route-service/internal/platform/metrics"
	"robot-route-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Dependencies of the HTTP layer. Loads, Recorder, Events and Subscriber may be nil.
type RouterDeps struct {
	Repo           ports.DeliveryRepository
	Loads          ports.DockLoadWriter
	Recorder       ports.DeliveryRecorder
	Events         ports.EventPublisher
	Subscriber     ports.EventSubscriber
	RobotCapacity  int
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	robotHandler := &handlers.RobotHandler{
		Repo:          deps.Repo,
		Loads:         deps.Loads,
		Recorder:      deps.Recorder,
		Events:        deps.Events,
		Subscriber:    deps.Subscriber,
		RobotCapacity: deps.RobotCapacity,
	}
	dockHandler := &handlers.DockHandler{Repo: deps.Repo}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /robots", robotHandler.List)
	mux.HandleFunc("GET /robots/{id}/original", robotHandler.Original)
	mux.HandleFunc("GET /robots/{id}/optimized", robotHandler.Optimized)
	mux.HandleFunc("GET /robots/{id}/comparison", robotHandler.Comparison)
	mux.HandleFunc("GET /robots/{id}/cumulative", robotHandler.Cumulative)
	mux.HandleFunc("GET /robots/{id}/trajectory", robotHandler.Trajectory)
	mux.HandleFunc("GET /robots/{id}/trajectory/ws", robotHandler.TrajectoryStream)
	if deps.Recorder != nil {
		mux.HandleFunc("POST /robots/{id}/deliveries", robotHandler.RecordDelivery)
	}
	if deps.Subscriber != nil {
		mux.HandleFunc("GET /robots/{id}/events/ws", robotHandler.EventStream)
	}

	mux.HandleFunc("GET /docks", dockHandler.Dashboard)

	var h http.Handler = mux
	if deps.RateLimitRPS > 0 && deps.RateLimitBurst > 0 {
		h = rateLimitMiddleware(rate.NewLimiter(rate.Limit(deps.RateLimitRPS), deps.RateLimitBurst), h)
	}
	return requestIDMiddleware(loggingMiddleware(h))
}
