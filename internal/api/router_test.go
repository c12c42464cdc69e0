package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"robot-route-service/internal/adapters/repositories"
	"robot-route-service/internal/api/dto"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/metrics"
	"robot-route-service/internal/ports"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	clientmodel "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, rps float64, burst int) http.Handler {
	t.Helper()

	repo := newTestRepo(t)
	return NewRouter(RouterDeps{
		Repo:           repo,
		Loads:          repo,
		Recorder:       repo,
		RobotCapacity:  5,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	})
}

func newTestRepo(t *testing.T) *repositories.MemoryRepository {
	t.Helper()

	repo := repositories.NewMemoryRepository(domain.Point{})
	robot := repo.AddRobot(domain.Robot{Identifier: "Robot001", Active: true})
	dock := repo.AddDock(domain.Dock{Name: "Dock A", Position: domain.Point{X: 3, Y: 4}, MaxCapacity: 10})
	repo.AddDock(domain.Dock{Name: "Dock B", Position: domain.Point{X: 6, Y: 8}, MaxCapacity: 5})

	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, rec := range []domain.DeliveryRecord{
		{RobotID: robot.ID, DockID: &dock.ID, Route: "0,0 -> 3,4", Load: 4},
		{RobotID: robot.ID, Route: "3,4 -> 0,0"},
		{RobotID: robot.ID, DockID: &dock.ID, Route: "0,0 -> 3,4", Load: 1},
	} {
		rec.Timestamp = t0.Add(time.Duration(i) * time.Minute)
		_, err := repo.AppendDelivery(context.Background(), rec)
		require.NoError(t, err)
	}

	return repo
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestListRobots(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/robots", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListRobotsResponse](t, rec)
	require.Len(t, res.Robots, 1)
	assert.Equal(t, "Robot001", res.Robots[0].Identifier)
}

func TestOriginalCost(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/robots/1/original", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.OriginalCostResponse](t, rec)
	assert.InDelta(t, 15.0, res.TotalCost, 1e-9)
	require.Len(t, res.OriginalRoutes, 3)
	assert.Equal(t, "Dock A", res.OriginalRoutes[0].Dock)
	assert.Equal(t, domain.WarehouseName, res.OriginalRoutes[1].Dock)
}

func TestOptimizedRoute(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/robots/1/optimized", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.OptimizedRouteResponse](t, rec)
	assert.Equal(t, 5, res.RobotCapacity)
	assert.NotEmpty(t, res.RunID)
	assert.InDelta(t, 10.0, res.TotalCost, 1e-9)
	require.Len(t, res.OptimizedTrips, 1)
	assert.Equal(t, 1, res.OptimizedTrips[0].TripNumber)
	require.Len(t, res.OptimizedTrips[0].Segments, 2)
	assert.Equal(t, [2]float64{3, 4}, res.OptimizedTrips[0].Segments[0].To)
	assert.Equal(t, 5, res.OptimizedTrips[0].Segments[0].Delivered)

	rec = do(t, h, http.MethodGet, "/robots/1/optimized?capacity=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[dto.OptimizedRouteResponse](t, rec)
	assert.Len(t, res.OptimizedTrips, 3)
	assert.InDelta(t, 30.0, res.TotalCost, 1e-9)
}

func TestRobotViews(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/robots/1/comparison", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cmp := decode[dto.ComparisonResponse](t, rec)
	assert.InDelta(t, 15.0, cmp.OriginalCost, 1e-9)
	assert.InDelta(t, 10.0, cmp.OptimizedCost, 1e-9)
	assert.InDelta(t, 5.0, cmp.Savings, 1e-9)

	rec = do(t, h, http.MethodGet, "/robots/1/cumulative", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cum := decode[dto.CumulativeResponse](t, rec)
	assert.Equal(t, []float64{5, 10, 15}, cum.OriginalCum)
	assert.Equal(t, []float64{5, 10}, cum.OptimizedCum)

	rec = do(t, h, http.MethodGet, "/robots/1/trajectory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[dto.TrajectoryResponse](t, rec)
	assert.Len(t, tr.OriginalCoords, 4)
	assert.Len(t, tr.OptimizedCoords, 3)
}

func TestRobotEndpointErrors(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"non numeric id", "/robots/abc/original", http.StatusBadRequest},
		{"zero id", "/robots/0/optimized", http.StatusBadRequest},
		{"unknown robot original", "/robots/99/original", http.StatusNotFound},
		{"unknown robot optimized", "/robots/99/optimized", http.StatusNotFound},
		{"unknown robot view", "/robots/99/comparison", http.StatusNotFound},
		{"capacity too small", "/robots/1/optimized?capacity=0", http.StatusBadRequest},
		{"capacity not a number", "/robots/1/cumulative?capacity=x", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tc.target, "")
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRecordDelivery(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodPost, "/robots/1/deliveries", `{"dock_id":2,"route":"0,0 -> 6,8","load":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[dto.DeliveryResponse](t, rec)
	assert.Equal(t, "Dock B", res.Dock)
	assert.Equal(t, 3, res.Load)
	assert.NotZero(t, res.ID)

	rec = do(t, h, http.MethodGet, "/docks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[dto.DashboardResponse](t, rec)
	require.Len(t, dash.DockData, 2)
	assert.Equal(t, 5, dash.DockData[0].TotalLoad)
	assert.Equal(t, 3, dash.DockData[1].TotalLoad)

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"malformed route", "/robots/1/deliveries", `{"route":"0,0 => 1,1","load":1}`, http.StatusBadRequest},
		{"negative load", "/robots/1/deliveries", `{"route":"0,0 -> 1,1","load":-1}`, http.StatusBadRequest},
		{"missing route", "/robots/1/deliveries", `{"load":1}`, http.StatusBadRequest},
		{"unknown field", "/robots/1/deliveries", `{"route":"0,0 -> 1,1","extra":true}`, http.StatusBadRequest},
		{"two objects", "/robots/1/deliveries", `{"route":"0,0 -> 1,1"}{}`, http.StatusBadRequest},
		{"non finite route", "/robots/1/deliveries", `{"route":"NaN,0 -> 1,1","load":0}`, http.StatusBadRequest},
		{"infinite route", "/robots/1/deliveries", `{"route":"0,0 -> Inf,1","load":0}`, http.StatusBadRequest},
		{"unknown dock", "/robots/1/deliveries", `{"dock_id":42,"route":"0,0 -> 1,1"}`, http.StatusUnprocessableEntity},
		{"unknown robot", "/robots/99/deliveries", `{"route":"0,0 -> 1,1"}`, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, 1, 1)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m clientmodel.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRateLimitedRequestsHaveTheirOwnMetricLabel(t *testing.T) {
	h := newTestRouter(t, 1, 1)
	limited := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "rate_limited", "429")
	unmatched := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "429")
	beforeLimited := counterValue(t, limited)
	beforeUnmatched := counterValue(t, unmatched)

	do(t, h, http.MethodGet, "/health", "")
	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, beforeLimited+1, counterValue(t, limited))
	assert.Equal(t, beforeUnmatched, counterValue(t, unmatched))
}

func TestRejectedDeliveryKeepsViewsReadable(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodPost, "/robots/1/deliveries", `{"route":"NaN,0 -> 1,1","load":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	for _, target := range []string{"/robots/1/original", "/robots/1/cumulative", "/robots/1/comparison"} {
		rec := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.NotEmpty(t, rec.Body.String(), target)
	}

	res := decode[dto.OriginalCostResponse](t, do(t, h, http.MethodGet, "/robots/1/original", ""))
	assert.InDelta(t, 15.0, res.TotalCost, 1e-9)
}

func TestUnknownDockNamesTheDock(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodPost, "/robots/1/deliveries", `{"dock_id":42,"route":"0,0 -> 1,1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"dock 42 does not exist"}`, rec.Body.String())
}

type chanSubscriber struct {
	ch      chan ports.Event
	robotID atomic.Int64
}

func (s *chanSubscriber) Subscribe(ctx context.Context, robotID int64) (<-chan ports.Event, error) {
	s.robotID.Store(robotID)
	return s.ch, nil
}

func TestEventStream(t *testing.T) {
	repo := newTestRepo(t)
	sub := &chanSubscriber{ch: make(chan ports.Event, 1)}
	sub.ch <- ports.Event{Type: ports.EventDeliveryRecorded, RobotID: 1, RunID: "run-7"}

	h := NewRouter(RouterDeps{Repo: repo, Recorder: repo, Subscriber: sub, RobotCapacity: 5})

	rec := do(t, h, http.MethodGet, "/robots/99/events/ws", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/robots/1/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var evt ports.Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, ports.EventDeliveryRecorded, evt.Type)
	assert.Equal(t, "run-7", evt.RunID)
	assert.Equal(t, int64(1), sub.robotID.Load())
}

func TestEventStreamNeedsSubscriber(t *testing.T) {
	h := newTestRouter(t, 0, 0)

	rec := do(t, h, http.MethodGet, "/robots/1/events/ws", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrajectoryStream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, 0, 0))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/robots/1/trajectory/ws?interval_ms=0"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	counts := map[string]int{}
	for {
		var f dto.TrajectoryFrame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Done {
			break
		}
		assert.Equal(t, counts[f.Series], f.Index)
		counts[f.Series]++
	}

	assert.Equal(t, 4, counts["original"])
	assert.Equal(t, 3, counts["optimized"])
}
