package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"robot-route-service/internal/api/dto"
	"robot-route-service/internal/ports"
	"robot-route-service/internal/services"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RobotHandler exposes cost, optimization and history endpoints per robot.
type RobotHandler struct {
	Repo          ports.DeliveryRepository
	Loads         ports.DockLoadWriter
	Recorder      ports.DeliveryRecorder
	Events        ports.EventPublisher
	Subscriber    ports.EventSubscriber
	RobotCapacity int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxRobotCapacity = 100

func (h *RobotHandler) List(w http.ResponseWriter, r *http.Request) {
	robots, err := h.Repo.ListRobots(r.Context())
	if err != nil {
		writeServiceError(w, r, "list robots", err)
		return
	}

	res := dto.ListRobotsResponse{Robots: make([]dto.RobotResponse, 0, len(robots))}
	for _, rb := range robots {
		res.Robots = append(res.Robots, toRobot(rb))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Original returns the baseline cost replayed from recorded route strings.
func (h *RobotHandler) Original(w http.ResponseWriter, r *http.Request) {
	robotID, ok := robotIDFromPath(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "robot id must be a positive integer")
		return
	}

	if _, err := h.Repo.GetRobot(r.Context(), robotID); err != nil {
		writeServiceError(w, r, "original cost", err)
		return
	}

	cost, err := services.OriginalCost(r.Context(), h.Repo, robotID)
	if err != nil {
		writeServiceError(w, r, "original cost", err)
		return
	}

	res := dto.OriginalCostResponse{
		RobotID:        robotID,
		TotalCost:      cost.TotalCost,
		OriginalRoutes: make([]dto.RouteCostResponse, 0, len(cost.Routes)),
	}
	for _, rc := range cost.Routes {
		res.OriginalRoutes = append(res.OriginalRoutes, dto.RouteCostResponse{
			Dock:     rc.Dock,
			Distance: rc.Distance,
			Route:    rc.Route,
			Load:     rc.Load,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Optimized runs the greedy optimizer and returns the itemized trips.
func (h *RobotHandler) Optimized(w http.ResponseWriter, r *http.Request) {
	robotID, ok := robotIDFromPath(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "robot id must be a positive integer")
		return
	}
	capacity, ok := h.capacity(w, r)
	if !ok {
		return
	}

	if _, err := h.Repo.GetRobot(r.Context(), robotID); err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	res, err := services.OptimizeRobot(
		r.Context(),
		services.OptimizeRobotRequest{RobotID: robotID, RobotCapacity: capacity},
		h.Repo, h.Loads, h.Events,
	)
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizedRouteResponse{
		RobotID:        robotID,
		RunID:          res.RunID,
		RobotCapacity:  capacity,
		TotalCost:      res.Plan.TotalCost,
		OptimizedTrips: toTrips(res.Plan.Trips),
	})
}

func (h *RobotHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	c := view.Comparison
	writeJSON(w, r, http.StatusOK, dto.ComparisonResponse{
		Robot:         toRobot(c.Robot),
		OriginalCost:  c.OriginalCost,
		OptimizedCost: c.OptimizedCost,
		Savings:       c.Savings,
		SavingsPct:    c.SavingsPct,
	})
}

func (h *RobotHandler) Cumulative(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CumulativeResponse{
		Robot:        toRobot(view.Comparison.Robot),
		OriginalCum:  view.OriginalCum,
		OptimizedCum: view.OptimizedCum,
	})
}

func (h *RobotHandler) Trajectory(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TrajectoryResponse{
		Robot:           toRobot(view.Comparison.Robot),
		OriginalCoords:  toPoints(view.OriginalCoords),
		OptimizedCoords: toPoints(view.OptimizedCoords),
	})
}

// RecordDelivery appends a live delivery event for the robot.
func (h *RobotHandler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	robotID, ok := robotIDFromPath(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "robot id must be a positive integer")
		return
	}

	var req dto.RecordDeliveryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}
	req.Route = strings.TrimSpace(req.Route)
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq := services.RecordDeliveryRequest{
		RobotID: robotID,
		DockID:  req.DockID,
		Route:   req.Route,
		Load:    req.Load,
	}
	if req.Timestamp != nil {
		svcReq.Timestamp = *req.Timestamp
	}

	rec, err := services.RecordDelivery(r.Context(), svcReq, h.Repo, h.Recorder, h.Events)
	if errors.Is(err, services.ErrUnknownDock) && req.DockID != nil {
		writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("dock %d does not exist", *req.DockID))
		return
	}
	if err != nil {
		writeServiceError(w, r, "record delivery", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toDelivery(rec))
}

func (h *RobotHandler) view(w http.ResponseWriter, r *http.Request) (*services.RobotCostView, bool) {
	robotID, ok := robotIDFromPath(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "robot id must be a positive integer")
		return nil, false
	}
	capacity, ok := h.capacity(w, r)
	if !ok {
		return nil, false
	}

	view, err := services.BuildRobotView(
		r.Context(),
		services.RobotViewRequest{RobotID: robotID, RobotCapacity: capacity},
		h.Repo, h.Loads, h.Events,
	)
	if err != nil {
		writeServiceError(w, r, "robot view", err)
		return nil, false
	}
	return view, true
}

// capacity reads the optional ?capacity= override.
func (h *RobotHandler) capacity(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("capacity"))
	if raw == "" {
		return h.RobotCapacity, true
	}

	c, err := strconv.Atoi(raw)
	if err != nil || c < 1 || c > maxRobotCapacity {
		writeError(w, r, http.StatusBadRequest, "capacity must be between 1 and 100")
		return 0, false
	}
	return c, true
}

func durationParam(r *http.Request, key string, fallback, limit time.Duration) time.Duration {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return fallback
	}
	d := time.Duration(ms) * time.Millisecond
	if d > limit {
		return limit
	}
	return d
}
