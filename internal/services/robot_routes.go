package services

import (
	"context"
	"fmt"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/metrics"
	"robot-route-service/internal/platform/obs"
	"robot-route-service/internal/ports"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OriginalCost loads a robot's history and computes its baseline cost.
// A robot without records (or an unknown robot) yields a zero cost.
func OriginalCost(ctx context.Context, repo ports.DeliveryRepository, robotID int64) (_ domain.OriginalCost, err error) {
	defer obs.Time(ctx, "services.OriginalCost")(&err)

	records, err := repo.ListDeliveries(ctx, robotID)
	if err != nil {
		return domain.OriginalCost{}, fmt.Errorf("original cost: list deliveries for robot %d: %w", robotID, err)
	}

	return CalculateOriginalCost(records), nil
}

type OptimizeRobotRequest struct {
	RobotID       int64
	RobotCapacity int
}

type OptimizeRobotResult struct {
	RunID string
	Plan  *domain.OptimizedPlan
}

// OptimizeRobot runs the optimizer for one robot against fresh repository data.
//
// Dock loads are computed in a run-local map and written back in a single
// ReplaceDockLoads call only after the run succeeds. Nothing is cached; each
// call recomputes from the delivery history.
func OptimizeRobot(
	ctx context.Context,
	req OptimizeRobotRequest,
	repo ports.DeliveryRepository,
	loads ports.DockLoadWriter,
	events ports.EventPublisher,
) (_ *OptimizeRobotResult, err error) {
	defer obs.Time(ctx, "services.OptimizeRobot")(&err)

	records, err := repo.ListDeliveries(ctx, req.RobotID)
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("optimize robot: list deliveries for robot %d: %w", req.RobotID, err)
	}

	return optimizeRecords(ctx, req, records, repo, loads, events)
}

// optimizeRecords runs the optimizer over an already loaded history, so
// callers that also replay the history see the same snapshot on both sides.
func optimizeRecords(
	ctx context.Context,
	req OptimizeRobotRequest,
	records []domain.DeliveryRecord,
	repo ports.DeliveryRepository,
	loads ports.DockLoadWriter,
	events ports.EventPublisher,
) (*OptimizeRobotResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	plan, err := optimizeFromRepo(ctx, repo, req.RobotID, req.RobotCapacity, records)
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	if loads != nil {
		if err := loads.ReplaceDockLoads(ctx, plan.DockLoads); err != nil {
			metrics.OptimizationRuns.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("optimize robot: write dock loads: %w", err)
		}
	}

	metrics.OptimizationRuns.WithLabelValues("ok").Inc()
	metrics.OptimizationDuration.Observe(time.Since(start).Seconds())
	metrics.TripsPlanned.Add(float64(len(plan.Trips)))

	logrus.WithFields(logrus.Fields{
		"run_id":     runID,
		"robot_id":   req.RobotID,
		"trips":      len(plan.Trips),
		"total_cost": plan.TotalCost,
	}).Info("optimization completed")

	publish(ctx, events, ports.Event{
		Type:       ports.EventOptimizationCompleted,
		RobotID:    req.RobotID,
		RunID:      runID,
		OccurredAt: time.Now().UTC(),
		Data: map[string]any{
			"total_cost": plan.TotalCost,
			"trips":      len(plan.Trips),
			"dock_loads": plan.DockLoads,
		},
	})

	return &OptimizeRobotResult{RunID: runID, Plan: plan}, nil
}

func optimizeFromRepo(
	ctx context.Context,
	repo ports.DeliveryRepository,
	robotID int64,
	capacity int,
	records []domain.DeliveryRecord,
) (*domain.OptimizedPlan, error) {
	wh, err := repo.GetWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize robot: get warehouse: %w", err)
	}

	docks, err := repo.ListDocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize robot: list docks: %w", err)
	}

	plan, err := CalculateOptimizedRoute(OptimizeInput{
		Warehouse:     wh.Position,
		Docks:         docks,
		Records:       records,
		RobotCapacity: capacity,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize robot: robot %d: %w", robotID, err)
	}

	return plan, nil
}

type RobotViewRequest struct {
	RobotID       int64
	RobotCapacity int
}

// RobotCostView bundles everything the comparison, cumulative and trajectory
// views need, computed from one snapshot of the history.
type RobotCostView struct {
	Comparison      CostComparison
	OriginalCum     []float64
	OptimizedCum    []float64
	OriginalCoords  []domain.Point
	OptimizedCoords []domain.Point
	Original        domain.OriginalCost
	Optimized       *domain.OptimizedPlan
	Records         []domain.DeliveryRecord
}

// BuildRobotView computes the comparison, cumulative cost and trajectory data
// for a robot. It returns an error wrapping ports.ErrNotFound for unknown robots.
func BuildRobotView(
	ctx context.Context,
	req RobotViewRequest,
	repo ports.DeliveryRepository,
	loads ports.DockLoadWriter,
	events ports.EventPublisher,
) (_ *RobotCostView, err error) {
	defer obs.Time(ctx, "services.BuildRobotView")(&err)

	robot, err := repo.GetRobot(ctx, req.RobotID)
	if err != nil {
		return nil, fmt.Errorf("robot view: get robot %d: %w", req.RobotID, err)
	}

	records, err := repo.ListDeliveries(ctx, robot.ID)
	if err != nil {
		return nil, fmt.Errorf("robot view: list deliveries for robot %d: %w", robot.ID, err)
	}

	res, err := optimizeRecords(ctx, OptimizeRobotRequest{RobotID: robot.ID, RobotCapacity: req.RobotCapacity}, records, repo, loads, events)
	if err != nil {
		return nil, fmt.Errorf("robot view: %w", err)
	}

	original := CalculateOriginalCost(records)
	sorted := SortByTimestamp(records)
	origCum, optCum := CumulativeCosts(sorted, res.Plan)
	origCoords, optCoords := Trajectory(robot, sorted, res.Plan)

	return &RobotCostView{
		Comparison:      CompareCosts(robot, original, res.Plan),
		OriginalCum:     origCum,
		OptimizedCum:    optCum,
		OriginalCoords:  origCoords,
		OptimizedCoords: optCoords,
		Original:        original,
		Optimized:       res.Plan,
		Records:         sorted,
	}, nil
}

// Dashboard returns per-dock display loads and recorded totals.
func Dashboard(ctx context.Context, repo ports.DeliveryRepository) (_ []DockSummary, err error) {
	defer obs.Time(ctx, "services.Dashboard")(&err)

	docks, err := repo.ListDocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list docks: %w", err)
	}

	totals, err := repo.DockDeliveryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: dock totals: %w", err)
	}

	return DockSummaries(docks, totals), nil
}

// publish is best effort: a failed broadcast never fails the request.
func publish(ctx context.Context, events ports.EventPublisher, evt ports.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, evt); err != nil {
		metrics.EventPublishFailures.WithLabelValues(evt.Type).Inc()
		logrus.WithFields(logrus.Fields{
			"event":    evt.Type,
			"robot_id": evt.RobotID,
			"err":      err,
		}).Warn("publish event failed")
	}
}
