package services

import (
	"errors"
	"fmt"
	"math"
	"robot-route-service/internal/domain"
	"slices"
)

var ErrUnknownDock = errors.New("unknown dock")

// OptimizeInput is the snapshot one optimizer run works from.
type OptimizeInput struct {
	Warehouse     domain.Point
	Docks         []domain.Dock
	Records       []domain.DeliveryRecord
	RobotCapacity int
}

// demandItem is the per-run ledger entry for one dock.
type demandItem struct {
	dock      domain.Dock
	remaining int
}

// CalculateOptimizedRoute replays a robot's delivery demand as capacity-bounded
// trips using a greedy nearest-dock heuristic.
//
// Demand per dock is the sum of historical loads clamped to the dock's max
// capacity. Each trip leaves the warehouse, repeatedly serves the closest dock
// with remaining demand until the robot is full, then returns to the warehouse.
// Equal distances resolve to the lower dock id. The result is not optimal.
func CalculateOptimizedRoute(in OptimizeInput) (*domain.OptimizedPlan, error) {
	if in.RobotCapacity <= 0 {
		return nil, fmt.Errorf("optimize route: robot capacity %d: %w", in.RobotCapacity, domain.ErrInvalidCapacity)
	}

	ledger, err := buildLedger(in.Docks, in.Records)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	plan := &domain.OptimizedPlan{
		Trips:     []domain.Trip{},
		DockLoads: make(map[int64]int, len(in.Docks)),
	}
	for _, d := range in.Docks {
		plan.DockLoads[d.ID] = 0
	}

	for hasDemand(ledger) {
		trip := domain.Trip{Number: len(plan.Trips) + 1}
		current := in.Warehouse
		tripLoad := 0

		for tripLoad < in.RobotCapacity && hasDemand(ledger) {
			item, dist := nearest(ledger, current)
			if item == nil {
				break
			}

			amount := min(item.remaining, in.RobotCapacity-tripLoad)
			item.remaining -= amount
			plan.DockLoads[item.dock.ID] += amount

			trip.Segments = append(trip.Segments, domain.Segment{
				From:      current,
				To:        item.dock.Position,
				Distance:  dist,
				Delivered: amount,
				Dock:      item.dock.Name,
				Position:  item.dock.Position,
			})

			current = item.dock.Position
			tripLoad += amount
			trip.Cost += dist
		}

		back := domain.EuclideanDistance(current, in.Warehouse)
		trip.Segments = append(trip.Segments, domain.Segment{
			From:      current,
			To:        in.Warehouse,
			Distance:  back,
			Delivered: 0,
			Dock:      domain.WarehouseName,
			Position:  in.Warehouse,
		})
		trip.Cost += back

		plan.Trips = append(plan.Trips, trip)
		plan.TotalCost += trip.Cost
	}

	return plan, nil
}

// buildLedger aggregates delivered loads per dock and clamps them to capacity.
// The ledger is ordered by dock id, which fixes the tie-break order.
func buildLedger(docks []domain.Dock, records []domain.DeliveryRecord) ([]*demandItem, error) {
	byID := make(map[int64]*demandItem, len(docks))
	for _, d := range docks {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("build demand: %w", err)
		}
		byID[d.ID] = &demandItem{dock: d}
	}

	for _, r := range records {
		if r.DockID == nil {
			continue
		}
		item, ok := byID[*r.DockID]
		if !ok {
			return nil, fmt.Errorf("build demand: record %d references dock %d: %w", r.ID, *r.DockID, ErrUnknownDock)
		}
		if r.Load < 0 {
			return nil, fmt.Errorf("build demand: record %d has negative load %d", r.ID, r.Load)
		}
		item.remaining += r.Load
	}

	ledger := make([]*demandItem, 0, len(byID))
	for _, item := range byID {
		item.remaining = min(item.remaining, item.dock.MaxCapacity)
		if item.remaining > 0 {
			ledger = append(ledger, item)
		}
	}
	slices.SortFunc(ledger, func(a, b *demandItem) int {
		switch {
		case a.dock.ID < b.dock.ID:
			return -1
		case a.dock.ID > b.dock.ID:
			return 1
		}
		return 0
	})

	return ledger, nil
}

func hasDemand(ledger []*demandItem) bool {
	for _, item := range ledger {
		if item.remaining > 0 {
			return true
		}
	}
	return false
}

// Select the closest dock with remaining demand (greedy step).
func nearest(ledger []*demandItem, from domain.Point) (*demandItem, float64) {
	var best *demandItem
	bestDist := math.Inf(1)

	for _, item := range ledger {
		if item.remaining <= 0 {
			continue
		}
		d := domain.EuclideanDistance(from, item.dock.Position)
		// Strict comparison keeps the first (lowest id) dock on ties.
		if best == nil || d < bestDist {
			best = item
			bestDist = d
		}
	}

	return best, bestDist
}
