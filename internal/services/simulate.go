package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"robot-route-service/internal/domain"
	"time"
)

type SimulationRequest struct {
	Robot     domain.Robot
	Warehouse domain.Point
	Docks     []domain.Dock
	Trips     int
	Capacity  int
	StartAt   time.Time
	Interval  time.Duration
}

// SimulateDeliveries generates unoptimized history for a robot.
//
// Each trip leaves the warehouse and visits randomly chosen docks, ignoring
// dock capacity, dropping 1..(remaining robot capacity) units per stop until
// the robot is empty. The trip closes with a return leg that has no dock.
// Timestamps advance by Interval per record starting at StartAt.
func SimulateDeliveries(rng *rand.Rand, req SimulationRequest) ([]domain.DeliveryRecord, error) {
	if len(req.Docks) == 0 {
		return nil, errors.New("simulate deliveries: dock list must not be empty")
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("simulate deliveries: capacity %d: %w", req.Capacity, domain.ErrInvalidCapacity)
	}
	if req.Trips < 0 {
		return nil, fmt.Errorf("simulate deliveries: trips %d must be non-negative", req.Trips)
	}

	ts := req.StartAt
	next := func() time.Time {
		t := ts
		ts = ts.Add(req.Interval)
		return t
	}

	records := make([]domain.DeliveryRecord, 0, req.Trips*(req.Capacity+1))
	for trip := 0; trip < req.Trips; trip++ {
		current := req.Warehouse
		load := 0

		for load < req.Capacity {
			dock := req.Docks[rng.IntN(len(req.Docks))]
			amount := 1 + rng.IntN(req.Capacity-load)
			dockID := dock.ID

			records = append(records, domain.DeliveryRecord{
				RobotID:   req.Robot.ID,
				DockID:    &dockID,
				DockName:  dock.Name,
				Timestamp: next(),
				Route:     domain.FormatRoute(current, dock.Position),
				Load:      amount,
			})

			load += amount
			current = dock.Position
		}

		records = append(records, domain.DeliveryRecord{
			RobotID:   req.Robot.ID,
			Timestamp: next(),
			Route:     domain.FormatRoute(current, req.Warehouse),
			Load:      0,
		})
	}

	return records, nil
}
