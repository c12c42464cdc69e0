package ports

import (
	"context"
	"errors"
	"robot-route-service/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Port: read access to robots, docks, the warehouse and delivery history.
type DeliveryRepository interface {
	// Return all robots ordered by id.
	ListRobots(ctx context.Context) ([]domain.Robot, error)
	// Return one robot or an error wrapping ErrNotFound.
	GetRobot(ctx context.Context, robotID int64) (domain.Robot, error)
	// Return all docks ordered by id.
	ListDocks(ctx context.Context) ([]domain.Dock, error)
	// Return the robot's delivery records in insertion order.
	ListDeliveries(ctx context.Context, robotID int64) ([]domain.DeliveryRecord, error)
	// Return the total cargo recorded per dock id across all robots.
	DockDeliveryTotals(ctx context.Context) (map[int64]int, error)
	// Return the singleton warehouse.
	GetWarehouse(ctx context.Context) (domain.Warehouse, error)
}

// Port: persists the dock load counters produced by one optimizer run.
type DockLoadWriter interface {
	// Reset every dock's current load to zero and apply loads, as one unit.
	ReplaceDockLoads(ctx context.Context, loads map[int64]int) error
}

// Port: appends live delivery events to the history.
type DeliveryRecorder interface {
	AppendDelivery(ctx context.Context, rec domain.DeliveryRecord) (domain.DeliveryRecord, error)
}
