package domain

import "time"

// Represents one historical leg driven by a robot.
// A DeliveryRecord without a DockID is a return leg to the warehouse.
// Records are append-only facts and are never mutated after creation.
type DeliveryRecord struct {
	ID        int64
	RobotID   int64
	DockID    *int64
	DockName  string
	Timestamp time.Time
	Route     string
	Load      int
}

// Destination name used in breakdowns.
func (r DeliveryRecord) Destination() string {
	if r.DockID == nil {
		return WarehouseName
	}
	return r.DockName
}
