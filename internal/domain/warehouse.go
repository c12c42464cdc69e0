package domain

// WarehouseName labels return legs in cost breakdowns and trip segments.
const WarehouseName = "Warehouse"

// WarehouseID is the fixed id of the singleton warehouse row.
const WarehouseID int64 = 1

// Origin and destination of every trip.
type Warehouse struct {
	ID           int64
	Position     Point
	PendingCargo int
}
