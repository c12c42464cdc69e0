package domain

// Segment is one leg of an optimized trip.
// The closing leg of every trip returns to the warehouse and delivers nothing.
type Segment struct {
	From      Point
	To        Point
	Distance  float64
	Delivered int
	Dock      string
	Position  Point
}

// Trip is one warehouse-to-docks-to-warehouse cycle bounded by robot capacity.
type Trip struct {
	Number   int
	Cost     float64
	Segments []Segment
}

// Delivered returns the cargo dropped across all segments of the trip.
func (t Trip) Delivered() int {
	total := 0
	for _, s := range t.Segments {
		total += s.Delivered
	}
	return total
}

// OptimizedPlan is the output of one optimizer run.
// DockLoads holds the cargo assigned to each dock id during this run only.
type OptimizedPlan struct {
	TotalCost float64
	Trips     []Trip
	DockLoads map[int64]int
}

// RouteCost is one replayed historical leg.
type RouteCost struct {
	Dock     string
	Distance float64
	Route    string
	Load     int
}

// OriginalCost is the baseline cost of a robot's recorded routes.
type OriginalCost struct {
	TotalCost float64
	Routes    []RouteCost
}
