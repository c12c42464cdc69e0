package dto

import "time"

type PointResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RobotResponse struct {
	ID         int64         `json:"id"`
	Identifier string        `json:"identifier"`
	Position   PointResponse `json:"position"`
	Active     bool          `json:"active"`
}

type ListRobotsResponse struct {
	Robots []RobotResponse `json:"robots"`
}

type RouteCostResponse struct {
	Dock     string  `json:"dock"`
	Distance float64 `json:"distance"`
	Route    string  `json:"route"`
	Load     int     `json:"load"`
}

type OriginalCostResponse struct {
	RobotID        int64               `json:"robot_id"`
	TotalCost      float64             `json:"total_cost"`
	OriginalRoutes []RouteCostResponse `json:"original_routes"`
}

type SegmentResponse struct {
	From      [2]float64 `json:"from"`
	To        [2]float64 `json:"to"`
	Distance  float64    `json:"distance"`
	Delivered int        `json:"delivered"`
	Dock      string     `json:"dock"`
	Position  [2]float64 `json:"position"`
}

type TripResponse struct {
	TripNumber int               `json:"trip_number"`
	TripCost   float64           `json:"trip_cost"`
	Segments   []SegmentResponse `json:"segments"`
}

type OptimizedRouteResponse struct {
	RobotID        int64          `json:"robot_id"`
	RunID          string         `json:"run_id"`
	RobotCapacity  int            `json:"robot_capacity"`
	TotalCost      float64        `json:"total_cost"`
	OptimizedTrips []TripResponse `json:"optimized_trips"`
}

type ComparisonResponse struct {
	Robot         RobotResponse `json:"robot"`
	OriginalCost  float64       `json:"orig_cost"`
	OptimizedCost float64       `json:"opt_cost"`
	Savings       float64       `json:"savings"`
	SavingsPct    float64       `json:"savings_pct"`
}

type CumulativeResponse struct {
	Robot        RobotResponse `json:"robot"`
	OriginalCum  []float64     `json:"original_cum"`
	OptimizedCum []float64     `json:"optimized_cum"`
}

type TrajectoryResponse struct {
	Robot           RobotResponse   `json:"robot"`
	OriginalCoords  []PointResponse `json:"original_coords"`
	OptimizedCoords []PointResponse `json:"optimized_coords"`
}

// TrajectoryFrame is one websocket message of the trajectory animation.
type TrajectoryFrame struct {
	Series string        `json:"series"`
	Index  int           `json:"index"`
	Point  PointResponse `json:"point"`
	Done   bool          `json:"done,omitempty"`
}

type RecordDeliveryRequest struct {
	DockID    *int64     `json:"dock_id" validate:"omitempty,gt=0"`
	Route     string     `json:"route" validate:"required"`
	Load      int        `json:"load" validate:"gte=0"`
	Timestamp *time.Time `json:"timestamp"`
}

type DeliveryResponse struct {
	ID        int64     `json:"id"`
	RobotID   int64     `json:"robot_id"`
	DockID    *int64    `json:"dock_id"`
	Dock      string    `json:"dock"`
	Timestamp time.Time `json:"timestamp"`
	Route     string    `json:"route"`
	Load      int       `json:"load"`
}
