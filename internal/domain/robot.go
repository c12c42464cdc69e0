package domain

// Delivery robot tracked by the system. One robot is optimized per request.
type Robot struct {
	ID         int64
	Identifier string
	Position   Point
	Active     bool
}

// DefaultRobotCapacity is the number of cargo units a robot carries per trip.
const DefaultRobotCapacity = 5
