package ports

import (
	"context"
	"time"
)

const (
	EventOptimizationCompleted = "optimization.completed"
	EventDeliveryRecorded      = "delivery.recorded"
)

// Event is a notification fanned out to display clients.
type Event struct {
	Type       string    `json:"type"`
	RobotID    int64     `json:"robot_id"`
	RunID      string    `json:"run_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// Contract for broadcasting events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// EventSubscriber streams one robot's events until ctx is done.
type EventSubscriber interface {
	Subscribe(ctx context.Context, robotID int64) (<-chan Event, error)
}
