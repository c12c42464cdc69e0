package events

import (
	"context"
	"robot-route-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, evt ports.Event) error {
	logrus.WithFields(logrus.Fields{
		"event":    evt.Type,
		"robot_id": evt.RobotID,
		"run_id":   evt.RunID,
	}).Debug("event")
	return nil
}
