package services

import (
	"context"
	"errors"
	"fmt"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/obs"
	"robot-route-service/internal/ports"
	"time"
)

var ErrInvalidRoute = errors.New("invalid route")

type RecordDeliveryRequest struct {
	RobotID   int64
	DockID    *int64
	Route     string
	Load      int
	Timestamp time.Time
}

// RecordDelivery appends a live delivery event to the robot's history.
//
// Unlike historical replay, live input is checked up front: the robot and dock
// must exist and the route must parse. A zero Timestamp is set to now.
func RecordDelivery(
	ctx context.Context,
	req RecordDeliveryRequest,
	repo ports.DeliveryRepository,
	recorder ports.DeliveryRecorder,
	events ports.EventPublisher,
) (_ domain.DeliveryRecord, err error) {
	defer obs.Time(ctx, "services.RecordDelivery")(&err)

	if req.Load < 0 {
		return domain.DeliveryRecord{}, fmt.Errorf("record delivery: load %d must be non-negative", req.Load)
	}
	if _, _, ok := domain.ParseRoute(req.Route); !ok {
		return domain.DeliveryRecord{}, fmt.Errorf("record delivery: route %q: %w", req.Route, ErrInvalidRoute)
	}

	if _, err := repo.GetRobot(ctx, req.RobotID); err != nil {
		return domain.DeliveryRecord{}, fmt.Errorf("record delivery: get robot %d: %w", req.RobotID, err)
	}

	rec := domain.DeliveryRecord{
		RobotID:   req.RobotID,
		DockID:    req.DockID,
		Route:     req.Route,
		Load:      req.Load,
		Timestamp: req.Timestamp,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	if req.DockID != nil {
		docks, err := repo.ListDocks(ctx)
		if err != nil {
			return domain.DeliveryRecord{}, fmt.Errorf("record delivery: list docks: %w", err)
		}
		found := false
		for _, d := range docks {
			if d.ID == *req.DockID {
				rec.DockName = d.Name
				found = true
				break
			}
		}
		if !found {
			return domain.DeliveryRecord{}, fmt.Errorf("record delivery: dock %d: %w", *req.DockID, ErrUnknownDock)
		}
	}

	saved, err := recorder.AppendDelivery(ctx, rec)
	if err != nil {
		return domain.DeliveryRecord{}, fmt.Errorf("record delivery: append: %w", err)
	}

	publish(ctx, events, ports.Event{
		Type:       ports.EventDeliveryRecorded,
		RobotID:    saved.RobotID,
		OccurredAt: saved.Timestamp,
		Data: map[string]any{
			"record_id": saved.ID,
			"dock":      saved.Destination(),
			"route":     saved.Route,
			"load":      saved.Load,
		},
	})

	return saved, nil
}
