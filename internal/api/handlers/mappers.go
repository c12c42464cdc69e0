package handlers

import (
	"robot-route-service/internal/api/dto"
	"robot-route-service/internal/domain"
)

func toPoint(p domain.Point) dto.PointResponse {
	return dto.PointResponse{X: p.X, Y: p.Y}
}

func toPair(p domain.Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}

func toPoints(ps []domain.Point) []dto.PointResponse {
	out := make([]dto.PointResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPoint(p))
	}
	return out
}

func toRobot(r domain.Robot) dto.RobotResponse {
	return dto.RobotResponse{
		ID:         r.ID,
		Identifier: r.Identifier,
		Position:   toPoint(r.Position),
		Active:     r.Active,
	}
}

func toTrips(trips []domain.Trip) []dto.TripResponse {
	out := make([]dto.TripResponse, 0, len(trips))
	for _, t := range trips {
		segs := make([]dto.SegmentResponse, 0, len(t.Segments))
		for _, s := range t.Segments {
			segs = append(segs, dto.SegmentResponse{
				From:      toPair(s.From),
				To:        toPair(s.To),
				Distance:  s.Distance,
				Delivered: s.Delivered,
				Dock:      s.Dock,
				Position:  toPair(s.Position),
			})
		}
		out = append(out, dto.TripResponse{
			TripNumber: t.Number,
			TripCost:   t.Cost,
			Segments:   segs,
		})
	}
	return out
}

func toDelivery(rec domain.DeliveryRecord) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:        rec.ID,
		RobotID:   rec.RobotID,
		DockID:    rec.DockID,
		Dock:      rec.Destination(),
		Timestamp: rec.Timestamp,
		Route:     rec.Route,
		Load:      rec.Load,
	}
}
