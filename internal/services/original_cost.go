package services

import "robot-route-service/internal/domain"

// CalculateOriginalCost replays recorded route strings and sums their lengths.
//
// Records are visited in the order given. A record whose route cannot be parsed
// is left out of both the total and the breakdown.
func CalculateOriginalCost(records []domain.DeliveryRecord) domain.OriginalCost {
	out := domain.OriginalCost{Routes: []domain.RouteCost{}}

	for _, r := range records {
		start, end, ok := domain.ParseRoute(r.Route)
		if !ok {
			continue
		}

		d := domain.EuclideanDistance(start, end)
		out.TotalCost += d
		out.Routes = append(out.Routes, domain.RouteCost{
			Dock:     r.Destination(),
			Distance: d,
			Route:    r.Route,
			Load:     r.Load,
		})
	}

	return out
}
