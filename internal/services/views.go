package services

import (
	"cmp"
	"math"
	"robot-route-service/internal/domain"
	"slices"
)

// CostComparison is the before/after summary for one robot.
type CostComparison struct {
	Robot         domain.Robot
	OriginalCost  float64
	OptimizedCost float64
	Savings       float64
	SavingsPct    float64
}

func CompareCosts(robot domain.Robot, original domain.OriginalCost, plan *domain.OptimizedPlan) CostComparison {
	c := CostComparison{
		Robot:         robot,
		OriginalCost:  original.TotalCost,
		OptimizedCost: plan.TotalCost,
	}
	c.Savings = c.OriginalCost - c.OptimizedCost
	if c.OriginalCost > 0 {
		c.SavingsPct = round2(c.Savings / c.OriginalCost * 100)
	}
	return c
}

// SortByTimestamp returns a copy of records in chronological order.
// Records sharing a timestamp keep their insertion order.
func SortByTimestamp(records []domain.DeliveryRecord) []domain.DeliveryRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.DeliveryRecord) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// CumulativeCosts returns running cost totals, rounded to two decimals,
// for the recorded legs and for the flattened optimized segments.
func CumulativeCosts(sortedRecords []domain.DeliveryRecord, plan *domain.OptimizedPlan) (original, optimized []float64) {
	original = []float64{}
	total := 0.0
	for _, r := range sortedRecords {
		start, end, ok := domain.ParseRoute(r.Route)
		if !ok {
			continue
		}
		total += domain.EuclideanDistance(start, end)
		original = append(original, round2(total))
	}

	optimized = []float64{}
	total = 0.0
	for _, s := range flatten(plan) {
		total += s.Distance
		optimized = append(optimized, round2(total))
	}

	return original, optimized
}

// Trajectory returns animation frames: the robot's position followed by the
// end point of every recorded leg, and the robot's position followed by the
// destination of every optimized segment.
func Trajectory(robot domain.Robot, sortedRecords []domain.DeliveryRecord, plan *domain.OptimizedPlan) (original, optimized []domain.Point) {
	original = []domain.Point{robot.Position}
	for _, r := range sortedRecords {
		if _, end, ok := domain.ParseRoute(r.Route); ok {
			original = append(original, end)
		}
	}

	optimized = []domain.Point{robot.Position}
	for _, s := range flatten(plan) {
		optimized = append(optimized, s.To)
	}

	return original, optimized
}

// DockSummary is one dashboard row.
type DockSummary struct {
	DockID      int64
	Name        string
	CurrentLoad int
	TotalLoad   int
}

// DockSummaries pairs each dock's display load with its recorded total.
func DockSummaries(docks []domain.Dock, totals map[int64]int) []DockSummary {
	out := make([]DockSummary, 0, len(docks))
	for _, d := range docks {
		out = append(out, DockSummary{
			DockID:      d.ID,
			Name:        d.Name,
			CurrentLoad: d.CurrentLoad,
			TotalLoad:   totals[d.ID],
		})
	}
	slices.SortFunc(out, func(a, b DockSummary) int { return cmp.Compare(a.DockID, b.DockID) })
	return out
}

func flatten(plan *domain.OptimizedPlan) []domain.Segment {
	if plan == nil {
		return nil
	}
	var segs []domain.Segment
	for _, t := range plan.Trips {
		segs = append(segs, t.Segments...)
	}
	return segs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
