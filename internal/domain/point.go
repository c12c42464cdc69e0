package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a position on the factory floor plan.
type Point struct {
	X float64
	Y float64
}

// Return the point as [x, y] for chart and JSON consumers.
func (p Point) PointToList() []float64 { return []float64{p.X, p.Y} }

const routeArrow = "->"

// ParseRoute parses a route string of the form "x1,y1 -> x2,y2".
//
// Whitespace around the arrow and the numbers is ignored. Any malformed input
// (missing or repeated arrow, wrong component count, non-numeric component)
// returns ok=false; callers skip the record instead of failing the batch.
func ParseRoute(route string) (start Point, end Point, ok bool) {
	sides := strings.Split(route, routeArrow)
	if len(sides) != 2 {
		return Point{}, Point{}, false
	}

	start, ok = parsePoint(sides[0])
	if !ok {
		return Point{}, Point{}, false
	}
	end, ok = parsePoint(sides[1])
	if !ok {
		return Point{}, Point{}, false
	}

	return start, end, true
}

func parsePoint(s string) (Point, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Point{}, false
	}

	x, ok := parseCoord(parts[0])
	if !ok {
		return Point{}, false
	}
	y, ok := parseCoord(parts[1])
	if !ok {
		return Point{}, false
	}

	return Point{X: x, Y: y}, true
}

// parseCoord accepts finite decimal numbers only: NaN, Inf and hex floats are malformed.
func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatRoute renders a leg in the format accepted by ParseRoute.
func FormatRoute(from, to Point) string {
	return fmt.Sprintf("%s,%s -> %s,%s", formatCoord(from.X), formatCoord(from.Y), formatCoord(to.X), formatCoord(to.Y))
}

// 'g' with -1 precision keeps the shortest representation that round-trips exactly.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// EuclideanDistance returns the straight-line distance between two points.
func EuclideanDistance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
