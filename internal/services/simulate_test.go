package services

import (
	"math/rand/v2"
	"robot-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateDeliveries(t *testing.T) {
	docks := []domain.Dock{
		{ID: 1, Name: "Dock A", Position: domain.Point{X: 10, Y: 20}, MaxCapacity: 20},
		{ID: 2, Name: "Dock B", Position: domain.Point{X: 15, Y: 25}, MaxCapacity: 15},
	}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	records, err := SimulateDeliveries(rand.New(rand.NewPCG(1, 2)), SimulationRequest{
		Robot:    domain.Robot{ID: 3},
		Docks:    docks,
		Trips:    10,
		Capacity: 5,
		StartAt:  start,
		Interval: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	trips := 0
	tripLoad := 0
	position := domain.Point{}
	for i, r := range records {
		assert.Equal(t, int64(3), r.RobotID)
		assert.Equal(t, start.Add(time.Duration(i)*500*time.Millisecond), r.Timestamp)

		from, to, ok := domain.ParseRoute(r.Route)
		require.True(t, ok, "route %q", r.Route)
		assert.Equal(t, position, from)
		position = to

		if r.DockID == nil {
			trips++
			assert.Zero(t, r.Load)
			assert.Equal(t, domain.Point{}, to)
			assert.Equal(t, 5, tripLoad)
			tripLoad = 0
			continue
		}

		assert.GreaterOrEqual(t, r.Load, 1)
		tripLoad += r.Load
		assert.LessOrEqual(t, tripLoad, 5)
		assert.Equal(t, docks[*r.DockID-1].Position, to)
		assert.Equal(t, docks[*r.DockID-1].Name, r.DockName)
	}
	assert.Equal(t, 10, trips)
	assert.Zero(t, tripLoad)
}

func TestSimulateDeliveriesErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	_, err := SimulateDeliveries(rng, SimulationRequest{Trips: 1, Capacity: 5})
	assert.Error(t, err)

	_, err = SimulateDeliveries(rng, SimulationRequest{Docks: []domain.Dock{{ID: 1}}, Trips: 1, Capacity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}
