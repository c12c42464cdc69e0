package services

import (
	"robot-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOriginalCost(t *testing.T) {
	dockA := domain.Dock{ID: 1, Name: "Dock A"}

	records := []domain.DeliveryRecord{
		{ID: 1, DockID: dockRef(dockA.ID), DockName: dockA.Name, Route: "0,0 -> 3,4", Load: 2},
		{ID: 2, DockID: dockRef(dockA.ID), DockName: dockA.Name, Route: "garbage", Load: 3},
		{ID: 3, Route: "3,4 -> 0,0", Load: 0},
	}

	got := CalculateOriginalCost(records)

	assert.InDelta(t, 10.0, got.TotalCost, 1e-9)
	require.Len(t, got.Routes, 2)
	assert.Equal(t, domain.RouteCost{Dock: "Dock A", Distance: 5, Route: "0,0 -> 3,4", Load: 2}, got.Routes[0])
	assert.Equal(t, domain.WarehouseName, got.Routes[1].Dock)
	assert.Equal(t, "3,4 -> 0,0", got.Routes[1].Route)
}

func TestCalculateOriginalCostEmpty(t *testing.T) {
	got := CalculateOriginalCost(nil)
	assert.Zero(t, got.TotalCost)
	assert.NotNil(t, got.Routes)
	assert.Empty(t, got.Routes)
}

func TestCalculateOriginalCostKeepsGivenOrder(t *testing.T) {
	records := []domain.DeliveryRecord{
		{ID: 2, Route: "0,0 -> 0,2"},
		{ID: 1, Route: "0,0 -> 0,1"},
	}

	got := CalculateOriginalCost(records)
	require.Len(t, got.Routes, 2)
	assert.InDelta(t, 2.0, got.Routes[0].Distance, 1e-9)
	assert.InDelta(t, 1.0, got.Routes[1].Distance, 1e-9)
}
