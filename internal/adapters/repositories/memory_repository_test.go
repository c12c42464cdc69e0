package repositories

import (
	"context"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(domain.Point{X: 2, Y: 3})

	robot := repo.AddRobot(domain.Robot{Identifier: "Robot001"})
	dockB := repo.AddDock(domain.Dock{ID: 5, Name: "Dock B", MaxCapacity: 3})
	dockA := repo.AddDock(domain.Dock{ID: 2, Name: "Dock A", MaxCapacity: 3})

	docks, err := repo.ListDocks(ctx)
	require.NoError(t, err)
	require.Len(t, docks, 2)
	assert.Equal(t, dockA.ID, docks[0].ID, "docks are listed by id")

	rec, err := repo.AppendDelivery(ctx, domain.DeliveryRecord{RobotID: robot.ID, DockID: &dockB.ID, Load: 2})
	require.NoError(t, err)
	assert.Equal(t, "Dock B", rec.DockName)

	_, err = repo.AppendDelivery(ctx, domain.DeliveryRecord{RobotID: 42, DockID: &dockB.ID, Load: 1})
	require.NoError(t, err)

	records, err := repo.ListDeliveries(ctx, robot.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	totals, err := repo.DockDeliveryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{dockB.ID: 3}, totals)

	wh, err := repo.GetWarehouse(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 2, Y: 3}, wh.Position)

	_, err = repo.GetRobot(ctx, 9)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
