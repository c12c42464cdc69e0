package repositories

import (
	"cmp"
	"context"
	"fmt"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/ports"
	"slices"
	"sync"
)

// MemoryRepository is an in-process implementation of the repository ports,
// used by tests and local demos.
type MemoryRepository struct {
	mu        sync.RWMutex
	warehouse domain.Warehouse
	robots    []domain.Robot
	docks     []domain.Dock
	records   []domain.DeliveryRecord
	nextID    int64
}

func NewMemoryRepository(warehouse domain.Point) *MemoryRepository {
	return &MemoryRepository{
		warehouse: domain.Warehouse{ID: domain.WarehouseID, Position: warehouse},
	}
}

// AddRobot stores a robot, assigning an id when ID is zero.
func (m *MemoryRepository) AddRobot(r domain.Robot) domain.Robot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == 0 {
		r.ID = int64(len(m.robots) + 1)
	}
	m.robots = append(m.robots, r)
	return r
}

// AddDock stores a dock, assigning an id when ID is zero.
func (m *MemoryRepository) AddDock(d domain.Dock) domain.Dock {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == 0 {
		d.ID = int64(len(m.docks) + 1)
	}
	m.docks = append(m.docks, d)
	slices.SortFunc(m.docks, func(a, b domain.Dock) int { return cmp.Compare(a.ID, b.ID) })
	return d
}

func (m *MemoryRepository) ListRobots(ctx context.Context) ([]domain.Robot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.robots), nil
}

func (m *MemoryRepository) GetRobot(ctx context.Context, robotID int64) (domain.Robot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.robots {
		if r.ID == robotID {
			return r, nil
		}
	}
	return domain.Robot{}, fmt.Errorf("get robot %d: %w", robotID, ports.ErrNotFound)
}

func (m *MemoryRepository) ListDocks(ctx context.Context) ([]domain.Dock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.docks), nil
}

func (m *MemoryRepository) ListDeliveries(ctx context.Context, robotID int64) ([]domain.DeliveryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.DeliveryRecord, 0, len(m.records))
	for _, r := range m.records {
		if r.RobotID == robotID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) DockDeliveryTotals(ctx context.Context) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totals := make(map[int64]int)
	for _, r := range m.records {
		if r.DockID != nil {
			totals[*r.DockID] += r.Load
		}
	}
	return totals, nil
}

func (m *MemoryRepository) GetWarehouse(ctx context.Context) (domain.Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.warehouse, nil
}

func (m *MemoryRepository) ReplaceDockLoads(ctx context.Context, loads map[int64]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.docks {
		m.docks[i].CurrentLoad = loads[m.docks[i].ID]
	}
	return nil
}

func (m *MemoryRepository) AppendDelivery(ctx context.Context, rec domain.DeliveryRecord) (domain.DeliveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.DockID != nil && rec.DockName == "" {
		for _, d := range m.docks {
			if d.ID == *rec.DockID {
				rec.DockName = d.Name
				break
			}
		}
	}

	m.nextID++
	rec.ID = m.nextID
	m.records = append(m.records, rec)
	return rec, nil
}
