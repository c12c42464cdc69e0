package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/obs"
	"robot-route-service/internal/ports"
)

// SQL-backed implementation of the delivery repository ports.
// The same queries serve SQLite and Postgres; Dialect adapts placeholders.
type SQLDeliveryRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLDeliveryRepository(db *sql.DB, dialect Dialect) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: db, Dialect: dialect}
}

func (s *SQLDeliveryRepository) ListRobots(ctx context.Context) ([]domain.Robot, error) {
	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, identifier, current_x, current_y, is_active
	FROM robots
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list robots: query robots table: %w", err)
	}
	defer rows.Close()

	robots := make([]domain.Robot, 0, 8)
	for rows.Next() {
		var r domain.Robot
		if err := rows.Scan(&r.ID, &r.Identifier, &r.Position.X, &r.Position.Y, &r.Active); err != nil {
			return nil, fmt.Errorf("list robots: scan row: %w", err)
		}
		robots = append(robots, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list robots: row iteration: %w", err)
	}

	return robots, nil
}

func (s *SQLDeliveryRepository) GetRobot(ctx context.Context, robotID int64) (domain.Robot, error) {
	if s.DB == nil {
		return domain.Robot{}, errors.New("delivery repository: DB is nil")
	}

	q := s.Dialect.rebind(`
	SELECT id, identifier, current_x, current_y, is_active
	FROM robots
	WHERE id = ?;
	`)

	var r domain.Robot
	err := s.DB.QueryRowContext(ctx, q, robotID).Scan(&r.ID, &r.Identifier, &r.Position.X, &r.Position.Y, &r.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Robot{}, fmt.Errorf("get robot %d: %w", robotID, ports.ErrNotFound)
	}
	if err != nil {
		return domain.Robot{}, fmt.Errorf("get robot %d: %w", robotID, err)
	}

	return r, nil
}

func (s *SQLDeliveryRepository) ListDocks(ctx context.Context) ([]domain.Dock, error) {
	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, location_x, location_y, max_capacity, current_load
	FROM docks
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list docks: query docks table: %w", err)
	}
	defer rows.Close()

	docks := make([]domain.Dock, 0, 8)
	for rows.Next() {
		var d domain.Dock
		if err := rows.Scan(&d.ID, &d.Name, &d.Position.X, &d.Position.Y, &d.MaxCapacity, &d.CurrentLoad); err != nil {
			return nil, fmt.Errorf("list docks: scan row: %w", err)
		}
		docks = append(docks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list docks: row iteration: %w", err)
	}

	return docks, nil
}

func (s *SQLDeliveryRepository) ListDeliveries(ctx context.Context, robotID int64) (_ []domain.DeliveryRecord, err error) {
	defer obs.Time(ctx, "repository.ListDeliveries")(&err)

	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	q := s.Dialect.rebind(`
	SELECT l.id, l.robot_id, l.dock_id, COALESCE(d.name, ''), l.recorded_at, l.route_taken, l.load_delivered
	FROM deliveries l
	LEFT JOIN docks d ON d.id = l.dock_id
	WHERE l.robot_id = ?
	ORDER BY l.id;
	`)
	rows, err := s.DB.QueryContext(ctx, q, robotID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DeliveryRecord, 0, 64)
	for rows.Next() {
		var (
			r      domain.DeliveryRecord
			dockID sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.RobotID, &dockID, &r.DockName, &r.Timestamp, &r.Route, &r.Load); err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}
		if dockID.Valid {
			id := dockID.Int64
			r.DockID = &id
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLDeliveryRepository) DockDeliveryTotals(ctx context.Context) (map[int64]int, error) {
	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT dock_id, COALESCE(SUM(load_delivered), 0)
	FROM deliveries
	WHERE dock_id IS NOT NULL
	GROUP BY dock_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("dock totals: query deliveries table: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int)
	for rows.Next() {
		var id int64
		var total int
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("dock totals: scan row: %w", err)
		}
		totals[id] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dock totals: row iteration: %w", err)
	}

	return totals, nil
}

func (s *SQLDeliveryRepository) GetWarehouse(ctx context.Context) (domain.Warehouse, error) {
	if s.DB == nil {
		return domain.Warehouse{}, errors.New("delivery repository: DB is nil")
	}

	q := s.Dialect.rebind(`
	SELECT id, location_x, location_y, pending_cargo
	FROM warehouse
	WHERE id = ?;
	`)

	var w domain.Warehouse
	err := s.DB.QueryRowContext(ctx, q, domain.WarehouseID).Scan(&w.ID, &w.Position.X, &w.Position.Y, &w.PendingCargo)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Warehouse{}, fmt.Errorf("get warehouse: %w", ports.ErrNotFound)
	}
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("get warehouse: %w", err)
	}

	return w, nil
}

// ReplaceDockLoads zeroes every dock's current load and applies loads in one
// transaction, so readers never observe a half-written run.
func (s *SQLDeliveryRepository) ReplaceDockLoads(ctx context.Context, loads map[int64]int) (err error) {
	defer obs.Time(ctx, "repository.ReplaceDockLoads")(&err)

	if s.DB == nil {
		return errors.New("delivery repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace dock loads: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE docks SET current_load = 0;`); err != nil {
		return fmt.Errorf("replace dock loads: reset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`UPDATE docks SET current_load = ? WHERE id = ?;`))
	if err != nil {
		return fmt.Errorf("replace dock loads: prepare update: %w", err)
	}
	defer stmt.Close()

	for id, load := range loads {
		if load == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, load, id); err != nil {
			return fmt.Errorf("replace dock loads: dock %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace dock loads: commit tx: %w", err)
	}

	return nil
}

func (s *SQLDeliveryRepository) AppendDelivery(ctx context.Context, rec domain.DeliveryRecord) (domain.DeliveryRecord, error) {
	saved, err := s.AppendDeliveries(ctx, []domain.DeliveryRecord{rec})
	if err != nil {
		return domain.DeliveryRecord{}, err
	}
	return saved[0], nil
}

// AppendDeliveries inserts records in order inside one transaction and
// returns them with their assigned ids.
func (s *SQLDeliveryRepository) AppendDeliveries(ctx context.Context, recs []domain.DeliveryRecord) ([]domain.DeliveryRecord, error) {
	if s.DB == nil {
		return nil, errors.New("delivery repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("append deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`
	INSERT INTO deliveries (robot_id, dock_id, recorded_at, route_taken, load_delivered)
	VALUES (?, ?, ?, ?, ?)
	RETURNING id;
	`))
	if err != nil {
		return nil, fmt.Errorf("append deliveries: prepare insert: %w", err)
	}
	defer stmt.Close()

	out := make([]domain.DeliveryRecord, 0, len(recs))
	for i, r := range recs {
		var dockID sql.NullInt64
		if r.DockID != nil {
			dockID = sql.NullInt64{Int64: *r.DockID, Valid: true}
		}

		if err := stmt.QueryRowContext(ctx, r.RobotID, dockID, r.Timestamp.UTC(), r.Route, r.Load).Scan(&r.ID); err != nil {
			return nil, fmt.Errorf("append deliveries: insert #%d: %w", i+1, err)
		}
		out = append(out, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("append deliveries: commit tx: %w", err)
	}

	return out, nil
}

// ClearDeliveries removes all delivery records and returns how many were deleted.
func (s *SQLDeliveryRepository) ClearDeliveries(ctx context.Context) (int64, error) {
	return s.clear(ctx, "deliveries")
}

// ClearDocks removes all docks together with the records that reference them.
func (s *SQLDeliveryRepository) ClearDocks(ctx context.Context) (int64, error) {
	return s.clear(ctx, "docks")
}

func (s *SQLDeliveryRepository) clear(ctx context.Context, table string) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("delivery repository: DB is nil")
	}

	// table is always one of the constant names above.
	res, err := s.DB.ExecContext(ctx, "DELETE FROM "+table+";")
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear %s: rows affected: %w", table, err)
	}
	return n, nil
}
