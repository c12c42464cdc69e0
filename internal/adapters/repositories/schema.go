package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"robot-route-service/internal/domain"
)

// InitSchema creates the fleet tables when they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	tsColumn := "TIMESTAMP"
	if dialect == Postgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
		tsColumn = "TIMESTAMPTZ"
	}

	createWarehouseQuery := `
	CREATE TABLE IF NOT EXISTS warehouse (
		id BIGINT PRIMARY KEY,
		location_x DOUBLE PRECISION NOT NULL DEFAULT 0,
		location_y DOUBLE PRECISION NOT NULL DEFAULT 0,
		pending_cargo INTEGER NOT NULL DEFAULT 0
	);
	`

	createDocksQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS docks (
		id %s,
		name TEXT NOT NULL UNIQUE,
		location_x DOUBLE PRECISION NOT NULL,
		location_y DOUBLE PRECISION NOT NULL,
		current_load INTEGER NOT NULL DEFAULT 0 CHECK (current_load >= 0),
		max_capacity INTEGER NOT NULL CHECK (max_capacity >= 0)
	);
	`, idColumn)

	createRobotsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS robots (
		id %s,
		identifier TEXT NOT NULL UNIQUE,
		current_x DOUBLE PRECISION NOT NULL,
		current_y DOUBLE PRECISION NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`, idColumn)

	createDeliveriesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS deliveries (
		id %s,
		robot_id BIGINT NOT NULL REFERENCES robots(id) ON DELETE CASCADE,
		dock_id BIGINT REFERENCES docks(id) ON DELETE CASCADE,
		recorded_at %s NOT NULL,
		route_taken TEXT NOT NULL,
		load_delivered INTEGER NOT NULL CHECK (load_delivered >= 0)
	);
	`, idColumn, tsColumn)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_robot_id
	ON deliveries(robot_id, id);
	`

	statements := []string{
		createWarehouseQuery,
		createDocksQuery,
		createRobotsQuery,
		createDeliveriesQuery,
		createIndexQuery,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// EnsureWarehouse creates the singleton warehouse row at pos if it is missing.
// An existing row keeps its stored position.
func EnsureWarehouse(ctx context.Context, db *sql.DB, dialect Dialect, pos domain.Point) error {
	q := dialect.rebind(`
	INSERT INTO warehouse (id, location_x, location_y, pending_cargo)
	VALUES (?, ?, ?, 0)
	ON CONFLICT (id) DO NOTHING;
	`)
	if _, err := db.ExecContext(ctx, q, domain.WarehouseID, pos.X, pos.Y); err != nil {
		return fmt.Errorf("ensure warehouse: %w", err)
	}
	return nil
}
