package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type WarehouseSeed struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	PendingCargo int     `yaml:"pending_cargo" validate:"gte=0"`
}

type DockSeed struct {
	Name        string  `yaml:"name" validate:"required"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	MaxCapacity int     `yaml:"max_capacity" validate:"gte=0"`
}

type RobotSeed struct {
	Identifier string  `yaml:"identifier" validate:"required,max=50"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Active     *bool   `yaml:"active"`
}

// FleetSeed is the reference data file: warehouse, docks and robots.
type FleetSeed struct {
	Warehouse *WarehouseSeed `yaml:"warehouse" validate:"omitempty"`
	Docks     []DockSeed     `yaml:"docks" validate:"dive"`
	Robots    []RobotSeed    `yaml:"robots" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFleetSeed reads and validates a YAML seed file.
func LoadFleetSeed(path string) (*FleetSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}
	return ParseFleetSeed(raw)
}

func ParseFleetSeed(raw []byte) (*FleetSeed, error) {
	var seed FleetSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("load seed: parse yaml: %w", err)
	}

	for i := range seed.Docks {
		seed.Docks[i].Name = strings.TrimSpace(seed.Docks[i].Name)
	}
	for i := range seed.Robots {
		seed.Robots[i].Identifier = strings.TrimSpace(seed.Robots[i].Identifier)
	}

	if err := validate.Struct(&seed); err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	seen := make(map[string]struct{}, len(seed.Docks))
	for _, d := range seed.Docks {
		if _, ok := seen[d.Name]; ok {
			return nil, fmt.Errorf("load seed: duplicate dock name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}

	return &seed, nil
}

// SeedFleet upserts docks by name and robots by identifier, and the warehouse
// row when the seed names one. Existing delivery history is left untouched.
func SeedFleet(ctx context.Context, db *sql.DB, dialect Dialect, seed *FleetSeed) error {
	if db == nil {
		return errors.New("seed fleet: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if w := seed.Warehouse; w != nil {
		q := dialect.rebind(`
		INSERT INTO warehouse (id, location_x, location_y, pending_cargo)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET location_x = EXCLUDED.location_x,
			location_y = EXCLUDED.location_y,
			pending_cargo = EXCLUDED.pending_cargo;
		`)
		if _, err := tx.ExecContext(ctx, q, w.X, w.Y, w.PendingCargo); err != nil {
			return fmt.Errorf("seed fleet: upsert warehouse: %w", err)
		}
	}

	dockStmt, err := tx.PrepareContext(ctx, dialect.rebind(`
	INSERT INTO docks (name, location_x, location_y, current_load, max_capacity)
	VALUES (?, ?, ?, 0, ?)
	ON CONFLICT (name) DO UPDATE
	SET location_x = EXCLUDED.location_x,
		location_y = EXCLUDED.location_y,
		current_load = 0,
		max_capacity = EXCLUDED.max_capacity;
	`))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare dock upsert: %w", err)
	}
	defer dockStmt.Close()

	for _, d := range seed.Docks {
		if _, err := dockStmt.ExecContext(ctx, d.Name, d.X, d.Y, d.MaxCapacity); err != nil {
			return fmt.Errorf("seed fleet: upsert dock %q: %w", d.Name, err)
		}
	}

	robotStmt, err := tx.PrepareContext(ctx, dialect.rebind(`
	INSERT INTO robots (identifier, current_x, current_y, is_active)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (identifier) DO UPDATE
	SET current_x = EXCLUDED.current_x,
		current_y = EXCLUDED.current_y,
		is_active = EXCLUDED.is_active;
	`))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare robot upsert: %w", err)
	}
	defer robotStmt.Close()

	for _, r := range seed.Robots {
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		if _, err := robotStmt.ExecContext(ctx, r.Identifier, r.X, r.Y, active); err != nil {
			return fmt.Errorf("seed fleet: upsert robot %q: %w", r.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}
