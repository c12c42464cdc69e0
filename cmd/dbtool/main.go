package main

import (
	"context"
	"database/sql"
	"flag"
	"math/rand/v2"
	"os"
	"robot-route-service/internal/adapters/repositories"
	"robot-route-service/internal/config"
	"robot-route-service/internal/domain"
	"robot-route-service/internal/platform/db"
	"robot-route-service/internal/platform/logging"
	"robot-route-service/internal/services"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		initSchema      = flag.Bool("init", false, "create the schema and the warehouse row")
		seed            = flag.Bool("seed", false, "upsert docks, robots and warehouse from SEED_PATH")
		simulate        = flag.Int("simulate", 0, "append N randomly generated (unoptimized) trips for the first robot")
		randSeed        = flag.Uint64("rand-seed", 0, "random seed for -simulate (0 = time based)")
		clearDeliveries = flag.Bool("clear-deliveries", false, "delete all delivery records")
		clearDocks      = flag.Bool("clear-docks", false, "delete all docks and their delivery records")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, os.Stdout); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	if !*initSchema && !*seed && *simulate == 0 && !*clearDeliveries && !*clearDocks {
		logrus.Warn("Please specify at least one of -init, -seed, -simulate, -clear-deliveries, -clear-docks")
		flag.Usage()
		os.Exit(2)
	}

	var (
		conn    *sql.DB
		dialect repositories.Dialect
	)
	if cfg.DBDriver == config.DriverPostgres {
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = repositories.Postgres
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = repositories.SQLite
	}
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	repo := repositories.NewSQLDeliveryRepository(conn, dialect)

	if *initSchema {
		logrus.Info("Initializing database schema...")
		if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
			logrus.Fatalf("schema initialization failed: %v", err)
		}
		if err := repositories.EnsureWarehouse(ctx, conn, dialect, domain.Point{X: cfg.WarehouseX, Y: cfg.WarehouseY}); err != nil {
			logrus.Fatalf("warehouse initialization failed: %v", err)
		}
		logrus.Info("Schema ready.")
	}

	if *clearDeliveries {
		n, err := repo.ClearDeliveries(ctx)
		if err != nil {
			logrus.Fatalf("clear deliveries failed: %v", err)
		}
		logrus.WithField("count", n).Info("Cleared delivery records")
	}

	if *clearDocks {
		n, err := repo.ClearDocks(ctx)
		if err != nil {
			logrus.Fatalf("clear docks failed: %v", err)
		}
		logrus.WithField("count", n).Info("Cleared docks")
	}

	if *seed {
		logrus.WithField("path", cfg.SeedPath).Info("Seeding database...")
		fleet, err := repositories.LoadFleetSeed(cfg.SeedPath)
		if err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
		if err := repositories.SeedFleet(ctx, conn, dialect, fleet); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
		logrus.WithFields(logrus.Fields{"docks": len(fleet.Docks), "robots": len(fleet.Robots)}).Info("Seeding complete.")
	}

	if *simulate > 0 {
		if err := runSimulation(ctx, repo, *simulate, cfg.RobotCapacity, *randSeed); err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
	}
}

func runSimulation(ctx context.Context, repo *repositories.SQLDeliveryRepository, trips, capacity int, seed uint64) error {
	robots, err := repo.ListRobots(ctx)
	if err != nil {
		return err
	}
	if len(robots) == 0 {
		logrus.Warn("No robots found, run -seed first")
		return nil
	}
	docks, err := repo.ListDocks(ctx)
	if err != nil {
		return err
	}
	wh, err := repo.GetWarehouse(ctx)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	records, err := services.SimulateDeliveries(rng, services.SimulationRequest{
		Robot:     robots[0],
		Warehouse: wh.Position,
		Docks:     docks,
		Trips:     trips,
		Capacity:  capacity,
		StartAt:   time.Now().UTC(),
		Interval:  500 * time.Millisecond,
	})
	if err != nil {
		return err
	}

	saved, err := repo.AppendDeliveries(ctx, records)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"robot":   robots[0].Identifier,
		"trips":   trips,
		"records": len(saved),
		"seed":    seed,
	}).Info("Original delivery simulation data generated")
	return nil
}
