package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"hostelhub/cmd/migration/seed"
	"hostelhub/config"
	"hostelhub/internal/database"

	logger "github.com/Bparsons0904/goLogger"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

const (
	MIGRATION_PATH = "cmd/migration/migrations"
	MIGRATION_DB   = "postgres"
)

func main() {
	log := logger.New("migrations").Function("main")

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	switch migrationType {
	case "up":
		err = migrateUp(db.SQL, config, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Er("failed to parse step", err)
				os.Exit(1)
			}
		}
		err = migrateDown(steps, config, log)
	case "seed":
		err = migrateSeed(db, config, log)
	default:
		err = log.Error("unknown migration command", "command", migrationType)
	}

	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

// migrateUp creates the tables from the models, then applies the SQL files that
// add indexes and check constraints on top of them.
func migrateUp(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	if err := database.AutoMigrate(db); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := runMigrations(config, log, migrate.Up, 0); err != nil {
		return log.Err("failed to run migrations", err)
	}

	return nil
}

func migrateDown(steps int, config config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down", "steps", steps)

	if err := runMigrations(config, log, migrate.Down, steps); err != nil {
		return log.Err("failed to run migrations", err)
	}

	return nil
}

func migrateSeed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := runMigrations(config, log, migrate.Down, 0); err != nil {
		return log.Err("failed to roll back file migrations", err)
	}

	if err := cleanDatabase(db.SQL, log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	if err := migrateUp(db.SQL, config, log); err != nil {
		return log.Err("failed to migrate", err)
	}

	log.Info("Seeding database")
	if err := seed.Seed(db.SQL, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

// runMigrations applies at most max file migrations in direction; zero means all.
func runMigrations(
	config config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
	max int,
) error {
	log = log.Function("runMigrations")

	files, err := filepath.Glob(filepath.Join(MIGRATION_PATH, "*.sql"))
	if err != nil {
		return log.Err("failed to check for migration files", err)
	}
	if len(files) == 0 {
		log.Info("No migration files found, skipping file-based migrations")
		return nil
	}

	db, err := sql.Open(MIGRATION_DB, database.DSN(config))
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	source := &migrate.FileMigrationSource{Dir: MIGRATION_PATH}
	n, err := migrate.ExecMax(db, MIGRATION_DB, source, direction, max)
	if err != nil {
		return log.Err("failed to run migrations", err)
	}

	if n == 0 {
		log.Info("No migrations to apply")
	} else {
		log.Info("Applied migrations", "migrationCount", n, "direction", direction)
	}

	return nil
}

func cleanDatabase(db *gorm.DB, log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Dropping tables before seeding")

	if err := db.Migrator().DropTable(database.MigrationModels()...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	return nil
}
