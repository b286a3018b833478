package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		logger.Fatal().Msg("usage: migrate <up|down|version>")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL environment variable is required")
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "file://migrations"
	}

	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create migrate instance")
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no pending migrations")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("migration up failed")
		}
		logger.Info().Msg("migrations applied successfully")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no migrations to rollback")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("migration down failed")
		}
		logger.Info().Msg("migration rolled back successfully")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info().Msg("no migrations applied yet")
			return
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to get version")
		}
		logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")

	default:
		logger.Fatal().Str("command", args[0]).Msg("unknown command")
	}
}
