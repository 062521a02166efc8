package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/houseledger/backend/internal/infrastructure/config"
	"github.com/houseledger/backend/internal/infrastructure/logger"
	"github.com/houseledger/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command>

Commands:
  up              apply all pending migrations
  down            roll back the most recent migration
  steps <n>       apply n migrations (negative rolls back)
  version         print the current migration version
  force <v>       set the version without running migrations

Flags:
  -path string    migrations directory (default "migrations")
  -log-level string
                  log level (default "info")
`

func main() {
	migrationsPath := flag.String("path", "migrations", "migrations directory")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	log, err := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(command, *migrationsPath, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func run(command, migrationsPath string, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := migration.New(db, migrationsPath, log)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "steps":
		if flag.NArg() < 2 {
			return fmt.Errorf("steps requires a count argument")
		}
		n, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", flag.Arg(1), err)
		}
		return migrator.Steps(n)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if flag.NArg() < 2 {
			return fmt.Errorf("force requires a version argument")
		}
		v, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		return migrator.Force(v)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
