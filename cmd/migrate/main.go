package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/smallerp/backend/internal/infrastructure/config"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/infrastructure/migration"
	"github.com/smallerp/backend/migrations"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

// run holds what a command needs. migrator is nil for file-only commands.
type run struct {
	args     []string
	dir      string
	log      *zap.Logger
	migrator *migration.Migrator
}

func (r run) arg(i int) string {
	if i < len(r.args) {
		return r.args[i]
	}
	return ""
}

// fileCommands work on the migrations directory and never open the database.
var fileCommands = map[string]func(run) error{
	"create": func(r run) error {
		if r.arg(1) == "" {
			return errors.New("usage: migrate create <name> [description]")
		}
		mf, err := migration.CreateMigration(r.dir, r.arg(1), r.arg(2))
		if err != nil {
			return err
		}
		r.log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
	"list": func(r run) error {
		names, err := migration.ListMigrations(r.dir)
		if err != nil {
			return err
		}
		r.log.Info("Available migrations", zap.Int("count", len(names)))
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return nil
	},
}

var dbCommands = map[string]func(run) error{
	"up":   func(r run) error { return r.migrator.Up() },
	"down": func(r run) error { return r.migrator.Down() },
	"step": func(r run) error {
		n, err := strconv.Atoi(r.arg(1))
		if err != nil {
			return errors.New("usage: migrate step <n>")
		}
		return r.migrator.Steps(n)
	},
	"goto": func(r run) error {
		version, err := strconv.ParseUint(r.arg(1), 10, 32)
		if err != nil {
			return errors.New("usage: migrate goto <version>")
		}
		return r.migrator.GoTo(uint(version))
	},
	"force": func(r run) error {
		version, err := strconv.Atoi(r.arg(1))
		if err != nil {
			return errors.New("usage: migrate force <version>")
		}
		return r.migrator.Force(version)
	},
	"version": func(r run) error {
		version, dirty, err := r.migrator.Version()
		if err != nil {
			return err
		}
		r.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	},
	"drop": func(r run) error {
		if !slices.Contains(r.args[1:], "-confirm") && !slices.Contains(r.args[1:], "--confirm") {
			return errors.New("drop cancelled, rerun as 'migrate drop -confirm'")
		}
		return r.migrator.Drop()
	},
}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	name := args[0]

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"}, "development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	r := run{args: args, dir: *path, log: log}
	if r.dir == "" {
		r.dir = defaultMigrationsPath
	}

	if cmd, ok := fileCommands[name]; ok {
		if err := cmd(r); err != nil {
			log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
		}
		return
	}
	cmd, ok := dbCommands[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var source fs.FS = migrations.FS
	if *path != "" {
		log.Info("Using migrations from disk", zap.String("path", *path))
		source = os.DirFS(*path)
	}
	r.migrator, err = migration.New(db, source, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer r.migrator.Close()

	if err := cmd(r); err != nil {
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println(`smallerp database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (repairs a dirty state)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create the next sequential migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml, .env and ERP_DATABASE_* variables.`)
}
