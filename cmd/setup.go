package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/topten/internal/shared"
	"github.com/urfave/cli/v3"
)

// openDatabase opens the configured SQLite database and applies the pool limits.
func (r *Runner) openDatabase() (*sql.DB, error) {
	r.logger.Info("opening database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, applied, err := shared.MigrationVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s (version %d, %d applied)\n", r.config.Database.Path, version, applied)
	return nil
}

// SetupStatus prints the applied migration version.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	version, applied, err := shared.MigrationVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	r.writePlain("Database: %s\n", r.config.Database.Path)
	r.writePlain("Version:  %d\n", version)
	r.writePlain("Applied:  %d\n", applied)
	return nil
}

// SetupRollback reverts the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	version, _, err := shared.MigrationVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	r.logger.Warn("migration rolled back", "version", version)
	r.writePlain("✓ Rolled back; database now at version %d\n", version)
	return nil
}

// SetupConfig writes the built-in config template to a path (config.toml by default).
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set credentials.spotify to enable search on 'topten serve'\n")
	return nil
}
