package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
//
// --rollback undoes the latest migration and --status lists what has been applied.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	switch {
	case cmd.Bool("rollback"):
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back latest migration\n")

	case cmd.Bool("status"):
		statuses, err := shared.Migrations(db)
		if err != nil {
			return err
		}
		r.writePlainHeader("Migrations")
		for _, m := range statuses {
			applied := "pending"
			if m.AppliedAt != nil {
				applied = m.AppliedAt.Local().Format("2006-01-02 15:04:05")
			}
			r.writePlain("%04d  %-24s %s\n", m.Version, m.Name, applied)
		}
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url (or %s in .env) to the backend URL\n", shared.EnvBaseURL)
	r.writePlain("2. Run 'atlas auth login' to sign in\n")
	return nil
}
