package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

// Migrations add the read-path indexes exports and reports rely on. The
// annotation tables themselves belong to the annotation platform.
//
//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "ANNEX_DB_DSN"

func migrateCommand(load loader) *cobra.Command {
	var dsn string

	open := func() (*migrate.Migrate, error) {
		if dsn == "" {
			dsn = os.Getenv(envDSN)
		}
		if dsn == "" {
			cfg, err := load()
			if err != nil {
				return nil, err
			}
			dsn = cfg.Database.URL()
		}

		source, err := iofs.New(migrations, "migrations")
		if err != nil {
			return nil, fmt.Errorf("failed to create migration source: %w", err)
		}

		m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
		return m, nil
	}

	run := func(use, short string, args cobra.PositionalArgs, fn func(cmd *cobra.Command, m *migrate.Migrate, args []string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				return fn(cmd, m, args)
			},
		}
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the annex index migrations",
	}

	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database connection string (default $"+envDSN+" or the database config)")

	cmd.AddCommand(
		run("up", "Apply all up migrations", cobra.NoArgs, func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to run up migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied successfully")
			return nil
		}),
		run("down", "Revert all migrations", cobra.NoArgs, func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to run down migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations reverted successfully")
			return nil
		}),
		run("steps <n>", "Apply n migrations (negative reverts)", cobra.ExactArgs(1), func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration steps\n", n)
			return nil
		}),
		run("version", "Print the current migration version", cobra.NoArgs, func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", v, dirty)
			return nil
		}),
		run("force <version>", "Force set the migration version", cobra.ExactArgs(1), func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			if err := m.Force(v); err != nil {
				return fmt.Errorf("failed to force version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forced to version %d\n", v)
			return nil
		}),
	)

	return cmd
}
