package commands

import (
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/cmd/geoctl/output"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Migrate flags
	steps int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back migrations
  version - Show the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations.

Examples:
  geoctl migrate up            # Apply all pending migrations
  geoctl migrate up --steps 1  # Apply the next migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *migrate.Migrate) error {
			if steps > 0 {
				return m.Steps(steps)
			}
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  geoctl migrate down            # Roll back the last migration
  geoctl migrate down --steps 0  # Roll back everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *migrate.Migrate) error {
			if steps > 0 {
				return m.Steps(-steps)
			}
			return m.Down()
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateUpCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 = all)")
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 = all)")
}

func runMigrate(cmd *cobra.Command, fn func(m *migrate.Migrate) error) error {
	if cfg.DB.IsMemory() {
		output.Warning(cmd.ErrOrStderr(), "In-memory database: migrations only live as long as this process")
	}

	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db, cfg.DB, migrationsDir)
	if err != nil {
		return err
	}

	logger.Info("Running migrations", zap.String("command", cmd.Name()), zap.String("source", database.MigrationSource(migrationsDir, cfg.DB)))
	err = fn(m)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		output.Success(cmd.OutOrStdout(), "No pending migrations")
	case err != nil:
		return fmt.Errorf("migration %s failed: %w", cmd.Name(), err)
	case cmd.Name() != "version":
		output.Success(cmd.OutOrStdout(), "migrate %s completed", cmd.Name())
	}
	return nil
}
