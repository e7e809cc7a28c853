package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	migrationsDir string
	verbose       bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geoctl",
	Short: "Operational tooling for the geocommunity store",
	Long: `geoctl manages the geocommunity database outside the HTTP server.

Connection settings come from the same environment variables (and .env file)
the server reads: DB_TYPE, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			zc := zap.NewProductionConfig()
			zc.Encoding = "console"
			logger, err = zc.Build()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "./migrations", "Directory holding the sqlite/ and postgres/ migration sets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// openDB connects and pings the configured database.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))
	return db, nil
}
